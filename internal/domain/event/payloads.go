package event

// Validation tags mirror the projection columns: ids and addresses are
// VARCHAR(128), usernames and content types VARCHAR(64), interaction types
// VARCHAR(32), SMALLINT enums stop at 32767 and amounts at the BIGINT
// maximum. pgtext rejects NUL, which no Postgres text column stores.

type ProfileCreated struct {
	ProfileID    string  `json:"profile_id" validate:"required,max=128,pgtext"`
	OwnerAddress string  `json:"owner_address" validate:"required,max=128,pgtext"`
	Username     *string `json:"username" validate:"omitempty,max=64,pgtext"`
	DisplayName  *string `json:"display_name"`
	Bio          *string `json:"bio"`
	ProfilePhoto *string `json:"profile_photo"`
	CoverPhoto   *string `json:"cover_photo"`
	Website      *string `json:"website"`
	CreatedAt    Uint64  `json:"created_at"`
}

// ProfileUpdated may omit the owner; the writer then resolves it through
// profile_id.
type ProfileUpdated struct {
	ProfileID    string  `json:"profile_id" validate:"required,max=128,pgtext"`
	OwnerAddress string  `json:"owner_address" validate:"max=128,pgtext"`
	DisplayName  *string `json:"display_name"`
	Bio          *string `json:"bio"`
	ProfilePhoto *string `json:"profile_photo"`
	CoverPhoto   *string `json:"cover_photo"`
	Website      *string `json:"website"`
	UpdatedAt    Uint64  `json:"updated_at"`
}

// UsernameChanged covers both first registration (OldUsername empty) and
// renames.
type UsernameChanged struct {
	ProfileID    string `json:"profile_id" validate:"required,max=128,pgtext"`
	OwnerAddress string `json:"owner_address" validate:"max=128,pgtext"`
	OldUsername  string `json:"old_username" validate:"max=64,pgtext"`
	NewUsername  string `json:"new_username" validate:"required,max=64,pgtext"`
	ChangedAt    Uint64 `json:"changed_at"`
}

type Followed struct {
	Follower  string `json:"follower" validate:"required,max=128,pgtext"`
	Following string `json:"following" validate:"required,max=128,pgtext"`
	Timestamp Uint64 `json:"timestamp"`
}

type Unfollowed struct {
	Follower   string `json:"follower" validate:"required,max=128,pgtext"`
	Unfollowed string `json:"unfollowed" validate:"required,max=128,pgtext"`
	Timestamp  Uint64 `json:"timestamp"`
}

type ProfileBlocked struct {
	Blocker   string  `json:"blocker" validate:"required,max=128,pgtext"`
	Blocked   string  `json:"blocked" validate:"required,max=128,pgtext"`
	Reason    *string `json:"reason" validate:"omitempty,pgtext"`
	Timestamp Uint64  `json:"timestamp"`
}

type ProfileUnblocked struct {
	Blocker   string `json:"blocker" validate:"required,max=128,pgtext"`
	Blocked   string `json:"blocked" validate:"required,max=128,pgtext"`
	Timestamp Uint64 `json:"timestamp"`
}

type PlatformCreated struct {
	PlatformID  string         `json:"platform_id" validate:"required,max=128,pgtext"`
	Name        string         `json:"name" validate:"required,pgtext"`
	Tagline     *string        `json:"tagline" validate:"omitempty,pgtext"`
	Description *string        `json:"description" validate:"omitempty,pgtext"`
	Logo        *string        `json:"logo" validate:"omitempty,pgtext"`
	Developer   string         `json:"developer" validate:"required,max=128,pgtext"`
	Status      PlatformStatus `json:"status"`
	CreatedAt   Uint64         `json:"created_at"`
}

type PlatformUpdated struct {
	PlatformID  string          `json:"platform_id" validate:"required,max=128,pgtext"`
	Name        *string         `json:"name" validate:"omitempty,pgtext"`
	Tagline     *string         `json:"tagline" validate:"omitempty,pgtext"`
	Description *string         `json:"description" validate:"omitempty,pgtext"`
	Logo        *string         `json:"logo" validate:"omitempty,pgtext"`
	Status      *PlatformStatus `json:"status"`
	UpdatedAt   Uint64          `json:"updated_at"`
}

type PlatformApprovalChanged struct {
	PlatformID string `json:"platform_id" validate:"required,max=128,pgtext"`
	IsApproved bool   `json:"is_approved"`
	ApprovedBy string `json:"approved_by" validate:"max=128,pgtext"`
	ChangedAt  Uint64 `json:"changed_at"`
}

type ModeratorChanged struct {
	PlatformID string `json:"platform_id" validate:"required,max=128,pgtext"`
	Moderator  string `json:"moderator" validate:"required,max=128,pgtext"`
	ChangedBy  string `json:"changed_by" validate:"max=128,pgtext"`
}

// PlatformProfile is shared by platform block/unblock and join/leave; the
// profile is identified by its owner address.
type PlatformProfile struct {
	PlatformID string `json:"platform_id" validate:"required,max=128,pgtext"`
	Profile    string `json:"profile" validate:"required,max=128,pgtext"`
	Actor      string `json:"actor" validate:"max=128,pgtext"`
	Timestamp  Uint64 `json:"timestamp"`
}

type ContentCreated struct {
	ContentID   string  `json:"content_id" validate:"required,max=128,pgtext"`
	Creator     string  `json:"creator" validate:"required,max=128,pgtext"`
	PlatformID  string  `json:"platform_id" validate:"max=128,pgtext"`
	ContentType string  `json:"content_type" validate:"max=64,pgtext"`
	ParentID    *string `json:"parent_id" validate:"omitempty,max=128,pgtext"`
	CreatedAt   Uint64  `json:"created_at"`
}

type ContentInteraction struct {
	Profile         string `json:"profile" validate:"required,max=128,pgtext"`
	ContentID       string `json:"content_id" validate:"required,max=128,pgtext"`
	InteractionType string `json:"interaction_type" validate:"required,max=32,pgtext"`
	CreatedAt       Uint64 `json:"created_at"`
}

type IPRegistered struct {
	IPID      string `json:"ip_id" validate:"required,max=128,pgtext"`
	Creator   string `json:"creator" validate:"required,max=128,pgtext"`
	Title     string `json:"title" validate:"required,pgtext"`
	IPType    Uint64 `json:"ip_type" validate:"max=32767"`
	CreatedAt Uint64 `json:"created_at"`
}

type LicenseGranted struct {
	LicenseID     string `json:"license_id" validate:"required,max=128,pgtext"`
	IPID          string `json:"ip_id" validate:"required,max=128,pgtext"`
	Licensee      string `json:"licensee" validate:"required,max=128,pgtext"`
	LicenseType   Uint64 `json:"license_type" validate:"max=32767"`
	GrantedAt     Uint64 `json:"granted_at"`
	ExpiresAt     Uint64 `json:"expires_at"`
	PaymentAmount Uint64 `json:"payment_amount" validate:"max=9223372036854775807"`
}

type FeesDistributed struct {
	FeeModelID        string `json:"fee_model_id" validate:"required,max=128,pgtext"`
	ModelName         string `json:"model_name" validate:"pgtext"`
	TransactionAmount Uint64 `json:"transaction_amount" validate:"max=9223372036854775807"`
	TotalFeeAmount    Uint64 `json:"total_fee_amount" validate:"max=9223372036854775807"`
	TokenType         string `json:"token_type" validate:"pgtext"`
	Timestamp         Uint64 `json:"timestamp"`
}
