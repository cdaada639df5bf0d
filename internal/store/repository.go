package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// TxBeginner abstracts the ability to begin a database transaction.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// CursorRepository provides access to the per-worker progress cursor.
type CursorRepository interface {
	Get(ctx context.Context, workerID string) (*model.ProgressCursor, error)
	// Advance durably records sequence as processed. It never moves the
	// cursor backwards.
	Advance(ctx context.Context, workerID string, sequence int64) error
	// Set overwrites the cursor, including backwards, for operator replay.
	Set(ctx context.Context, workerID string, sequence int64) error
}

// ProfileCounterDelta is added to the stored profile counters. Results are
// floored at zero.
type ProfileCounterDelta struct {
	Followers       int64
	Following       int64
	Content         int64
	PlatformsJoined int64
}

// ProfileRepository provides write access to profiles.
type ProfileRepository interface {
	// EnsureTx inserts a zero-counter stub for address if absent.
	EnsureTx(ctx context.Context, tx *sql.Tx, address string, seenAt time.Time) (bool, error)
	// UpsertTx inserts or updates a profile keyed by owner address. Nil
	// display fields keep their stored value. It reports whether a new row
	// was inserted.
	UpsertTx(ctx context.Context, tx *sql.Tx, p *model.Profile) (bool, error)
	FindAddressByProfileIDTx(ctx context.Context, tx *sql.Tx, profileID string) (string, bool, error)
	SetUsernameTx(ctx context.Context, tx *sql.Tx, address, username string, at time.Time) error
	AdjustCountersTx(ctx context.Context, tx *sql.Tx, address string, delta ProfileCounterDelta, at time.Time) error
}

// SocialGraphRepository provides access to follow and profile block rows.
// Row existence is the relationship state.
type SocialGraphRepository interface {
	InsertFollowTx(ctx context.Context, tx *sql.Tx, follower, following string, at time.Time) (bool, error)
	DeleteFollowTx(ctx context.Context, tx *sql.Tx, follower, following string) (bool, error)
	InsertBlockTx(ctx context.Context, tx *sql.Tx, blocker, blocked string, reason *string, at time.Time) (bool, error)
	DeleteBlockTx(ctx context.Context, tx *sql.Tx, blocker, blocked string) (bool, error)
}

// PlatformUpdate carries the mutable platform fields; nil keeps the stored
// value.
type PlatformUpdate struct {
	PlatformID  string
	Name        *string
	Tagline     *string
	Description *string
	Logo        *string
	Status      *int16
	UpdatedAt   time.Time
}

type PlatformApproval struct {
	PlatformID string
	IsApproved bool
	ApprovedBy string
	ChangedAt  time.Time
}

// PlatformCounterDelta is added to stored platform counters, floored at zero.
type PlatformCounterDelta struct {
	Users   int64
	Content int64
}

// PlatformRepository provides write access to platforms, their moderators,
// their profile blocks and their memberships.
type PlatformRepository interface {
	UpsertTx(ctx context.Context, tx *sql.Tx, p *model.Platform) (bool, error)
	EnsureTx(ctx context.Context, tx *sql.Tx, platformID string, seenAt time.Time) (bool, error)
	UpdateTx(ctx context.Context, tx *sql.Tx, u PlatformUpdate) (bool, error)
	SetApprovalTx(ctx context.Context, tx *sql.Tx, a PlatformApproval) (bool, error)
	AdjustCountersTx(ctx context.Context, tx *sql.Tx, platformID string, delta PlatformCounterDelta, at time.Time) error

	InsertModeratorTx(ctx context.Context, tx *sql.Tx, platformID, moderator, addedBy string, at time.Time) (bool, error)
	DeleteModeratorTx(ctx context.Context, tx *sql.Tx, platformID, moderator string) (bool, error)
	InsertBlockTx(ctx context.Context, tx *sql.Tx, platformID, profile, blockedBy string, at time.Time) (bool, error)
	DeleteBlockTx(ctx context.Context, tx *sql.Tx, platformID, profile string) (bool, error)
	IsBlockedTx(ctx context.Context, tx *sql.Tx, platformID, profile string) (bool, error)
	InsertMembershipTx(ctx context.Context, tx *sql.Tx, platformID, profile string, at time.Time) (bool, error)
	DeleteMembershipTx(ctx context.Context, tx *sql.Tx, platformID, profile string) (bool, error)
}

// UsernameRepository provides access to the username registry and its
// history. Usernames are globally unique.
type UsernameRepository interface {
	// OwnerTx returns the profile id currently holding username.
	OwnerTx(ctx context.Context, tx *sql.Tx, username string) (string, bool, error)
	// CurrentTx returns the username currently held by profileID.
	CurrentTx(ctx context.Context, tx *sql.Tx, profileID string) (string, bool, error)
	AssignTx(ctx context.Context, tx *sql.Tx, profileID, username string, at time.Time) error
	AppendHistoryTx(ctx context.Context, tx *sql.Tx, change model.UsernameChange) (bool, error)
}

type Content struct {
	ContentID      string
	CreatorAddress string
	PlatformID     *string
	ContentType    string
	ParentID       *string
	CreatedAt      time.Time
}

type License struct {
	LicenseID       string
	IPID            string
	LicenseeAddress string
	LicenseType     int16
	GrantedAt       time.Time
	ExpiresAt       *time.Time
	PaymentAmount   int64
}

// IntellectualProperty is a registered IP, or a stub when RegisteredAt is
// nil.
type IntellectualProperty struct {
	IPID           string
	CreatorAddress string
	Title          string
	IPType         int16
	CreatedAt      time.Time
	RegisteredAt   *time.Time
}

type FeeDistribution struct {
	EventID           string
	FeeModelID        string
	ModelName         string
	TransactionAmount int64
	TotalFeeAmount    int64
	TokenType         string
	DistributedAt     time.Time
}

// ContentRepository provides write access to content, interactions,
// intellectual property, licenses and fee distributions.
type ContentRepository interface {
	UpsertContentTx(ctx context.Context, tx *sql.Tx, c *Content) (bool, error)
	IncrementCommentCountTx(ctx context.Context, tx *sql.Tx, parentID string) error
	InsertInteractionTx(ctx context.Context, tx *sql.Tx, profile, contentID, interactionType string, at time.Time) (bool, error)
	IncrementInteractionCountTx(ctx context.Context, tx *sql.Tx, contentID, interactionType string) error
	// UpsertIPTx reports whether this call registered the IP, including a
	// registration that fills in an earlier stub.
	UpsertIPTx(ctx context.Context, tx *sql.Tx, ip *IntellectualProperty) (bool, error)
	MarkIPRegisteredTx(ctx context.Context, tx *sql.Tx, contentID string) error
	InsertLicenseTx(ctx context.Context, tx *sql.Tx, l *License) (bool, error)
	ApplyLicenseTx(ctx context.Context, tx *sql.Tx, ipID string, paymentAmount int64) (bool, error)
	InsertFeeDistributionTx(ctx context.Context, tx *sql.Tx, f *FeeDistribution) (bool, error)
}

type DailyDelta struct {
	NewProfiles          int64
	NewContent           int64
	Interactions         int64
	NewIPRegistrations   int64
	NewLicenses          int64
	TotalFeesDistributed int64
}

type PlatformDailyDelta struct {
	NewUsers       int64
	ContentCreated int64
}

// StatisticsRepository maintains the daily rollups.
type StatisticsRepository interface {
	AddDailyTx(ctx context.Context, tx *sql.Tx, day time.Time, delta DailyDelta) error
	AddPlatformDailyTx(ctx context.Context, tx *sql.Tx, platformID string, day time.Time, delta PlatformDailyDelta) error
}

// EventLogRepository appends applied events and skipped-event audit rows.
type EventLogRepository interface {
	// AppendTx logs an applied event; a duplicate event_id is a no-op.
	AppendTx(ctx context.Context, tx *sql.Tx, entry *model.EventLogEntry) (bool, error)
	AuditTx(ctx context.Context, tx *sql.Tx, entry *model.AuditEntry) error
}

// CounterScan reports whether one row's stored counters differ from the
// values derived from its source tables.
type CounterScan struct {
	Key     string
	Drifted bool
}

// ReconciliationRepository reads stored and recomputed counters and
// corrects individual rows under a short row lock.
type ReconciliationRepository interface {
	// ScanProfiles returns up to limit profiles ordered by address after the
	// given key.
	ScanProfiles(ctx context.Context, after string, limit int) ([]CounterScan, error)
	ScanPlatforms(ctx context.Context, after string, limit int) ([]CounterScan, error)
	// CorrectProfileCounters locks one profile row, recomputes its counters
	// from the relationship tables and writes them back if they differ.
	CorrectProfileCounters(ctx context.Context, address string) (model.ProfileCounters, bool, error)
	CorrectPlatformCounters(ctx context.Context, platformID string) (model.PlatformCounters, bool, error)
	RecordRun(ctx context.Context, run *model.ReconciliationRun) error
}
