package event

import "github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"

// Kind is the closed set of domain events the indexer applies.
type Kind string

const (
	KindProfileCreated           Kind = "profile_created"
	KindProfileUpdated           Kind = "profile_updated"
	KindUsernameChanged          Kind = "username_changed"
	KindFollowed                 Kind = "followed"
	KindUnfollowed               Kind = "unfollowed"
	KindProfileBlocked           Kind = "profile_blocked"
	KindProfileUnblocked         Kind = "profile_unblocked"
	KindPlatformCreated          Kind = "platform_created"
	KindPlatformUpdated          Kind = "platform_updated"
	KindPlatformApprovalChanged  Kind = "platform_approval_changed"
	KindModeratorAdded           Kind = "moderator_added"
	KindModeratorRemoved         Kind = "moderator_removed"
	KindPlatformBlockedProfile   Kind = "platform_blocked_profile"
	KindPlatformUnblockedProfile Kind = "platform_unblocked_profile"
	KindPlatformJoined           Kind = "platform_joined"
	KindPlatformLeft             Kind = "platform_left"
	KindContentCreated           Kind = "content_created"
	KindContentInteraction       Kind = "content_interaction"
	KindIPRegistered             Kind = "ip_registered"
	KindLicenseGranted           Kind = "license_granted"
	KindFeesDistributed          Kind = "fees_distributed"
)

func (k Kind) String() string {
	return string(k)
}

// LogTable returns the audit log an applied event of this kind is appended to.
func (k Kind) LogTable() model.EventLogTable {
	switch k {
	case KindPlatformCreated, KindPlatformUpdated, KindPlatformApprovalChanged,
		KindModeratorAdded, KindModeratorRemoved,
		KindPlatformBlockedProfile, KindPlatformUnblockedProfile,
		KindPlatformJoined, KindPlatformLeft:
		return model.EventLogPlatform
	default:
		return model.EventLogProfile
	}
}
