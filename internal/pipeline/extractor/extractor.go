package extractor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/event"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"github.com/go-playground/validator/v10"
)

// maxEventIDLength matches the event_id columns of the event and audit logs.
const maxEventIDLength = 160

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("pgtext", storableText); err != nil {
		panic(err)
	}
	return v
}

// storableText rejects strings Postgres text columns refuse: NUL
// characters and invalid UTF-8.
func storableText(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

// Extract turns one checkpoint into the ordered list of domain events the
// projection writer applies. It never fails: unrecognised events are
// counted and dropped, and recognised events that do not decode end up in
// Rejected.
func Extract(cp *model.Checkpoint) event.ExtractedCheckpoint {
	out := event.ExtractedCheckpoint{
		Sequence:  cp.SequenceNumber,
		Timestamp: cp.Time(),
	}

	for _, tx := range cp.Transactions {
		for _, ce := range tx.Events {
			r, ok := lookup(ce.Type)
			if !ok {
				out.Discarded++
				continue
			}

			eventID := tx.Digest + ":" + strconv.FormatInt(ce.EventSeq, 10)
			payload, at, err := r.decode(ce.ParsedJSON)
			if err == nil && (utf8.RuneCountInString(eventID) > maxEventIDLength || strings.ContainsRune(eventID, 0)) {
				err = errEventID
			}
			if err != nil {
				reason := model.AuditReasonParseError
				var verr validator.ValidationErrors
				if errors.As(err, &verr) || errors.Is(err, errEventID) {
					reason = model.AuditReasonValidationError
				}
				out.Rejected = append(out.Rejected, event.Rejected{
					Kind:      r.kind,
					EventID:   eventID,
					EventType: ce.Type,
					Reason:    reason,
					Detail:    err.Error(),
					Raw:       ce.ParsedJSON,
				})
				metrics.ExtractorRejectedTotal.WithLabelValues(r.kind.String(), reason.String()).Inc()
				continue
			}

			ts := at.Time()
			if ts.IsZero() {
				ts = out.Timestamp
			}
			out.Events = append(out.Events, event.DomainEvent{
				Kind:               r.kind,
				EventID:            eventID,
				EventType:          ce.Type,
				CheckpointSequence: cp.SequenceNumber,
				TxDigest:           tx.Digest,
				Timestamp:          ts,
				Payload:            payload,
				Raw:                ce.ParsedJSON,
			})
			metrics.ExtractorEventsTotal.WithLabelValues(r.kind.String()).Inc()
		}
	}

	if out.Discarded > 0 {
		metrics.ExtractorDiscardedTotal.Add(float64(out.Discarded))
	}
	return out
}

// lookup resolves "<package>::<module>::<Struct>" (optionally followed by
// type parameters) by module and struct name only, so upgraded package
// ids keep matching.
func lookup(eventType string) (rule, bool) {
	if i := strings.IndexByte(eventType, '<'); i >= 0 {
		eventType = eventType[:i]
	}
	parts := strings.Split(eventType, "::")
	if len(parts) < 3 {
		return rule{}, false
	}
	r, ok := rules[parts[len(parts)-2]+"::"+parts[len(parts)-1]]
	return r, ok
}

var errEventID = fmt.Errorf("event id exceeds %d characters or contains NUL", maxEventIDLength)

type rule struct {
	kind   event.Kind
	decode func(raw json.RawMessage) (payload any, at event.Uint64, err error)
}

// typed builds a rule decoding into T. prepare normalises the decoded
// value in place and returns its own timestamp, zero when absent.
func typed[T any](kind event.Kind, renames aliases, prepare func(*T) event.Uint64) rule {
	return rule{kind: kind, decode: func(raw json.RawMessage) (any, event.Uint64, error) {
		canonical, err := canonicalize(raw, renames)
		if err != nil {
			return nil, 0, err
		}
		var p T
		if err := json.Unmarshal(canonical, &p); err != nil {
			return nil, 0, fmt.Errorf("decode %s: %w", kind, err)
		}
		at := prepare(&p)
		if err := validate.Struct(&p); err != nil {
			return nil, 0, err
		}
		return p, at, nil
	}}
}

// alias renames the payload key from to the canonical key to.
type alias struct {
	from, to string
}

// aliases are applied in order. A canonical key already present wins, then
// the earliest alias that supplies it.
type aliases []alias

// canonicalize unwraps the Move "fields" envelope and renames alias keys
// to their canonical name.
func canonicalize(raw json.RawMessage, renames aliases) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("payload is not a JSON object")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("decode payload object: %w", err)
	}
	if inner, ok := obj["fields"]; ok {
		inner = bytes.TrimSpace(inner)
		if len(inner) > 0 && inner[0] == '{' {
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(inner, &fields); err != nil {
				return nil, fmt.Errorf("decode fields envelope: %w", err)
			}
			obj = fields
		}
	}
	for _, a := range renames {
		v, ok := obj[a.from]
		if !ok {
			continue
		}
		if _, exists := obj[a.to]; !exists {
			obj[a.to] = v
		}
		delete(obj, a.from)
	}
	return json.Marshal(obj)
}

func lower(fields ...*string) {
	for _, f := range fields {
		*f = strings.ToLower(strings.TrimSpace(*f))
	}
}

func lowerOpt(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.ToLower(strings.TrimSpace(*f))
		}
	}
}

var profileAliases = aliases{
	{"id", "profile_id"},
	{"owner", "owner_address"},
	{"profile_picture", "profile_photo"},
	{"avatar_url", "profile_photo"},
	{"cover_url", "cover_photo"},
}

var profileUpdateAliases = aliases{
	{"id", "profile_id"},
	{"owner", "owner_address"},
	{"profile_picture", "profile_photo"},
	{"avatar_url", "profile_photo"},
	{"cover_url", "cover_photo"},
	{"description", "bio"},
}

var platformProfileAliases = aliases{
	{"profile_id", "profile"},
	{"profile_address", "profile"},
	{"user", "profile"},
	{"blocked_profile_id", "profile"},
	{"blocked_by", "actor"},
	{"unblocked_by", "actor"},
	{"joined_at", "timestamp"},
	{"left_at", "timestamp"},
}

func prepareProfileCreated(p *event.ProfileCreated) event.Uint64 {
	lower(&p.ProfileID, &p.OwnerAddress)
	return p.CreatedAt
}

func prepareProfileUpdated(p *event.ProfileUpdated) event.Uint64 {
	lower(&p.ProfileID, &p.OwnerAddress)
	return p.UpdatedAt
}

func prepareUsername(p *event.UsernameChanged) event.Uint64 {
	lower(&p.ProfileID, &p.OwnerAddress)
	p.NewUsername = strings.TrimSpace(p.NewUsername)
	p.OldUsername = strings.TrimSpace(p.OldUsername)
	return p.ChangedAt
}

func preparePlatformProfile(p *event.PlatformProfile) event.Uint64 {
	lower(&p.PlatformID, &p.Profile, &p.Actor)
	return p.Timestamp
}

func prepareModerator(p *event.ModeratorChanged) event.Uint64 {
	lower(&p.PlatformID, &p.Moderator, &p.ChangedBy)
	return 0
}

var rules = map[string]rule{
	"profile::ProfileCreatedEvent": typed(event.KindProfileCreated, profileAliases, prepareProfileCreated),
	"profile::ProfileUpdatedEvent": typed(event.KindProfileUpdated, profileUpdateAliases, prepareProfileUpdated),
	"profile::UsernameUpdatedEvent": typed(event.KindUsernameChanged, aliases{
		{"owner", "owner_address"},
		{"updated_at", "changed_at"},
	}, prepareUsername),
	"profile::UsernameRegisteredEvent": typed(event.KindUsernameChanged, aliases{
		{"owner", "owner_address"},
		{"username", "new_username"},
		{"registered_at", "changed_at"},
	}, prepareUsername),

	"social_graph::FollowEvent": typed(event.KindFollowed, aliases{
		{"follower_id", "follower"},
		{"following_id", "following"},
		{"followed_at", "timestamp"},
	}, func(p *event.Followed) event.Uint64 {
		lower(&p.Follower, &p.Following)
		return p.Timestamp
	}),
	"social_graph::UnfollowEvent": typed(event.KindUnfollowed, aliases{
		{"follower_id", "follower"},
		{"following", "unfollowed"},
		{"unfollowed_id", "unfollowed"},
	}, func(p *event.Unfollowed) event.Uint64 {
		lower(&p.Follower, &p.Unfollowed)
		return p.Timestamp
	}),

	"block_list::EntityBlockedEvent":   typed(event.KindProfileBlocked, blockAliases, prepareBlocked),
	"block_list::BlockAddedEvent":      typed(event.KindProfileBlocked, blockAliases, prepareBlocked),
	"block_list::BlockProfileEvent":    typed(event.KindProfileBlocked, blockAliases, prepareBlocked),
	"block_list::EntityUnblockedEvent": typed(event.KindProfileUnblocked, unblockAliases, prepareUnblocked),
	"block_list::BlockRemovedEvent":    typed(event.KindProfileUnblocked, unblockAliases, prepareUnblocked),
	"block_list::UnblockProfileEvent":  typed(event.KindProfileUnblocked, unblockAliases, prepareUnblocked),

	"platform::PlatformCreatedEvent": typed(event.KindPlatformCreated, aliases{
		{"id", "platform_id"},
		{"developer_address", "developer"},
		{"logo_url", "logo"},
	}, func(p *event.PlatformCreated) event.Uint64 {
		lower(&p.PlatformID, &p.Developer)
		return p.CreatedAt
	}),
	"platform::PlatformUpdatedEvent": typed(event.KindPlatformUpdated, aliases{
		{"id", "platform_id"},
		{"logo_url", "logo"},
	}, func(p *event.PlatformUpdated) event.Uint64 {
		lower(&p.PlatformID)
		return p.UpdatedAt
	}),
	"platform::PlatformApprovalChangedEvent": typed(event.KindPlatformApprovalChanged, aliases{
		{"approved", "is_approved"},
		{"approver", "approved_by"},
		{"approved_at", "changed_at"},
	}, func(p *event.PlatformApprovalChanged) event.Uint64 {
		lower(&p.PlatformID, &p.ApprovedBy)
		return p.ChangedAt
	}),
	"platform::ModeratorAddedEvent": typed(event.KindModeratorAdded, aliases{
		{"moderator_address", "moderator"},
		{"added_by", "changed_by"},
	}, prepareModerator),
	"platform::ModeratorRemovedEvent": typed(event.KindModeratorRemoved, aliases{
		{"moderator_address", "moderator"},
		{"removed_by", "changed_by"},
	}, prepareModerator),
	"platform::PlatformBlockedProfileEvent":   typed(event.KindPlatformBlockedProfile, platformProfileAliases, preparePlatformProfile),
	"platform::PlatformUnblockedProfileEvent": typed(event.KindPlatformUnblockedProfile, platformProfileAliases, preparePlatformProfile),
	"platform::UserJoinedPlatformEvent":       typed(event.KindPlatformJoined, platformProfileAliases, preparePlatformProfile),
	"platform::UserLeftPlatformEvent":         typed(event.KindPlatformLeft, platformProfileAliases, preparePlatformProfile),

	"content::ContentCreatedEvent":     typed(event.KindContentCreated, contentAliases, prepareContent),
	"post::PostCreatedEvent":           typed(event.KindContentCreated, contentAliases, prepareContent),
	"content::ContentInteractionEvent": typed(event.KindContentInteraction, interactionAliases, prepareInteraction),
	"post::PostInteractionEvent":       typed(event.KindContentInteraction, interactionAliases, prepareInteraction),

	"my_ip::IPRegisteredEvent": typed(event.KindIPRegistered, aliases{
		{"creator_id", "creator"},
	}, func(p *event.IPRegistered) event.Uint64 {
		lower(&p.IPID, &p.Creator)
		return p.CreatedAt
	}),
	"my_ip::LicenseGrantedEvent": typed(event.KindLicenseGranted, aliases{
		{"licensee_address", "licensee"},
	}, func(p *event.LicenseGranted) event.Uint64 {
		lower(&p.LicenseID, &p.IPID, &p.Licensee)
		return p.GrantedAt
	}),

	"fee_distribution::FeesDistributedEvent": typed(event.KindFeesDistributed, nil, func(p *event.FeesDistributed) event.Uint64 {
		lower(&p.FeeModelID)
		return p.Timestamp
	}),
}

var blockAliases = aliases{
	{"blocker_id", "blocker"},
	{"blocker_profile_id", "blocker"},
	{"blocked_id", "blocked"},
	{"blocked_profile_id", "blocked"},
}

var unblockAliases = aliases{
	{"blocker_id", "blocker"},
	{"blocker_profile_id", "blocker"},
	{"unblocked_id", "blocked"},
	{"unblocked", "blocked"},
	{"blocked_profile_id", "blocked"},
}

func prepareBlocked(p *event.ProfileBlocked) event.Uint64 {
	lower(&p.Blocker, &p.Blocked)
	return p.Timestamp
}

func prepareUnblocked(p *event.ProfileUnblocked) event.Uint64 {
	lower(&p.Blocker, &p.Blocked)
	return p.Timestamp
}

var contentAliases = aliases{
	{"creator_id", "creator"},
	{"post_id", "content_id"},
	{"owner", "creator"},
	{"post_type", "content_type"},
}

var interactionAliases = aliases{
	{"profile_id", "profile"},
	{"user", "profile"},
	{"post_id", "content_id"},
}

func prepareContent(p *event.ContentCreated) event.Uint64 {
	lower(&p.ContentID, &p.Creator, &p.PlatformID)
	lowerOpt(p.ParentID)
	if p.ParentID != nil && *p.ParentID == "" {
		p.ParentID = nil
	}
	return p.CreatedAt
}

func prepareInteraction(p *event.ContentInteraction) event.Uint64 {
	lower(&p.Profile, &p.ContentID, &p.InteractionType)
	return p.CreatedAt
}
