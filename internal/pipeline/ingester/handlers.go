package ingester

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/event"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
)

// applyContext is the state of one event inside the checkpoint transaction.
type applyContext struct {
	tx  *sql.Tx
	ev  *event.DomainEvent
	at  time.Time
	day time.Time

	touched []string
}

func (w *Writer) dispatch(ctx context.Context, ac *applyContext) error {
	switch p := ac.ev.Payload.(type) {
	case event.ProfileCreated:
		return w.applyProfileCreated(ctx, ac, p)
	case event.ProfileUpdated:
		return w.applyProfileUpdated(ctx, ac, p)
	case event.UsernameChanged:
		return w.assignUsername(ctx, ac, p.ProfileID, p.OwnerAddress, p.NewUsername, p.OldUsername)
	case event.Followed:
		return w.applyFollowed(ctx, ac, p)
	case event.Unfollowed:
		return w.applyUnfollowed(ctx, ac, p)
	case event.ProfileBlocked:
		_, err := w.repos.SocialGraph.InsertBlockTx(ctx, ac.tx, p.Blocker, p.Blocked, p.Reason, ac.at)
		return err
	case event.ProfileUnblocked:
		_, err := w.repos.SocialGraph.DeleteBlockTx(ctx, ac.tx, p.Blocker, p.Blocked)
		return err
	case event.PlatformCreated:
		return w.applyPlatformCreated(ctx, ac, p)
	case event.PlatformUpdated:
		return w.applyPlatformUpdated(ctx, ac, p)
	case event.PlatformApprovalChanged:
		return w.applyApprovalChanged(ctx, ac, p)
	case event.ModeratorChanged:
		if ac.ev.Kind == event.KindModeratorRemoved {
			_, err := w.repos.Platforms.DeleteModeratorTx(ctx, ac.tx, p.PlatformID, p.Moderator)
			return err
		}
		_, err := w.repos.Platforms.InsertModeratorTx(ctx, ac.tx, p.PlatformID, p.Moderator, p.ChangedBy, ac.at)
		return err
	case event.PlatformProfile:
		return w.applyPlatformProfile(ctx, ac, p)
	case event.ContentCreated:
		return w.applyContentCreated(ctx, ac, p)
	case event.ContentInteraction:
		return w.applyContentInteraction(ctx, ac, p)
	case event.IPRegistered:
		return w.applyIPRegistered(ctx, ac, p)
	case event.LicenseGranted:
		return w.applyLicenseGranted(ctx, ac, p)
	case event.FeesDistributed:
		return w.applyFeesDistributed(ctx, ac, p)
	default:
		return invalidf("no handler for %s payload %T", ac.ev.Kind, p)
	}
}

// ensureProfile stubs a zero-counter profile unless the address is already
// known to exist.
func (w *Writer) ensureProfile(ctx context.Context, ac *applyContext, address string) error {
	if w.known.Contains(address) {
		return nil
	}
	if _, err := w.repos.Profiles.EnsureTx(ctx, ac.tx, address, ac.at); err != nil {
		return err
	}
	ac.touched = append(ac.touched, address)
	return nil
}

func (w *Writer) applyProfileCreated(ctx context.Context, ac *applyContext, p event.ProfileCreated) error {
	registered, err := w.repos.Profiles.UpsertTx(ctx, ac.tx, &model.Profile{
		OwnerAddress: p.OwnerAddress,
		ProfileID:    &p.ProfileID,
		DisplayName:  p.DisplayName,
		Bio:          p.Bio,
		ProfilePhoto: p.ProfilePhoto,
		CoverPhoto:   p.CoverPhoto,
		Website:      p.Website,
		CreatedAt:    ac.at,
		UpdatedAt:    ac.at,
	})
	if err != nil {
		return err
	}
	ac.touched = append(ac.touched, p.OwnerAddress)

	if registered {
		if err := w.repos.Statistics.AddDailyTx(ctx, ac.tx, ac.day, store.DailyDelta{NewProfiles: 1}); err != nil {
			return err
		}
	}

	if p.Username == nil || strings.TrimSpace(*p.Username) == "" {
		return nil
	}
	err = w.assignUsername(ctx, ac, p.ProfileID, p.OwnerAddress, strings.TrimSpace(*p.Username), "")
	if skip, ok := IsSkip(err); ok && skip.Reason == model.AuditReasonUsernameConflict {
		// The profile itself is valid; only the username claim is refused.
		return w.audit(ctx, ac.tx, ac.ev.CheckpointSequence, ac.ev.EventID, ac.ev.EventType, skip.Reason, skip.Detail, ac.ev.Raw, ac.at)
	}
	return err
}

func (w *Writer) applyProfileUpdated(ctx context.Context, ac *applyContext, p event.ProfileUpdated) error {
	address := p.OwnerAddress
	if address == "" {
		found, ok, err := w.repos.Profiles.FindAddressByProfileIDTx(ctx, ac.tx, p.ProfileID)
		if err != nil {
			return err
		}
		if !ok {
			return invalidf("update for unknown profile %s without owner address", p.ProfileID)
		}
		address = found
	}

	if _, err := w.repos.Profiles.UpsertTx(ctx, ac.tx, &model.Profile{
		OwnerAddress: address,
		ProfileID:    &p.ProfileID,
		DisplayName:  p.DisplayName,
		Bio:          p.Bio,
		ProfilePhoto: p.ProfilePhoto,
		CoverPhoto:   p.CoverPhoto,
		Website:      p.Website,
		CreatedAt:    ac.at,
		UpdatedAt:    ac.at,
	}); err != nil {
		return err
	}
	ac.touched = append(ac.touched, address)
	return nil
}

// assignUsername moves username to profileID. A name held by another
// profile is refused and leaves both profiles untouched.
func (w *Writer) assignUsername(ctx context.Context, ac *applyContext, profileID, ownerAddress, username, oldHint string) error {
	if profileID == "" {
		return invalidf("username change without profile id")
	}

	address, found, err := w.repos.Profiles.FindAddressByProfileIDTx(ctx, ac.tx, profileID)
	if err != nil {
		return err
	}
	if !found {
		if ownerAddress == "" {
			return invalidf("username change for unknown profile %s without owner address", profileID)
		}
		if _, err := w.repos.Profiles.UpsertTx(ctx, ac.tx, &model.Profile{
			OwnerAddress: ownerAddress,
			ProfileID:    &profileID,
			CreatedAt:    ac.at,
			UpdatedAt:    ac.at,
		}); err != nil {
			return err
		}
		ac.touched = append(ac.touched, ownerAddress)
		address = ownerAddress
	}

	holder, held, err := w.repos.Usernames.OwnerTx(ctx, ac.tx, username)
	if err != nil {
		return err
	}
	if held && holder == profileID {
		w.logger.Debug("username already held by profile", "event_id", ac.ev.EventID, "profile_id", profileID, "username", username)
		return nil
	}
	if held {
		return skipf(model.AuditReasonUsernameConflict, "username %q is held by profile %s", username, holder)
	}

	current, hasCurrent, err := w.repos.Usernames.CurrentTx(ctx, ac.tx, profileID)
	if err != nil {
		return err
	}
	if err := w.repos.Usernames.AssignTx(ctx, ac.tx, profileID, username, ac.at); err != nil {
		return err
	}
	if err := w.repos.Profiles.SetUsernameTx(ctx, ac.tx, address, username, ac.at); err != nil {
		return err
	}

	var old *string
	switch {
	case hasCurrent:
		old = &current
	case oldHint != "":
		old = &oldHint
	}
	_, err = w.repos.Usernames.AppendHistoryTx(ctx, ac.tx, model.UsernameChange{
		ProfileID:   profileID,
		OldUsername: old,
		NewUsername: username,
		ChangedAt:   ac.at,
		EventID:     ac.ev.EventID,
	})
	return err
}

func (w *Writer) applyFollowed(ctx context.Context, ac *applyContext, p event.Followed) error {
	if p.Follower == p.Following {
		return invalidf("self-follow by %s", p.Follower)
	}
	if err := w.ensureProfile(ctx, ac, p.Follower); err != nil {
		return err
	}
	if err := w.ensureProfile(ctx, ac, p.Following); err != nil {
		return err
	}

	inserted, err := w.repos.SocialGraph.InsertFollowTx(ctx, ac.tx, p.Follower, p.Following, ac.at)
	if err != nil || !inserted {
		return err
	}
	if err := w.repos.Profiles.AdjustCountersTx(ctx, ac.tx, p.Follower, store.ProfileCounterDelta{Following: 1}, ac.at); err != nil {
		return err
	}
	return w.repos.Profiles.AdjustCountersTx(ctx, ac.tx, p.Following, store.ProfileCounterDelta{Followers: 1}, ac.at)
}

func (w *Writer) applyUnfollowed(ctx context.Context, ac *applyContext, p event.Unfollowed) error {
	deleted, err := w.repos.SocialGraph.DeleteFollowTx(ctx, ac.tx, p.Follower, p.Unfollowed)
	if err != nil || !deleted {
		return err
	}
	if err := w.repos.Profiles.AdjustCountersTx(ctx, ac.tx, p.Follower, store.ProfileCounterDelta{Following: -1}, ac.at); err != nil {
		return err
	}
	return w.repos.Profiles.AdjustCountersTx(ctx, ac.tx, p.Unfollowed, store.ProfileCounterDelta{Followers: -1}, ac.at)
}

func (w *Writer) applyPlatformCreated(ctx context.Context, ac *applyContext, p event.PlatformCreated) error {
	if _, err := w.repos.Platforms.UpsertTx(ctx, ac.tx, &model.Platform{
		PlatformID:       p.PlatformID,
		Name:             p.Name,
		Tagline:          p.Tagline,
		Description:      p.Description,
		Logo:             p.Logo,
		DeveloperAddress: p.Developer,
		Status:           int16(p.Status),
		CreatedAt:        ac.at,
		UpdatedAt:        ac.at,
	}); err != nil {
		return err
	}
	_, err := w.repos.Platforms.InsertModeratorTx(ctx, ac.tx, p.PlatformID, p.Developer, p.Developer, ac.at)
	return err
}

func (w *Writer) applyPlatformUpdated(ctx context.Context, ac *applyContext, p event.PlatformUpdated) error {
	var status *int16
	if p.Status != nil {
		s := int16(*p.Status)
		status = &s
	}
	found, err := w.repos.Platforms.UpdateTx(ctx, ac.tx, store.PlatformUpdate{
		PlatformID:  p.PlatformID,
		Name:        p.Name,
		Tagline:     p.Tagline,
		Description: p.Description,
		Logo:        p.Logo,
		Status:      status,
		UpdatedAt:   ac.at,
	})
	if err != nil {
		return err
	}
	if !found {
		return invalidf("update for unknown platform %s", p.PlatformID)
	}
	return nil
}

func (w *Writer) applyApprovalChanged(ctx context.Context, ac *applyContext, p event.PlatformApprovalChanged) error {
	found, err := w.repos.Platforms.SetApprovalTx(ctx, ac.tx, store.PlatformApproval{
		PlatformID: p.PlatformID,
		IsApproved: p.IsApproved,
		ApprovedBy: p.ApprovedBy,
		ChangedAt:  ac.at,
	})
	if err != nil {
		return err
	}
	if !found {
		return invalidf("approval change for unknown platform %s", p.PlatformID)
	}
	return nil
}

func (w *Writer) applyPlatformProfile(ctx context.Context, ac *applyContext, p event.PlatformProfile) error {
	switch ac.ev.Kind {
	case event.KindPlatformBlockedProfile:
		_, err := w.repos.Platforms.InsertBlockTx(ctx, ac.tx, p.PlatformID, p.Profile, p.Actor, ac.at)
		return err
	case event.KindPlatformUnblockedProfile:
		_, err := w.repos.Platforms.DeleteBlockTx(ctx, ac.tx, p.PlatformID, p.Profile)
		return err
	case event.KindPlatformJoined:
		return w.applyJoined(ctx, ac, p)
	case event.KindPlatformLeft:
		return w.applyLeft(ctx, ac, p)
	default:
		return invalidf("unexpected platform profile kind %s", ac.ev.Kind)
	}
}

// applyJoined ignores joins by a profile the platform has blocked.
// Approval state does not gate membership.
func (w *Writer) applyJoined(ctx context.Context, ac *applyContext, p event.PlatformProfile) error {
	blocked, err := w.repos.Platforms.IsBlockedTx(ctx, ac.tx, p.PlatformID, p.Profile)
	if err != nil {
		return err
	}
	if blocked {
		return skipf(model.AuditReasonIgnored, "profile %s is blocked on platform %s", p.Profile, p.PlatformID)
	}
	if err := w.ensureProfile(ctx, ac, p.Profile); err != nil {
		return err
	}
	if _, err := w.repos.Platforms.EnsureTx(ctx, ac.tx, p.PlatformID, ac.at); err != nil {
		return err
	}

	inserted, err := w.repos.Platforms.InsertMembershipTx(ctx, ac.tx, p.PlatformID, p.Profile, ac.at)
	if err != nil || !inserted {
		return err
	}
	if err := w.repos.Profiles.AdjustCountersTx(ctx, ac.tx, p.Profile, store.ProfileCounterDelta{PlatformsJoined: 1}, ac.at); err != nil {
		return err
	}
	if err := w.repos.Platforms.AdjustCountersTx(ctx, ac.tx, p.PlatformID, store.PlatformCounterDelta{Users: 1}, ac.at); err != nil {
		return err
	}
	return w.repos.Statistics.AddPlatformDailyTx(ctx, ac.tx, p.PlatformID, ac.day, store.PlatformDailyDelta{NewUsers: 1})
}

func (w *Writer) applyLeft(ctx context.Context, ac *applyContext, p event.PlatformProfile) error {
	deleted, err := w.repos.Platforms.DeleteMembershipTx(ctx, ac.tx, p.PlatformID, p.Profile)
	if err != nil || !deleted {
		return err
	}
	if err := w.repos.Profiles.AdjustCountersTx(ctx, ac.tx, p.Profile, store.ProfileCounterDelta{PlatformsJoined: -1}, ac.at); err != nil {
		return err
	}
	return w.repos.Platforms.AdjustCountersTx(ctx, ac.tx, p.PlatformID, store.PlatformCounterDelta{Users: -1}, ac.at)
}

func (w *Writer) applyContentCreated(ctx context.Context, ac *applyContext, p event.ContentCreated) error {
	if err := w.ensureProfile(ctx, ac, p.Creator); err != nil {
		return err
	}
	var platformID *string
	if p.PlatformID != "" {
		platformID = &p.PlatformID
		if _, err := w.repos.Platforms.EnsureTx(ctx, ac.tx, p.PlatformID, ac.at); err != nil {
			return err
		}
	}

	inserted, err := w.repos.Content.UpsertContentTx(ctx, ac.tx, &store.Content{
		ContentID:      p.ContentID,
		CreatorAddress: p.Creator,
		PlatformID:     platformID,
		ContentType:    p.ContentType,
		ParentID:       p.ParentID,
		CreatedAt:      ac.at,
	})
	if err != nil || !inserted {
		return err
	}

	if err := w.repos.Profiles.AdjustCountersTx(ctx, ac.tx, p.Creator, store.ProfileCounterDelta{Content: 1}, ac.at); err != nil {
		return err
	}
	if p.ParentID != nil {
		if err := w.repos.Content.IncrementCommentCountTx(ctx, ac.tx, *p.ParentID); err != nil {
			return err
		}
	}
	if err := w.repos.Statistics.AddDailyTx(ctx, ac.tx, ac.day, store.DailyDelta{NewContent: 1}); err != nil {
		return err
	}
	if platformID == nil {
		return nil
	}
	if err := w.repos.Platforms.AdjustCountersTx(ctx, ac.tx, p.PlatformID, store.PlatformCounterDelta{Content: 1}, ac.at); err != nil {
		return err
	}
	return w.repos.Statistics.AddPlatformDailyTx(ctx, ac.tx, p.PlatformID, ac.day, store.PlatformDailyDelta{ContentCreated: 1})
}

func (w *Writer) applyContentInteraction(ctx context.Context, ac *applyContext, p event.ContentInteraction) error {
	inserted, err := w.repos.Content.InsertInteractionTx(ctx, ac.tx, p.Profile, p.ContentID, p.InteractionType, ac.at)
	if err != nil || !inserted {
		return err
	}
	if err := w.repos.Content.IncrementInteractionCountTx(ctx, ac.tx, p.ContentID, p.InteractionType); err != nil {
		return err
	}
	return w.repos.Statistics.AddDailyTx(ctx, ac.tx, ac.day, store.DailyDelta{Interactions: 1})
}

func (w *Writer) applyIPRegistered(ctx context.Context, ac *applyContext, p event.IPRegistered) error {
	registered, err := w.repos.Content.UpsertIPTx(ctx, ac.tx, &store.IntellectualProperty{
		IPID:           p.IPID,
		CreatorAddress: p.Creator,
		Title:          p.Title,
		IPType:         int16(p.IPType),
		CreatedAt:      ac.at,
		RegisteredAt:   &ac.at,
	})
	if err != nil {
		return err
	}
	if registered {
		if err := w.repos.Statistics.AddDailyTx(ctx, ac.tx, ac.day, store.DailyDelta{NewIPRegistrations: 1}); err != nil {
			return err
		}
	}
	return w.repos.Content.MarkIPRegisteredTx(ctx, ac.tx, p.IPID)
}

func (w *Writer) applyLicenseGranted(ctx context.Context, ac *applyContext, p event.LicenseGranted) error {
	var expiresAt *time.Time
	if t := p.ExpiresAt.Time(); !t.IsZero() {
		expiresAt = &t
	}
	inserted, err := w.repos.Content.InsertLicenseTx(ctx, ac.tx, &store.License{
		LicenseID:       p.LicenseID,
		IPID:            p.IPID,
		LicenseeAddress: p.Licensee,
		LicenseType:     int16(p.LicenseType),
		GrantedAt:       ac.at,
		ExpiresAt:       expiresAt,
		PaymentAmount:   p.PaymentAmount.Int64(),
	})
	if err != nil || !inserted {
		return err
	}

	applied, err := w.repos.Content.ApplyLicenseTx(ctx, ac.tx, p.IPID, p.PaymentAmount.Int64())
	if err != nil {
		return err
	}
	if !applied {
		if _, err := w.repos.Content.UpsertIPTx(ctx, ac.tx, &store.IntellectualProperty{IPID: p.IPID, CreatedAt: ac.at}); err != nil {
			return err
		}
		if _, err := w.repos.Content.ApplyLicenseTx(ctx, ac.tx, p.IPID, p.PaymentAmount.Int64()); err != nil {
			return err
		}
	}
	return w.repos.Statistics.AddDailyTx(ctx, ac.tx, ac.day, store.DailyDelta{NewLicenses: 1})
}

func (w *Writer) applyFeesDistributed(ctx context.Context, ac *applyContext, p event.FeesDistributed) error {
	inserted, err := w.repos.Content.InsertFeeDistributionTx(ctx, ac.tx, &store.FeeDistribution{
		EventID:           ac.ev.EventID,
		FeeModelID:        p.FeeModelID,
		ModelName:         p.ModelName,
		TransactionAmount: p.TransactionAmount.Int64(),
		TotalFeeAmount:    p.TotalFeeAmount.Int64(),
		TokenType:         p.TokenType,
		DistributedAt:     ac.at,
	})
	if err != nil || !inserted {
		return err
	}
	return w.repos.Statistics.AddDailyTx(ctx, ac.tx, ac.day, store.DailyDelta{TotalFeesDistributed: p.TotalFeeAmount.Int64()})
}

// subjectOf names the row an event is about, for the event log.
func subjectOf(ev *event.DomainEvent) string {
	switch p := ev.Payload.(type) {
	case event.ProfileCreated:
		return p.OwnerAddress
	case event.ProfileUpdated:
		return p.ProfileID
	case event.UsernameChanged:
		return p.ProfileID
	case event.Followed:
		return p.Follower
	case event.Unfollowed:
		return p.Follower
	case event.ProfileBlocked:
		return p.Blocker
	case event.ProfileUnblocked:
		return p.Blocker
	case event.PlatformCreated:
		return p.PlatformID
	case event.PlatformUpdated:
		return p.PlatformID
	case event.PlatformApprovalChanged:
		return p.PlatformID
	case event.ModeratorChanged:
		return p.PlatformID
	case event.PlatformProfile:
		return p.PlatformID
	case event.ContentCreated:
		return p.Creator
	case event.ContentInteraction:
		return p.Profile
	case event.IPRegistered:
		return p.Creator
	case event.LicenseGranted:
		return p.Licensee
	case event.FeesDistributed:
		return p.FeeModelID
	default:
		return fmt.Sprintf("%s:%s", ev.Kind, ev.EventID)
	}
}
