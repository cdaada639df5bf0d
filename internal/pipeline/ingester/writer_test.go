package ingester

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/cache"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/event"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline/retry"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
	storemocks "github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store/mocks"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var checkpointTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type harness struct {
	conn *fakeConnector
	sql  *sql.DB

	db         *storemocks.MockTxBeginner
	profiles   *storemocks.MockProfileRepository
	graph      *storemocks.MockSocialGraphRepository
	platforms  *storemocks.MockPlatformRepository
	usernames  *storemocks.MockUsernameRepository
	content    *storemocks.MockContentRepository
	statistics *storemocks.MockStatisticsRepository
	eventLog   *storemocks.MockEventLogRepository
	sleeps     []time.Duration
	writer     *Writer
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	conn := &fakeConnector{}
	h := &harness{
		conn:       conn,
		sql:        conn.open(),
		db:         storemocks.NewMockTxBeginner(ctrl),
		profiles:   storemocks.NewMockProfileRepository(ctrl),
		graph:      storemocks.NewMockSocialGraphRepository(ctrl),
		platforms:  storemocks.NewMockPlatformRepository(ctrl),
		usernames:  storemocks.NewMockUsernameRepository(ctrl),
		content:    storemocks.NewMockContentRepository(ctrl),
		statistics: storemocks.NewMockStatisticsRepository(ctrl),
		eventLog:   storemocks.NewMockEventLogRepository(ctrl),
	}
	t.Cleanup(func() { _ = h.sql.Close() })

	repos := Repos{
		Profiles:    h.profiles,
		SocialGraph: h.graph,
		Platforms:   h.platforms,
		Usernames:   h.usernames,
		Content:     h.content,
		Statistics:  h.statistics,
		EventLog:    h.eventLog,
	}
	sleep := func(_ context.Context, d time.Duration) error {
		h.sleeps = append(h.sleeps, d)
		return nil
	}
	base := []Option{WithSleepFunc(sleep), WithRetryConfig(3, retry.Backoff{Initial: time.Millisecond, Max: time.Millisecond})}
	h.writer = New(h.db, repos, "w1", slog.Default(), append(base, opts...)...)
	return h
}

func (h *harness) expectBegin(times int) {
	h.db.EXPECT().BeginTx(gomock.Any(), txOptions).
		DoAndReturn(func(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
			return h.sql.BeginTx(ctx, opts)
		}).Times(times)
}

func (h *harness) expectLogged(times int) {
	h.eventLog.EXPECT().AppendTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).Times(times)
}

func domainEvent(kind event.Kind, id string, payload any) event.DomainEvent {
	raw, _ := json.Marshal(payload)
	return event.DomainEvent{
		Kind:               kind,
		EventID:            id,
		EventType:          "0x2::test::" + kind.String(),
		CheckpointSequence: 101,
		TxDigest:           "D",
		Payload:            payload,
		Raw:                raw,
	}
}

func checkpoint(events ...event.DomainEvent) event.ExtractedCheckpoint {
	return event.ExtractedCheckpoint{Sequence: 101, Timestamp: checkpointTime, Events: events}
}

func strPtr(s string) *string { return &s }

func TestApply_FollowStubsProfilesAndAdjustsCounters(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)

	h.profiles.EXPECT().EnsureTx(gomock.Any(), gomock.Any(), "0xa", checkpointTime).Return(true, nil)
	h.profiles.EXPECT().EnsureTx(gomock.Any(), gomock.Any(), "0xb", checkpointTime).Return(true, nil)
	h.graph.EXPECT().InsertFollowTx(gomock.Any(), gomock.Any(), "0xa", "0xb", checkpointTime).Return(true, nil)
	h.profiles.EXPECT().AdjustCountersTx(gomock.Any(), gomock.Any(), "0xa", store.ProfileCounterDelta{Following: 1}, checkpointTime).Return(nil)
	h.profiles.EXPECT().AdjustCountersTx(gomock.Any(), gomock.Any(), "0xb", store.ProfileCounterDelta{Followers: 1}, checkpointTime).Return(nil)
	h.eventLog.EXPECT().AppendTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, e *model.EventLogEntry) (bool, error) {
			assert.Equal(t, model.EventLogProfile, e.Table)
			assert.Equal(t, "followed", e.EventType)
			assert.Equal(t, "0xa", e.SubjectID)
			assert.Equal(t, "D:0", e.EventID)
			assert.Equal(t, int64(101), e.CheckpointSequence)
			return true, nil
		})

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindFollowed, "D:0", event.Followed{Follower: "0xa", Following: "0xb"}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 1, res.Attempts)

	assert.Equal(t, []string{"SAVEPOINT event_apply", "RELEASE SAVEPOINT event_apply"}, h.conn.statements())
	commits, _ := h.conn.counts()
	assert.Equal(t, 1, commits)
}

func TestApply_ReplayedFollowLeavesCountersAlone(t *testing.T) {
	known := cache.NewKeySet[string](8)
	known.Add("0xa", "0xb")
	h := newHarness(t, WithKnownProfiles(known))
	h.expectBegin(1)

	// Cached profiles skip the stub insert; an existing edge changes nothing.
	h.graph.EXPECT().InsertFollowTx(gomock.Any(), gomock.Any(), "0xa", "0xb", gomock.Any()).Return(false, nil)
	h.eventLog.EXPECT().AppendTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindFollowed, "D:0", event.Followed{Follower: "0xa", Following: "0xb"}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 1, res.Duplicates)
}

func TestApply_ProfilesRememberedOnlyAfterCommit(t *testing.T) {
	h := newHarness(t)
	h.conn.commitErr = errors.New("connection lost during commit")
	h.expectBegin(1)

	h.profiles.EXPECT().EnsureTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
	h.graph.EXPECT().InsertFollowTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	h.expectLogged(1)

	_, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindFollowed, "D:0", event.Followed{Follower: "0xa", Following: "0xb"}),
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFatal)
	assert.Contains(t, err.Error(), "terminal_failure stage=ingester.apply_checkpoint")
	assert.Zero(t, h.writer.known.Len())
}

func TestApply_SkipsInvalidEventAndCommitsTheRest(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)

	h.eventLog.EXPECT().AuditTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, e *model.AuditEntry) error {
			assert.Equal(t, model.AuditReasonValidationError, e.Reason)
			assert.Equal(t, "D:0", e.EventID)
			assert.Contains(t, e.Detail, "self-follow")
			return nil
		})
	h.graph.EXPECT().InsertBlockTx(gomock.Any(), gomock.Any(), "0xa", "0xc", gomock.Nil(), checkpointTime).Return(true, nil)
	h.expectLogged(1)

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindFollowed, "D:0", event.Followed{Follower: "0xa", Following: "0xa"}),
		domainEvent(event.KindProfileBlocked, "D:1", event.ProfileBlocked{Blocker: "0xa", Blocked: "0xc"}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, []string{
		"SAVEPOINT event_apply", "ROLLBACK TO SAVEPOINT event_apply",
		"SAVEPOINT event_apply", "RELEASE SAVEPOINT event_apply",
	}, h.conn.statements())
}

func TestApply_AuditsExtractorRejects(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)
	h.eventLog.EXPECT().AuditTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, e *model.AuditEntry) error {
			assert.Equal(t, model.AuditReasonParseError, e.Reason)
			assert.Equal(t, int64(101), e.CheckpointSequence)
			assert.JSONEq(t, `{"follower":1}`, string(e.Payload))
			return nil
		})

	ex := checkpoint()
	ex.Rejected = []event.Rejected{{
		Kind: event.KindFollowed, EventID: "D:3", EventType: "0x2::social_graph::FollowEvent",
		Reason: model.AuditReasonParseError, Detail: "cannot unmarshal number", Raw: json.RawMessage(`{"follower":1}`),
	}}
	res, err := h.writer.Apply(context.Background(), 101, ex)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rejected)
	assert.Zero(t, res.Applied)
}

func TestApply_UsernameConflictIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)

	h.profiles.EXPECT().FindAddressByProfileIDTx(gomock.Any(), gomock.Any(), "p1").Return("0xa", true, nil)
	h.usernames.EXPECT().OwnerTx(gomock.Any(), gomock.Any(), "alice").Return("p2", true, nil)
	h.eventLog.EXPECT().AuditTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, e *model.AuditEntry) error {
			assert.Equal(t, model.AuditReasonUsernameConflict, e.Reason)
			return nil
		})

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindUsernameChanged, "D:0", event.UsernameChanged{ProfileID: "p1", NewUsername: "alice"}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
}

func TestApply_UsernameRenameRecordsHistory(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)

	h.profiles.EXPECT().FindAddressByProfileIDTx(gomock.Any(), gomock.Any(), "p1").Return("0xa", true, nil)
	h.usernames.EXPECT().OwnerTx(gomock.Any(), gomock.Any(), "bob").Return("", false, nil)
	h.usernames.EXPECT().CurrentTx(gomock.Any(), gomock.Any(), "p1").Return("alice", true, nil)
	h.usernames.EXPECT().AssignTx(gomock.Any(), gomock.Any(), "p1", "bob", checkpointTime).Return(nil)
	h.profiles.EXPECT().SetUsernameTx(gomock.Any(), gomock.Any(), "0xa", "bob", checkpointTime).Return(nil)
	h.usernames.EXPECT().AppendHistoryTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, c model.UsernameChange) (bool, error) {
			require.NotNil(t, c.OldUsername)
			assert.Equal(t, "alice", *c.OldUsername)
			assert.Equal(t, "bob", c.NewUsername)
			assert.Equal(t, "D:0", c.EventID)
			return true, nil
		})
	h.expectLogged(1)

	_, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindUsernameChanged, "D:0", event.UsernameChanged{ProfileID: "p1", NewUsername: "bob"}),
	))
	require.NoError(t, err)
}

func TestApply_ProfileCreatedKeepsProfileOnUsernameConflict(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)

	h.profiles.EXPECT().UpsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, p *model.Profile) (bool, error) {
			assert.Equal(t, "0xa", p.OwnerAddress)
			require.NotNil(t, p.ProfileID)
			assert.Equal(t, "p1", *p.ProfileID)
			return true, nil
		})
	h.statistics.EXPECT().AddDailyTx(gomock.Any(), gomock.Any(), checkpointTime, store.DailyDelta{NewProfiles: 1}).Return(nil)
	h.profiles.EXPECT().FindAddressByProfileIDTx(gomock.Any(), gomock.Any(), "p1").Return("0xa", true, nil)
	h.usernames.EXPECT().OwnerTx(gomock.Any(), gomock.Any(), "alice").Return("p9", true, nil)
	h.eventLog.EXPECT().AuditTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.expectLogged(1)

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindProfileCreated, "D:0", event.ProfileCreated{ProfileID: "p1", OwnerAddress: "0xa", Username: strPtr("alice")}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.Zero(t, res.Skipped)
	assert.True(t, h.writer.known.Contains("0xa"))
}

func TestApply_ProfileUpdatedResolvesOwnerByProfileID(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)

	h.profiles.EXPECT().FindAddressByProfileIDTx(gomock.Any(), gomock.Any(), "p1").Return("", false, nil)
	h.eventLog.EXPECT().AuditTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindProfileUpdated, "D:0", event.ProfileUpdated{ProfileID: "p1", Bio: strPtr("hi")}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
}

func TestApply_ContentCreatedUpdatesCountersAndStats(t *testing.T) {
	known := cache.NewKeySet[string](8)
	known.Add("0xa")
	h := newHarness(t, WithKnownProfiles(known))
	h.expectBegin(1)

	h.platforms.EXPECT().EnsureTx(gomock.Any(), gomock.Any(), "plat", checkpointTime).Return(false, nil)
	h.content.EXPECT().UpsertContentTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, c *store.Content) (bool, error) {
			require.NotNil(t, c.PlatformID)
			assert.Equal(t, "plat", *c.PlatformID)
			return true, nil
		})
	h.profiles.EXPECT().AdjustCountersTx(gomock.Any(), gomock.Any(), "0xa", store.ProfileCounterDelta{Content: 1}, gomock.Any()).Return(nil)
	h.content.EXPECT().IncrementCommentCountTx(gomock.Any(), gomock.Any(), "post-1").Return(nil)
	h.statistics.EXPECT().AddDailyTx(gomock.Any(), gomock.Any(), checkpointTime, store.DailyDelta{NewContent: 1}).Return(nil)
	h.platforms.EXPECT().AdjustCountersTx(gomock.Any(), gomock.Any(), "plat", store.PlatformCounterDelta{Content: 1}, gomock.Any()).Return(nil)
	h.statistics.EXPECT().AddPlatformDailyTx(gomock.Any(), gomock.Any(), "plat", checkpointTime, store.PlatformDailyDelta{ContentCreated: 1}).Return(nil)
	h.expectLogged(1)

	_, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindContentCreated, "D:0", event.ContentCreated{
			ContentID: "c1", Creator: "0xa", PlatformID: "plat", ContentType: "comment", ParentID: strPtr("post-1"),
		}),
	))
	require.NoError(t, err)
}

func TestApply_JoinAndLeavePlatform(t *testing.T) {
	known := cache.NewKeySet[string](8)
	known.Add("0xa")
	h := newHarness(t, WithKnownProfiles(known))
	h.expectBegin(1)

	h.platforms.EXPECT().IsBlockedTx(gomock.Any(), gomock.Any(), "plat", "0xa").Return(false, nil)
	h.platforms.EXPECT().EnsureTx(gomock.Any(), gomock.Any(), "plat", gomock.Any()).Return(false, nil)
	h.platforms.EXPECT().InsertMembershipTx(gomock.Any(), gomock.Any(), "plat", "0xa", gomock.Any()).Return(true, nil)
	h.profiles.EXPECT().AdjustCountersTx(gomock.Any(), gomock.Any(), "0xa", store.ProfileCounterDelta{PlatformsJoined: 1}, gomock.Any()).Return(nil)
	h.platforms.EXPECT().AdjustCountersTx(gomock.Any(), gomock.Any(), "plat", store.PlatformCounterDelta{Users: 1}, gomock.Any()).Return(nil)
	h.statistics.EXPECT().AddPlatformDailyTx(gomock.Any(), gomock.Any(), "plat", gomock.Any(), store.PlatformDailyDelta{NewUsers: 1}).Return(nil)
	h.platforms.EXPECT().DeleteMembershipTx(gomock.Any(), gomock.Any(), "plat", "0xa").Return(true, nil)
	h.profiles.EXPECT().AdjustCountersTx(gomock.Any(), gomock.Any(), "0xa", store.ProfileCounterDelta{PlatformsJoined: -1}, gomock.Any()).Return(nil)
	h.platforms.EXPECT().AdjustCountersTx(gomock.Any(), gomock.Any(), "plat", store.PlatformCounterDelta{Users: -1}, gomock.Any()).Return(nil)
	h.eventLog.EXPECT().AppendTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, e *model.EventLogEntry) (bool, error) {
			assert.Equal(t, model.EventLogPlatform, e.Table)
			assert.Equal(t, "plat", e.SubjectID)
			return true, nil
		}).Times(2)

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindPlatformJoined, "D:0", event.PlatformProfile{PlatformID: "plat", Profile: "0xa"}),
		domainEvent(event.KindPlatformLeft, "D:1", event.PlatformProfile{PlatformID: "plat", Profile: "0xa"}),
	))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Applied)
}

func TestApply_JoinByBlockedProfileIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)

	h.platforms.EXPECT().IsBlockedTx(gomock.Any(), gomock.Any(), "plat", "0xa").Return(true, nil)
	h.eventLog.EXPECT().AuditTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, e *model.AuditEntry) error {
			assert.Equal(t, model.AuditReasonIgnored, e.Reason)
			assert.Contains(t, e.Detail, "blocked on platform plat")
			return nil
		})

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindPlatformJoined, "D:0", event.PlatformProfile{PlatformID: "plat", Profile: "0xa"}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Applied)
	assert.False(t, h.writer.known.Contains("0xa"))
	assert.Equal(t, []string{"SAVEPOINT event_apply", "ROLLBACK TO SAVEPOINT event_apply"}, h.conn.statements())
}

func TestApply_OversizeValueIsSkippedNotFatal(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)

	h.content.EXPECT().InsertInteractionTx(gomock.Any(), gomock.Any(), "0xa", "c1", "like", gomock.Any()).
		Return(false, &pq.Error{Code: "22001", Message: "value too long for type character varying(32)"})
	h.eventLog.EXPECT().AuditTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, e *model.AuditEntry) error {
			assert.Equal(t, model.AuditReasonDataError, e.Reason)
			assert.Equal(t, "D:0", e.EventID)
			assert.Contains(t, e.Detail, "value too long")
			return nil
		})
	h.graph.EXPECT().InsertBlockTx(gomock.Any(), gomock.Any(), "0xa", "0xc", gomock.Nil(), checkpointTime).Return(true, nil)
	h.expectLogged(1)

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindContentInteraction, "D:0", event.ContentInteraction{Profile: "0xa", ContentID: "c1", InteractionType: "like"}),
		domainEvent(event.KindProfileBlocked, "D:1", event.ProfileBlocked{Blocker: "0xa", Blocked: "0xc"}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 1, res.Attempts)
	commits, _ := h.conn.counts()
	assert.Equal(t, 1, commits)
}

func TestApply_RevenueOverflowIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)

	h.content.EXPECT().InsertLicenseTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	h.content.EXPECT().ApplyLicenseTx(gomock.Any(), gomock.Any(), "ip1", int64(1<<62)).
		Return(false, fmt.Errorf("apply license: %w", &pq.Error{Code: "22003", Message: "bigint out of range"}))
	h.eventLog.EXPECT().AuditTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, e *model.AuditEntry) error {
			assert.Equal(t, model.AuditReasonDataError, e.Reason)
			return nil
		})

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindLicenseGranted, "D:0", event.LicenseGranted{LicenseID: "l1", IPID: "ip1", Licensee: "0xb", PaymentAmount: 1 << 62}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
}

func TestApply_DataErrorInEventLogIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)

	h.graph.EXPECT().InsertBlockTx(gomock.Any(), gomock.Any(), "0xa", "0xc", gomock.Nil(), checkpointTime).Return(true, nil)
	h.eventLog.EXPECT().AppendTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(false, &pq.Error{Code: "22P05", Message: "unsupported Unicode escape sequence"})
	h.eventLog.EXPECT().AuditTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindProfileBlocked, "D:0", event.ProfileBlocked{Blocker: "0xa", Blocked: "0xc"}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Applied)
}

func TestApply_LicenseForUnknownIPCreatesStub(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)

	h.content.EXPECT().InsertLicenseTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, l *store.License) (bool, error) {
			assert.Nil(t, l.ExpiresAt)
			assert.Equal(t, int64(250), l.PaymentAmount)
			return true, nil
		})
	gomock.InOrder(
		h.content.EXPECT().ApplyLicenseTx(gomock.Any(), gomock.Any(), "ip1", int64(250)).Return(false, nil),
		h.content.EXPECT().UpsertIPTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil),
		h.content.EXPECT().ApplyLicenseTx(gomock.Any(), gomock.Any(), "ip1", int64(250)).Return(true, nil),
	)
	h.statistics.EXPECT().AddDailyTx(gomock.Any(), gomock.Any(), gomock.Any(), store.DailyDelta{NewLicenses: 1}).Return(nil)
	h.expectLogged(1)

	_, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindLicenseGranted, "D:0", event.LicenseGranted{LicenseID: "l1", IPID: "ip1", Licensee: "0xb", PaymentAmount: 250}),
	))
	require.NoError(t, err)
}

func TestApply_FeesDistributedOnlyCountedOnce(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)

	h.content.EXPECT().InsertFeeDistributionTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	h.eventLog.EXPECT().AppendTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindFeesDistributed, "D:0", event.FeesDistributed{FeeModelID: "fm", TotalFeeAmount: 10}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Duplicates)
}

func TestApply_RetriesSerializationFailure(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(2)

	h.profiles.EXPECT().EnsureTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).Times(4)
	gomock.InOrder(
		h.graph.EXPECT().InsertFollowTx(gomock.Any(), gomock.Any(), "0xa", "0xb", gomock.Any()).Return(false, &pq.Error{Code: "40001"}),
		h.graph.EXPECT().InsertFollowTx(gomock.Any(), gomock.Any(), "0xa", "0xb", gomock.Any()).Return(false, nil),
	)
	h.expectLogged(1)

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindFollowed, "D:0", event.Followed{Follower: "0xa", Following: "0xb"}),
	))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)
	assert.Len(t, h.sleeps, 1)

	commits, rollbacks := h.conn.counts()
	assert.Equal(t, 1, commits)
	assert.Equal(t, 1, rollbacks)
}

func TestApply_ExhaustedRetriesAreFatal(t *testing.T) {
	h := newHarness(t, WithRetryConfig(2, retry.Backoff{Initial: time.Millisecond}))
	h.expectBegin(2)
	h.graph.EXPECT().InsertBlockTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(false, &pq.Error{Code: "40P01"}).Times(2)

	_, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindProfileBlocked, "D:0", event.ProfileBlocked{Blocker: "0xa", Blocked: "0xb"}),
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFatal)
	assert.Contains(t, err.Error(), "transient_recovery_exhausted stage=ingester.apply_checkpoint attempts=2 reason=pg_deadlock_detected")
}

func TestApply_IntegrityViolationIsFatal(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)
	h.platforms.EXPECT().InsertModeratorTx(gomock.Any(), gomock.Any(), "plat", "0xm", "0xd", gomock.Any()).
		Return(false, &pq.Error{Code: "23505"})

	_, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindModeratorAdded, "D:0", event.ModeratorChanged{PlatformID: "plat", Moderator: "0xm", ChangedBy: "0xd"}),
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFatal)
	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pq.ErrorCode("23505"), pqErr.Code)

	commits, rollbacks := h.conn.counts()
	assert.Zero(t, commits)
	assert.Equal(t, 1, rollbacks)
}

func TestApply_SequenceMismatchIsFatal(t *testing.T) {
	h := newHarness(t)
	_, err := h.writer.Apply(context.Background(), 102, checkpoint())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFatal)
}

func TestApply_FinishesTransactionAfterCancel(t *testing.T) {
	known := cache.NewKeySet[string](8)
	known.Add("0xa", "0xb")
	h := newHarness(t, WithKnownProfiles(known))
	h.expectBegin(1)

	ctx, cancel := context.WithCancel(context.Background())
	h.graph.EXPECT().InsertFollowTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(txCtx context.Context, _ *sql.Tx, _, _ string, _ time.Time) (bool, error) {
			cancel()
			assert.NoError(t, txCtx.Err(), "in-flight apply keeps its own context")
			return false, nil
		})
	h.expectLogged(1)

	res, err := h.writer.Apply(ctx, 101, checkpoint(
		domainEvent(event.KindFollowed, "D:0", event.Followed{Follower: "0xa", Following: "0xb"}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	commits, _ := h.conn.counts()
	assert.Equal(t, 1, commits)
}

func TestApply_UnknownPayloadIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.expectBegin(1)
	h.eventLog.EXPECT().AuditTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := h.writer.Apply(context.Background(), 101, checkpoint(
		domainEvent(event.KindFollowed, "D:0", struct{ X int }{1}),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
}
