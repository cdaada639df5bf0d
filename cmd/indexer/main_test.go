package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/reconciliation"
	storemocks "github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type staticReadiness struct {
	ready bool
	snap  pipeline.HealthSnapshot
}

func (s staticReadiness) Ready() bool                       { return s.ready }
func (s staticReadiness) Snapshot() pipeline.HealthSnapshot { return s.snap }

func TestHealthMux_Healthz(t *testing.T) {
	mux := newHealthMux(staticReadiness{}, slog.Default())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHealthMux_Readyz(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		status     string
		wantStatus int
	}{
		{name: "healthy", ready: true, status: string(pipeline.HealthStatusHealthy), wantStatus: http.StatusOK},
		{name: "degraded still serves", ready: true, status: string(pipeline.HealthStatusDegraded), wantStatus: http.StatusOK},
		{name: "unhealthy", ready: false, status: string(pipeline.HealthStatusUnhealthy), wantStatus: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newHealthMux(staticReadiness{
				ready: tt.ready,
				snap:  pipeline.HealthSnapshot{WorkerID: "social-indexer", Status: tt.status, LastCheckpoint: 101},
			}, slog.Default())

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body pipeline.HealthSnapshot
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, int64(101), body.LastCheckpoint)
		})
	}
}

func TestHealthMux_Metrics(t *testing.T) {
	mux := newHealthMux(staticReadiness{}, slog.Default())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "indexer_postgres_db_pool_open")
}

func TestRunHealthServer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runHealthServer(ctx, 0, staticReadiness{ready: true}, slog.Default()) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("health server did not stop")
	}
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "0", want: 0},
		{raw: "101", want: 101},
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseSequence(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid checkpoint sequence")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShowCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := storemocks.NewMockCursorRepository(ctrl)

	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	repo.EXPECT().Get(gomock.Any(), "social-indexer").
		Return(&model.ProgressCursor{WorkerID: "social-indexer", LastCheckpointProcessed: 101, LastProcessedAt: at}, nil)

	var out bytes.Buffer
	require.NoError(t, showCursor(context.Background(), &out, repo, "social-indexer"))
	assert.Equal(t, "worker social-indexer last_checkpoint_processed=101 last_processed_at=2026-03-14T10:00:00Z\n", out.String())
}

func TestShowCursor_NoCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := storemocks.NewMockCursorRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), "fresh").Return(nil, nil)

	var out bytes.Buffer
	require.NoError(t, showCursor(context.Background(), &out, repo, "fresh"))
	assert.Equal(t, "worker fresh has no cursor\n", out.String())
}

func TestShowCursor_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := storemocks.NewMockCursorRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), "w").Return(nil, errors.New("connection refused"))

	err := showCursor(context.Background(), &bytes.Buffer{}, repo, "w")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load cursor w")
}

func TestSetCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := storemocks.NewMockCursorRepository(ctrl)
	repo.EXPECT().Set(gomock.Any(), "social-indexer", int64(99)).Return(nil)

	var out bytes.Buffer
	require.NoError(t, setCursor(context.Background(), &out, repo, "social-indexer", 99))
	assert.Contains(t, out.String(), "ingestion resumes at 100")
}

func TestSetCursor_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := storemocks.NewMockCursorRepository(ctrl)
	repo.EXPECT().Set(gomock.Any(), "w", int64(5)).Return(errors.New("read-only transaction"))

	err := setCursor(context.Background(), &bytes.Buffer{}, repo, "w", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set cursor w")
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{{"migrate"}, {"reconcile"}, {"cursor", "show"}, {"cursor", "set"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestRootCmd_CursorSetRejectsBadSequence(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"cursor", "set", "latest"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid checkpoint sequence")
}

func TestRootCmd_CursorSetRequiresOneArg(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"cursor", "set"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	require.Error(t, root.Execute())
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn")

	logger.Info("dropped")
	logger.Warn("kept", "worker_id", "social-indexer")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.Contains(t, buf.String(), `"worker_id":"social-indexer"`)
}

type fakeReconciler struct {
	res *reconciliation.RunResult
	err error
}

func (f fakeReconciler) Reconcile(context.Context) (*reconciliation.RunResult, error) {
	return f.res, f.err
}

func TestReconcileAndPrint(t *testing.T) {
	res := &reconciliation.RunResult{
		Profiles:  reconciliation.ScopeResult{Checked: 12, Drifted: 2, Corrected: 2},
		Platforms: reconciliation.ScopeResult{Checked: 3},
	}

	var out bytes.Buffer
	require.NoError(t, reconcileAndPrint(context.Background(), &out, fakeReconciler{res: res}))

	var printed reconciliation.RunResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	assert.Equal(t, 12, printed.Profiles.Checked)
	assert.Equal(t, 2, printed.Profiles.Corrected)
	assert.Equal(t, 3, printed.Platforms.Checked)
}

func TestReconcileAndPrint_PartialResultOnError(t *testing.T) {
	res := &reconciliation.RunResult{Profiles: reconciliation.ScopeResult{Checked: 500}}

	var out bytes.Buffer
	err := reconcileAndPrint(context.Background(), &out, fakeReconciler{res: res, err: errors.New("scan platforms: connection reset")})
	require.Error(t, err)
	assert.Contains(t, out.String(), `"checked": 500`)
}
