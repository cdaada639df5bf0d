package main

import (
	"context"
	"database/sql"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	appmetrics "github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDBStatsProvider struct {
	stats sql.DBStats
}

func (f fakeDBStatsProvider) Stats() sql.DBStats {
	return f.stats
}

type panicDBStatsProvider struct{}

func (panicDBStatsProvider) Stats() sql.DBStats {
	panic("db stats temporarily unavailable")
}

type flakyDBStatsProvider struct {
	failUntil int32
	stats     sql.DBStats
	calls     atomic.Int32
	callCh    chan int32
}

func (f *flakyDBStatsProvider) Stats() sql.DBStats {
	n := f.calls.Add(1)
	if f.callCh != nil {
		f.callCh <- n
	}
	if n <= f.failUntil {
		panic("db stats temporarily unavailable")
	}
	return f.stats
}

func testGauges(prefix string) dbPoolStatsGauges {
	gauge := func(name string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: prefix + "_" + name})
	}
	return dbPoolStatsGauges{
		open:         gauge("open"),
		inUse:        gauge("in_use"),
		idle:         gauge("idle"),
		waitCount:    gauge("wait_count"),
		waitDuration: gauge("wait_duration_seconds"),
	}
}

func TestCollectDBPoolStats_RecordsPoolGauges(t *testing.T) {
	provider := fakeDBStatsProvider{
		stats: sql.DBStats{
			OpenConnections: 10,
			InUse:           3,
			Idle:            7,
			WaitCount:       13,
			WaitDuration:    1500 * time.Millisecond,
		},
	}
	gauges := testGauges("test_db_pool")

	require.NoError(t, collectDBPoolStats(provider, gauges))

	assert.Equal(t, 10.0, testutil.ToFloat64(gauges.open))
	assert.Equal(t, 3.0, testutil.ToFloat64(gauges.inUse))
	assert.Equal(t, 7.0, testutil.ToFloat64(gauges.idle))
	assert.Equal(t, 13.0, testutil.ToFloat64(gauges.waitCount))
	assert.Equal(t, 1.5, testutil.ToFloat64(gauges.waitDuration))
}

func TestCollectDBPoolStats_ReturnsErrorOnPanic(t *testing.T) {
	err := collectDBPoolStats(panicDBStatsProvider{}, testGauges("test_db_pool_panic"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db pool stats collection panicked")
}

func TestCollectDBPoolStats_NilProvider(t *testing.T) {
	err := collectDBPoolStats(nil, testGauges("test_db_pool_nil"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db stats provider is nil")
}

func TestStartDBPoolStatsPump_ToleratesTransientStatsFailure(t *testing.T) {
	callCh := make(chan int32, 8)
	provider := &flakyDBStatsProvider{
		failUntil: 1,
		stats: sql.DBStats{
			OpenConnections: 4,
			InUse:           1,
			Idle:            3,
		},
		callCh: callCh,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startDBPoolStatsPump(ctx, provider, 5*time.Millisecond, slog.Default())

	timeout := time.After(time.Second)
	for {
		select {
		case count := <-callCh:
			if count >= 2 {
				cancel()
				// The gauge is written after Stats returns.
				assert.Eventually(t, func() bool {
					return testutil.ToFloat64(appmetrics.DBPoolOpen) == 4.0
				}, time.Second, time.Millisecond)
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for db pool stats collection to recover")
		}
	}
}

func TestStartDBPoolStatsPump_DisabledInterval(t *testing.T) {
	provider := &flakyDBStatsProvider{}
	startDBPoolStatsPump(context.Background(), provider, 0, slog.Default())
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, provider.calls.Load())
}
