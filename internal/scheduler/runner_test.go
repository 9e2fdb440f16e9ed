package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunner_Every(t *testing.T) {
	r := New(zap.NewNop(), context.Background())

	var runs atomic.Int32
	id, err := r.Every(time.Second, func(ctx context.Context) {
		runs.Add(1)
	})
	require.NoError(t, err)

	r.Start()
	assert.False(t, r.Next(id).IsZero())
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)
	r.Stop()
}

func TestRunner_SkipsOverlappingRuns(t *testing.T) {
	r := New(zap.NewNop(), context.Background())

	var runs, active, maxActive atomic.Int32
	_, err := r.Every(time.Second, func(ctx context.Context) {
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		runs.Add(1)
		time.Sleep(2500 * time.Millisecond)
		active.Add(-1)
	})
	require.NoError(t, err)

	r.Start()
	time.Sleep(4 * time.Second)
	r.Stop()

	assert.GreaterOrEqual(t, runs.Load(), int32(1))
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestRunner_RecoversPanics(t *testing.T) {
	r := New(zap.NewNop(), context.Background())

	var runs atomic.Int32
	_, err := r.Every(time.Second, func(ctx context.Context) {
		if runs.Add(1) == 1 {
			panic("boom")
		}
	})
	require.NoError(t, err)

	r.Start()
	// A panicking run must not hold the overlap guard.
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 6*time.Second, 50*time.Millisecond)
	r.Stop()
}

func TestRunner_CancelledContextSkipsJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New(zap.NewNop(), ctx)

	var runs atomic.Int32
	_, err := r.Every(time.Second, func(ctx context.Context) { runs.Add(1) })
	require.NoError(t, err)

	r.Start()
	time.Sleep(1500 * time.Millisecond)
	r.Stop()
	assert.Zero(t, runs.Load())
}

func TestRunner_RejectsBadSchedules(t *testing.T) {
	r := New(nil, context.Background())

	_, err := r.Every(10*time.Millisecond, func(context.Context) {})
	assert.Error(t, err)

	_, err = r.Add("not a spec", func(context.Context) {})
	assert.Error(t, err)
}
