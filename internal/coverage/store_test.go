package coverage_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scopesignals/coverage/internal/coverage"
	"github.com/scopesignals/coverage/internal/domain"
)

func TestStore_CreateGetDelete(t *testing.T) {
	metrics := newTestMetrics()
	store := coverage.NewStore(newTestCatalog(t), time.Hour, clockwork.NewFakeClock(), slog.Default(), metrics)

	sess, err := store.Create(domain.ModuleWeeds)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionsActive))

	got, err := store.Get(sess.ID())
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, store.Delete(sess.ID()))
	_, err = store.Get(sess.ID())
	require.ErrorIs(t, err, coverage.ErrSessionNotFound)
	require.ErrorIs(t, store.Delete(sess.ID()), coverage.ErrSessionNotFound)
	assert.Zero(t, testutil.ToFloat64(metrics.SessionsActive))
}

func TestStore_CreateUnknownModule(t *testing.T) {
	store := coverage.NewStore(newTestCatalog(t), time.Hour, nil, slog.Default(), newTestMetrics())
	_, err := store.Create("gutters")
	require.ErrorIs(t, err, domain.ErrUnknownModule)
	assert.Zero(t, store.Len())
}

func TestStore_DistinctIDs(t *testing.T) {
	store := coverage.NewStore(newTestCatalog(t), time.Hour, nil, slog.Default(), newTestMetrics())
	a, err := store.Create(domain.ModuleWeeds)
	require.NoError(t, err)
	b, err := store.Create(domain.ModuleWeeds)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, store.Len())
}

func TestStore_SweepExpiresIdleSessions(t *testing.T) {
	clock := clockwork.NewFakeClock()
	metrics := newTestMetrics()
	store := coverage.NewStore(newTestCatalog(t), 10*time.Minute, clock, slog.Default(), metrics)

	idle, err := store.Create(domain.ModuleWeeds)
	require.NoError(t, err)
	active, err := store.Create(domain.ModuleWeeds)
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	_, err = store.Get(active.ID())
	require.NoError(t, err)
	clock.Advance(6 * time.Minute)

	assert.Equal(t, 1, store.Sweep())
	_, err = store.Get(idle.ID())
	require.ErrorIs(t, err, coverage.ErrSessionNotFound)
	_, err = store.Get(active.ID())
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionsExpired))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionsActive))
}

func TestStore_RunSweepsOnTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := coverage.NewStore(newTestCatalog(t), 10*time.Minute, clock, slog.Default(), newTestMetrics())
	_, err := store.Create(domain.ModuleWeeds)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(15 * time.Minute)

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
