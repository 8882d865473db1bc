package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bobashop/backend/internal/domain/possync"
)

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type mockOrderRunner struct {
	calls int64
	delay time.Duration
	err   error
}

func (m *mockOrderRunner) ProcessQueue(ctx context.Context) (*possync.ProcessResult, error) {
	atomic.AddInt64(&m.calls, 1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &possync.ProcessResult{}, nil
}

type mockMenuRunner struct {
	calls int64
}

func (m *mockMenuRunner) SyncAll(ctx context.Context) (*possync.MenuSyncResult, error) {
	atomic.AddInt64(&m.calls, 1)
	return &possync.MenuSyncResult{}, nil
}

type mockLockStore struct {
	acquired bool
	err      error
	releases int64
}

func (m *mockLockStore) AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return m.acquired, m.err
}

func (m *mockLockStore) ReleaseLock(ctx context.Context, name string) error {
	atomic.AddInt64(&m.releases, 1)
	return nil
}

func newTestScheduler(t *testing.T, config SyncSchedulerConfig, orders OrderSyncRunner, menu MenuSyncRunner, locks LockStore) *SyncScheduler {
	t.Helper()
	s, err := NewSyncScheduler(config, orders, menu, locks, testLogger())
	require.NoError(t, err)
	return s
}

func quickConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Enabled:           true,
		OrderSyncInterval: 10 * time.Millisecond,
		MenuSyncInterval:  1 * time.Hour,
		JobTimeout:        1 * time.Second,
		RunOnStart:        false,
	}
}

func TestSyncScheduler_StartStop(t *testing.T) {
	orders := &mockOrderRunner{}
	menu := &mockMenuRunner{}
	config := quickConfig()
	config.RunOnStart = true
	s := newTestScheduler(t, config, orders, menu, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&orders.calls) >= 1 && atomic.LoadInt64(&menu.calls) >= 1
	}, time.Second, 5*time.Millisecond, "both jobs run once on start")

	require.NoError(t, s.Stop(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestSyncScheduler_StartIsIdempotent(t *testing.T) {
	orders := &mockOrderRunner{}
	s := newTestScheduler(t, quickConfig(), orders, &mockMenuRunner{}, nil)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}

func TestSyncScheduler_IntervalTicks(t *testing.T) {
	orders := &mockOrderRunner{}
	menu := &mockMenuRunner{}
	s := newTestScheduler(t, quickConfig(), orders, menu, nil)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&orders.calls) >= 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&menu.calls), "menu job waits for its own interval")
}

func TestSyncScheduler_OverlappingRunIsSkipped(t *testing.T) {
	orders := &mockOrderRunner{delay: 200 * time.Millisecond}
	s := newTestScheduler(t, quickConfig(), orders, &mockMenuRunner{}, nil)

	go func() {
		_, _ = s.TriggerOrderSync(context.Background())
	}()
	assert.Eventually(t, func() bool {
		return s.Status().OrderSync.Processing
	}, time.Second, time.Millisecond)

	_, err := s.TriggerOrderSync(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)

	assert.Eventually(t, func() bool {
		return !s.Status().OrderSync.Processing
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), atomic.LoadInt64(&orders.calls), "the overlapping trigger must not queue a second run")

	_, err = s.TriggerOrderSync(context.Background())
	assert.NoError(t, err, "the guard is released after the run settles")
}

func TestSyncScheduler_GuardReleasedAfterFailure(t *testing.T) {
	orders := &mockOrderRunner{err: errors.New("db gone")}
	s := newTestScheduler(t, quickConfig(), orders, &mockMenuRunner{}, nil)

	_, err := s.TriggerOrderSync(context.Background())
	require.Error(t, err)

	status := s.Status()
	assert.False(t, status.OrderSync.Processing)
	assert.Equal(t, "db gone", status.OrderSync.LastError)

	_, err = s.TriggerOrderSync(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&orders.calls))
}

func TestSyncScheduler_TickLockHeldSkipsRun(t *testing.T) {
	orders := &mockOrderRunner{}
	locks := &mockLockStore{acquired: false}
	s := newTestScheduler(t, quickConfig(), orders, &mockMenuRunner{}, locks)

	_, err := s.TriggerOrderSync(context.Background())
	assert.ErrorIs(t, err, ErrTickLockHeld)
	assert.Equal(t, int64(0), atomic.LoadInt64(&orders.calls))
}

func TestSyncScheduler_BrokenLockStoreDoesNotBlock(t *testing.T) {
	orders := &mockOrderRunner{}
	locks := &mockLockStore{err: errors.New("redis gone")}
	s := newTestScheduler(t, quickConfig(), orders, &mockMenuRunner{}, locks)

	_, err := s.TriggerOrderSync(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&orders.calls))
}

func TestSyncScheduler_MenuTrigger(t *testing.T) {
	menu := &mockMenuRunner{}
	s := newTestScheduler(t, quickConfig(), &mockOrderRunner{}, menu, nil)

	result, err := s.TriggerMenuSync(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int64(1), atomic.LoadInt64(&menu.calls))
}

func TestSyncScheduler_TriggersWorkWhileStopped(t *testing.T) {
	orders := &mockOrderRunner{}
	menu := &mockMenuRunner{}
	s := newTestScheduler(t, quickConfig(), orders, menu, nil)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	require.False(t, s.IsRunning())

	// Admin triggers bypass the ticker entirely, so a stopped scheduler
	// still serves them.
	_, err := s.TriggerOrderSync(context.Background())
	require.NoError(t, err)
	_, err = s.TriggerMenuSync(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, atomic.LoadInt64(&orders.calls), int64(1))
	assert.GreaterOrEqual(t, atomic.LoadInt64(&menu.calls), int64(1))
}

func TestSyncSchedulerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *SyncSchedulerConfig)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *SyncSchedulerConfig) {}},
		{name: "zero order interval", mutate: func(c *SyncSchedulerConfig) { c.OrderSyncInterval = 0 }, wantErr: true},
		{name: "zero menu interval", mutate: func(c *SyncSchedulerConfig) { c.MenuSyncInterval = 0 }, wantErr: true},
		{name: "zero job timeout", mutate: func(c *SyncSchedulerConfig) { c.JobTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultSyncSchedulerConfig()
			tt.mutate(&config)
			err := config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
