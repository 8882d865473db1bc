package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bobashop/backend/internal/domain/possync"
)

// ---------------------------------------------------------------------------
// Runner ports
// ---------------------------------------------------------------------------

// OrderSyncRunner drains the order sync queue
type OrderSyncRunner interface {
	ProcessQueue(ctx context.Context) (*possync.ProcessResult, error)
}

// MenuSyncRunner reconciles menu mappings for all active stores
type MenuSyncRunner interface {
	SyncAll(ctx context.Context) (*possync.MenuSyncResult, error)
}

// LockStore serializes job ticks across instances. Implementations hold the
// lock for at most ttl; a single-instance deployment runs without one.
type LockStore interface {
	// AcquireLock returns true when this instance won the named lock
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	// ReleaseLock releases the named lock early
	ReleaseLock(ctx context.Context, name string) error
}

const (
	orderSyncLockName = "possync:order-sync"
	menuSyncLockName  = "possync:menu-sync"
)

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

// SyncSchedulerConfig holds the interval policy for both sync jobs
type SyncSchedulerConfig struct {
	// Enabled indicates if the scheduler starts its interval loops
	Enabled bool
	// OrderSyncInterval is how often the order queue is drained
	OrderSyncInterval time.Duration
	// MenuSyncInterval is how often menus are reconciled
	MenuSyncInterval time.Duration
	// JobTimeout is the maximum time a single job run can take
	JobTimeout time.Duration
	// RunOnStart runs both jobs once immediately after Start
	RunOnStart bool
}

// DefaultSyncSchedulerConfig returns the default interval policy
func DefaultSyncSchedulerConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Enabled:           true,
		OrderSyncInterval: 1 * time.Minute,
		MenuSyncInterval:  1 * time.Hour,
		JobTimeout:        10 * time.Minute,
		RunOnStart:        true,
	}
}

// Validate validates the configuration
func (c *SyncSchedulerConfig) Validate() error {
	if c.OrderSyncInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.MenuSyncInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ---------------------------------------------------------------------------
// Job state
// ---------------------------------------------------------------------------

// jobState is the in-flight guard and last-run bookkeeping for one job
type jobState struct {
	mu         sync.Mutex
	processing bool
	lastRunAt  *time.Time
	lastError  string
}

// tryAcquire wins the in-flight guard, returning false when a run is active
func (j *jobState) tryAcquire() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.processing {
		return false
	}
	j.processing = true
	return true
}

// release frees the in-flight guard and records the run outcome
func (j *jobState) release(err error) {
	now := time.Now()
	j.mu.Lock()
	defer j.mu.Unlock()
	j.processing = false
	j.lastRunAt = &now
	if err != nil {
		j.lastError = err.Error()
	} else {
		j.lastError = ""
	}
}

func (j *jobState) snapshot() (bool, *time.Time, string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.processing, j.lastRunAt, j.lastError
}

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

// JobStatus is the observable state of one interval job
type JobStatus struct {
	Processing bool       `json:"processing"`
	Interval   string     `json:"interval"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
}

// SchedulerStatus is the observable state of the scheduler
type SchedulerStatus struct {
	Running   bool      `json:"running"`
	OrderSync JobStatus `json:"order_sync"`
	MenuSync  JobStatus `json:"menu_sync"`
}

// ---------------------------------------------------------------------------
// SyncScheduler
// ---------------------------------------------------------------------------

// SyncScheduler runs the order queue drain and the menu reconciliation on
// independent intervals. Each job keeps an in-flight guard: a tick that
// arrives while the previous run is still active is skipped, not queued.
// Manual triggers go through the same guard.
type SyncScheduler struct {
	config SyncSchedulerConfig
	orders OrderSyncRunner
	menu   MenuSyncRunner
	locks  LockStore
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	orderJob jobState
	menuJob  jobState
}

// NewSyncScheduler creates a sync scheduler. locks may be nil for
// single-instance deployments.
func NewSyncScheduler(
	config SyncSchedulerConfig,
	orders OrderSyncRunner,
	menu MenuSyncRunner,
	locks LockStore,
	logger *zap.Logger,
) (*SyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SyncScheduler{
		config: config,
		orders: orders,
		menu:   menu,
		locks:  locks,
		logger: logger,
	}, nil
}

// Start starts both interval loops. Calling Start on a running scheduler is
// a logged no-op.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		s.logger.Warn("sync scheduler already started, ignoring")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(2)
	go s.intervalLoop(ctx, "order_sync", s.config.OrderSyncInterval, func(ctx context.Context) error {
		_, err := s.TriggerOrderSync(ctx)
		return err
	})
	go s.intervalLoop(ctx, "menu_sync", s.config.MenuSyncInterval, func(ctx context.Context) error {
		_, err := s.TriggerMenuSync(ctx)
		return err
	})

	s.logger.Info("sync scheduler started",
		zap.Duration("order_sync_interval", s.config.OrderSyncInterval),
		zap.Duration("menu_sync_interval", s.config.MenuSyncInterval),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)
	return nil
}

// Stop stops both loops and waits for in-flight runs to settle. Calling Stop
// on a stopped scheduler is a no-op.
func (s *SyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("sync scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("sync scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the interval loops are active
func (s *SyncScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Status returns the observable state of both jobs
func (s *SyncScheduler) Status() SchedulerStatus {
	orderProcessing, orderLast, orderErr := s.orderJob.snapshot()
	menuProcessing, menuLast, menuErr := s.menuJob.snapshot()

	return SchedulerStatus{
		Running: s.IsRunning(),
		OrderSync: JobStatus{
			Processing: orderProcessing,
			Interval:   s.config.OrderSyncInterval.String(),
			LastRunAt:  orderLast,
			LastError:  orderErr,
		},
		MenuSync: JobStatus{
			Processing: menuProcessing,
			Interval:   s.config.MenuSyncInterval.String(),
			LastRunAt:  menuLast,
			LastError:  menuErr,
		},
	}
}

// TriggerOrderSync runs one order queue drain through the in-flight guard.
// It returns ErrSyncInProgress when a run is already active.
func (s *SyncScheduler) TriggerOrderSync(ctx context.Context) (*possync.ProcessResult, error) {
	if !s.orderJob.tryAcquire() {
		return nil, ErrSyncInProgress
	}

	var result *possync.ProcessResult
	var err error
	defer func() { s.orderJob.release(err) }()

	if err = s.acquireTickLock(ctx, orderSyncLockName); err != nil {
		return nil, err
	}
	defer s.releaseTickLock(ctx, orderSyncLockName)

	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	result, err = s.orders.ProcessQueue(runCtx)
	if err != nil {
		s.logger.Error("order sync run failed", zap.Error(err))
		return nil, err
	}
	if result.Processed > 0 {
		s.logger.Info("order sync run finished",
			zap.Int("processed", result.Processed),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed),
			zap.Duration("duration", result.Duration),
		)
	}
	return result, nil
}

// TriggerMenuSync runs one menu reconciliation through the in-flight guard.
// It returns ErrSyncInProgress when a run is already active.
func (s *SyncScheduler) TriggerMenuSync(ctx context.Context) (*possync.MenuSyncResult, error) {
	if !s.menuJob.tryAcquire() {
		return nil, ErrSyncInProgress
	}

	var result *possync.MenuSyncResult
	var err error
	defer func() { s.menuJob.release(err) }()

	if err = s.acquireTickLock(ctx, menuSyncLockName); err != nil {
		return nil, err
	}
	defer s.releaseTickLock(ctx, menuSyncLockName)

	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	result, err = s.menu.SyncAll(runCtx)
	if err != nil {
		s.logger.Error("menu sync run failed", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// intervalLoop ticks one job until the context is cancelled
func (s *SyncScheduler) intervalLoop(ctx context.Context, name string, interval time.Duration, run func(ctx context.Context) error) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.runTick(ctx, name, run)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("interval loop stopping", zap.String("job", name))
			return
		case <-ticker.C:
			s.runTick(ctx, name, run)
		}
	}
}

// runTick executes one tick, downgrading overlap and lock contention to logs
func (s *SyncScheduler) runTick(ctx context.Context, name string, run func(ctx context.Context) error) {
	err := run(ctx)
	switch err {
	case nil:
	case ErrSyncInProgress:
		s.logger.Warn("previous run still active, skipping tick", zap.String("job", name))
	case ErrTickLockHeld:
		s.logger.Debug("tick lock held by another instance, skipping", zap.String("job", name))
	default:
		if ctx.Err() == nil {
			s.logger.Error("scheduled run failed", zap.String("job", name), zap.Error(err))
		}
	}
}

// acquireTickLock wins the cross-process lock, or no-ops without a store
func (s *SyncScheduler) acquireTickLock(ctx context.Context, name string) error {
	if s.locks == nil {
		return nil
	}
	acquired, err := s.locks.AcquireLock(ctx, name, s.config.JobTimeout)
	if err != nil {
		// A broken lock store must not stall synchronization entirely.
		s.logger.Warn("tick lock store unavailable, proceeding without lock",
			zap.String("lock", name),
			zap.Error(err),
		)
		return nil
	}
	if !acquired {
		return ErrTickLockHeld
	}
	return nil
}

// releaseTickLock releases the cross-process lock if one is held
func (s *SyncScheduler) releaseTickLock(ctx context.Context, name string) {
	if s.locks == nil {
		return
	}
	if err := s.locks.ReleaseLock(ctx, name); err != nil {
		s.logger.Warn("failed to release tick lock",
			zap.String("lock", name),
			zap.Error(err),
		)
	}
}
