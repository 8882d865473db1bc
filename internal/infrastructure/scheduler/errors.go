package scheduler

import "errors"

var (
	// ErrSyncInProgress is returned when a job is triggered while already running
	ErrSyncInProgress = errors.New("sync is already in progress")

	// ErrTickLockHeld is returned when another instance holds the tick lock
	ErrTickLockHeld = errors.New("tick lock held by another instance")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
