package possync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxRetryCount is the default retry cap for a queue item
const DefaultMaxRetryCount = 3

// QueueStatus represents the lifecycle status of a sync queue item
type QueueStatus string

const (
	// QueueStatusPending indicates the item awaits a processing run
	QueueStatusPending QueueStatus = "PENDING"
	// QueueStatusProcessing indicates the item is claimed by a run
	QueueStatusProcessing QueueStatus = "PROCESSING"
	// QueueStatusCompleted indicates the order reached the POS
	QueueStatusCompleted QueueStatus = "COMPLETED"
	// QueueStatusFailed indicates the retry cap was exhausted (terminal)
	QueueStatusFailed QueueStatus = "FAILED"
)

// IsValid returns true if the status is valid
func (s QueueStatus) IsValid() bool {
	switch s {
	case QueueStatusPending, QueueStatusProcessing, QueueStatusCompleted, QueueStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of QueueStatus
func (s QueueStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states no processing run will pick up again
func (s QueueStatus) IsTerminal() bool {
	return s == QueueStatusCompleted || s == QueueStatusFailed
}

// QueueItem represents one local order awaiting propagation to the POS.
// Only the queue processor mutates Status and RetryCount.
type QueueItem struct {
	// ID is the queue item identifier
	ID uuid.UUID
	// OrderID references the local order
	OrderID uuid.UUID
	// OrderNumber is the human-readable local order number
	OrderNumber string
	// ConfigID references the target store configuration
	ConfigID uuid.UUID
	// Status is the lifecycle status
	Status QueueStatus
	// RetryCount is the number of failed attempts so far
	RetryCount int
	// LastError is the most recent failure message (empty when none)
	LastError string
	// CreatedAt is when the item was enqueued
	CreatedAt time.Time
	// UpdatedAt is when the item was last mutated
	UpdatedAt time.Time
}

// NewQueueItem enqueues a local order for POS propagation
func NewQueueItem(orderID uuid.UUID, orderNumber string, configID uuid.UUID) *QueueItem {
	now := time.Now()
	return &QueueItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		OrderNumber: orderNumber,
		ConfigID:    configID,
		Status:      QueueStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ---------------------------------------------------------------------------
// Transition function
// ---------------------------------------------------------------------------

// Transition is the computed next step for a claimed queue item
type Transition struct {
	// Status is the status the item moves to
	Status QueueStatus
	// RetryCount is the item's retry counter after the transition
	RetryCount int
	// Error is the failure message to store (empty on success)
	Error string
	// Terminal is true when a sync record must be written
	Terminal bool
}

// NextState computes the transition for a claimed (PROCESSING) item given the
// outcome of its sync attempt. It is pure: persistence and logging are the
// caller's job.
//
//	success                        -> COMPLETED (terminal)
//	failure, retryCount < cap      -> PENDING, retryCount+1
//	failure, retryCount >= cap     -> FAILED (terminal)
func NextState(item *QueueItem, outcome Outcome, errMsg string, maxRetries int) Transition {
	if outcome == OutcomeSuccess {
		return Transition{
			Status:     QueueStatusCompleted,
			RetryCount: item.RetryCount,
			Terminal:   true,
		}
	}
	if item.RetryCount < maxRetries {
		return Transition{
			Status:     QueueStatusPending,
			RetryCount: item.RetryCount + 1,
			Error:      errMsg,
		}
	}
	return Transition{
		Status:     QueueStatusFailed,
		RetryCount: item.RetryCount,
		Error:      errMsg,
		Terminal:   true,
	}
}

// Apply applies a transition to the item
func (q *QueueItem) Apply(t Transition) {
	q.Status = t.Status
	q.RetryCount = t.RetryCount
	q.LastError = t.Error
	q.UpdatedAt = time.Now()
}

// ---------------------------------------------------------------------------
// QueueRepository
// ---------------------------------------------------------------------------

// QueueRepository is the persistence port for the sync queue
type QueueRepository interface {
	// Enqueue stores a new pending item
	Enqueue(ctx context.Context, item *QueueItem) error

	// ClaimPending atomically moves up to limit PENDING items to PROCESSING
	// and returns them in insertion order. The claim is a conditional update
	// (status must still be PENDING) so concurrent processors cannot claim
	// the same item twice.
	ClaimPending(ctx context.Context, limit int) ([]QueueItem, error)

	// UpdateStatus persists a transition for one item
	UpdateStatus(ctx context.Context, id uuid.UUID, status QueueStatus, retryCount int, lastError string) error

	// FindByOrder returns the queue item for a local order, or ErrQueueItemNotFound
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*QueueItem, error)

	// List returns queue items filtered by status (nil = all), newest first
	List(ctx context.Context, status *QueueStatus, limit int) ([]QueueItem, error)
}
