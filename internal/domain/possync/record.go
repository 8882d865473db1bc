package possync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecordStatus is the terminal outcome recorded for an order
type RecordStatus string

const (
	// RecordStatusSuccess indicates the order reached the POS
	RecordStatusSuccess RecordStatus = "SUCCESS"
	// RecordStatusFailed indicates the order exhausted its retries
	RecordStatusFailed RecordStatus = "FAILED"
)

// IsValid returns true if the status is valid
func (s RecordStatus) IsValid() bool {
	return s == RecordStatusSuccess || s == RecordStatusFailed
}

// String returns the string representation of RecordStatus
func (s RecordStatus) String() string {
	return string(s)
}

// SyncRecord is the durable audit row for a given order's sync attempts.
// It is upserted on terminal outcomes only, never on transient retries.
type SyncRecord struct {
	// ID is the record identifier
	ID uuid.UUID
	// OrderID references the local order
	OrderID uuid.UUID
	// OrderNumber is the human-readable local order number
	OrderNumber string
	// ConfigID references the store configuration used
	ConfigID uuid.UUID
	// PosOrderID is the POS-assigned order ID (nil until success)
	PosOrderID *string
	// PosExternalNumber is the POS-side external number (nil until success)
	PosExternalNumber *string
	// Status is the terminal sync outcome
	Status RecordStatus
	// ErrorMessage is the final failure message (empty on success)
	ErrorMessage string
	// ErrorCode is the POS domain error code (empty on success)
	ErrorCode string
	// SyncedAt is when the terminal outcome was reached
	SyncedAt time.Time
	// CreatedAt is when this record was created
	CreatedAt time.Time
	// UpdatedAt is when this record was last updated
	UpdatedAt time.Time
}

// NewSuccessRecord builds a success record for an accepted order
func NewSuccessRecord(item *QueueItem, posOrderID, posExternalNumber string) *SyncRecord {
	now := time.Now()
	return &SyncRecord{
		ID:                uuid.New(),
		OrderID:           item.OrderID,
		OrderNumber:       item.OrderNumber,
		ConfigID:          item.ConfigID,
		PosOrderID:        &posOrderID,
		PosExternalNumber: &posExternalNumber,
		Status:            RecordStatusSuccess,
		SyncedAt:          now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// NewFailureRecord builds a failure record for an order that exhausted retries
func NewFailureRecord(item *QueueItem, errMsg, errCode string) *SyncRecord {
	now := time.Now()
	return &SyncRecord{
		ID:           uuid.New(),
		OrderID:      item.OrderID,
		OrderNumber:  item.OrderNumber,
		ConfigID:     item.ConfigID,
		Status:       RecordStatusFailed,
		ErrorMessage: errMsg,
		ErrorCode:    errCode,
		SyncedAt:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SyncRecordRepository is the persistence port for sync records
type SyncRecordRepository interface {
	// Upsert creates or replaces the record for the record's order
	Upsert(ctx context.Context, record *SyncRecord) error

	// FindByOrder returns the record for a local order, or nil when absent
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*SyncRecord, error)

	// List returns records filtered by status (nil = all), newest first
	List(ctx context.Context, status *RecordStatus, limit int) ([]SyncRecord, error)
}
