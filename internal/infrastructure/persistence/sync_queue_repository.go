package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bobashop/backend/internal/domain/possync"
	"github.com/bobashop/backend/internal/infrastructure/persistence/models"
)

// GormSyncQueueRepository implements QueueRepository using GORM
type GormSyncQueueRepository struct {
	db *gorm.DB
}

// NewGormSyncQueueRepository creates a new GormSyncQueueRepository
func NewGormSyncQueueRepository(db *gorm.DB) *GormSyncQueueRepository {
	return &GormSyncQueueRepository{db: db}
}

// Enqueue stores a new pending queue item
func (r *GormSyncQueueRepository) Enqueue(ctx context.Context, item *possync.QueueItem) error {
	model := models.SyncQueueItemModelFromDomain(item)
	return r.db.WithContext(ctx).Create(model).Error
}

// ClaimPending atomically moves up to limit PENDING items to PROCESSING and
// returns them in insertion order. Each row is claimed with a conditional
// update keyed on its current status, so an item can only ever be claimed by
// one processor even when several run against the same database.
func (r *GormSyncQueueRepository) ClaimPending(ctx context.Context, limit int) ([]possync.QueueItem, error) {
	var claimed []possync.QueueItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidates []models.SyncQueueItemModel
		if err := tx.
			Where("status = ?", possync.QueueStatusPending).
			Order("created_at ASC").
			Limit(limit).
			Find(&candidates).Error; err != nil {
			return err
		}

		now := time.Now()
		for i := range candidates {
			result := tx.Model(&models.SyncQueueItemModel{}).
				Where("id = ? AND status = ?", candidates[i].ID, possync.QueueStatusPending).
				Updates(map[string]any{
					"status":     possync.QueueStatusProcessing,
					"updated_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				// Claimed by another processor between select and update.
				continue
			}
			candidates[i].Status = possync.QueueStatusProcessing
			candidates[i].UpdatedAt = now
			claimed = append(claimed, *candidates[i].ToDomain())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// UpdateStatus persists a transition for one item
func (r *GormSyncQueueRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status possync.QueueStatus, retryCount int, lastError string) error {
	result := r.db.WithContext(ctx).
		Model(&models.SyncQueueItemModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"retry_count": retryCount,
			"last_error":  lastError,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return possync.ErrQueueItemNotFound
	}
	return nil
}

// FindByOrder returns the queue item for a local order
func (r *GormSyncQueueRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*possync.QueueItem, error) {
	var model models.SyncQueueItemModel
	if err := r.db.WithContext(ctx).First(&model, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, possync.ErrQueueItemNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns queue items filtered by status (nil = all), newest first
func (r *GormSyncQueueRepository) List(ctx context.Context, status *possync.QueueStatus, limit int) ([]possync.QueueItem, error) {
	query := r.db.WithContext(ctx).Model(&models.SyncQueueItemModel{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var itemModels []models.SyncQueueItemModel
	if err := query.Order("created_at DESC").Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]possync.QueueItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Ensure GormSyncQueueRepository implements QueueRepository
var _ possync.QueueRepository = (*GormSyncQueueRepository)(nil)
