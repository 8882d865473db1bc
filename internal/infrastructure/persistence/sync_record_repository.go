package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bobashop/backend/internal/domain/possync"
	"github.com/bobashop/backend/internal/infrastructure/persistence/models"
)

// GormSyncRecordRepository implements SyncRecordRepository using GORM
type GormSyncRecordRepository struct {
	db *gorm.DB
}

// NewGormSyncRecordRepository creates a new GormSyncRecordRepository
func NewGormSyncRecordRepository(db *gorm.DB) *GormSyncRecordRepository {
	return &GormSyncRecordRepository{db: db}
}

// Upsert creates or replaces the record for the record's order. An order has
// at most one record; a later terminal outcome overwrites the earlier one.
func (r *GormSyncRecordRepository) Upsert(ctx context.Context, record *possync.SyncRecord) error {
	model := models.SyncRecordModelFromDomain(record)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"order_number", "config_id", "pos_order_id", "pos_external_number",
				"status", "error_message", "error_code", "synced_at", "updated_at",
			}),
		}).
		Create(model).Error
}

// FindByOrder returns the record for a local order, or nil when absent
func (r *GormSyncRecordRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*possync.SyncRecord, error) {
	var model models.SyncRecordModel
	if err := r.db.WithContext(ctx).First(&model, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns records filtered by status (nil = all), newest first
func (r *GormSyncRecordRepository) List(ctx context.Context, status *possync.RecordStatus, limit int) ([]possync.SyncRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.SyncRecordModel{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recordModels []models.SyncRecordModel
	if err := query.Order("synced_at DESC").Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]possync.SyncRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Ensure GormSyncRecordRepository implements SyncRecordRepository
var _ possync.SyncRecordRepository = (*GormSyncRecordRepository)(nil)
