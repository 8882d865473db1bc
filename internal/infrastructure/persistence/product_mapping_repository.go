package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bobashop/backend/internal/domain/possync"
	"github.com/bobashop/backend/internal/infrastructure/persistence/models"
)

// GormProductMappingRepository implements ProductMappingRepository using GORM
type GormProductMappingRepository struct {
	db *gorm.DB
}

// NewGormProductMappingRepository creates a new GormProductMappingRepository
func NewGormProductMappingRepository(db *gorm.DB) *GormProductMappingRepository {
	return &GormProductMappingRepository{db: db}
}

// UpsertBatch creates or updates mappings keyed by (config, pos product).
// LocalProductID is an admin-managed link and availability is owned by the
// stop list reconcile; neither is touched on conflict.
func (r *GormProductMappingRepository) UpsertBatch(ctx context.Context, mappings []possync.ProductMapping) error {
	if len(mappings) == 0 {
		return nil
	}

	mappingModels := make([]*models.ProductMappingModel, len(mappings))
	now := time.Now()
	for i := range mappings {
		m := mappings[i]
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		mappingModels[i] = models.ProductMappingModelFromDomain(&m)
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "config_id"}, {Name: "pos_product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"pos_group_id", "name", "price", "updated_at",
			}),
		}).
		Create(mappingModels).Error
}

// FindByConfig returns all product mappings for a store config
func (r *GormProductMappingRepository) FindByConfig(ctx context.Context, configID uuid.UUID) ([]possync.ProductMapping, error) {
	var mappingModels []models.ProductMappingModel
	if err := r.db.WithContext(ctx).
		Where("config_id = ?", configID).
		Order("name ASC").
		Find(&mappingModels).Error; err != nil {
		return nil, err
	}

	mappings := make([]possync.ProductMapping, len(mappingModels))
	for i, model := range mappingModels {
		mappings[i] = *model.ToDomain()
	}
	return mappings, nil
}

// FindByLocalProducts returns mappings keyed by local product ID
func (r *GormProductMappingRepository) FindByLocalProducts(ctx context.Context, configID uuid.UUID, localProductIDs []uuid.UUID) (map[uuid.UUID]possync.ProductMapping, error) {
	result := make(map[uuid.UUID]possync.ProductMapping)
	if len(localProductIDs) == 0 {
		return result, nil
	}

	var mappingModels []models.ProductMappingModel
	if err := r.db.WithContext(ctx).
		Where("config_id = ? AND local_product_id IN ?", configID, localProductIDs).
		Find(&mappingModels).Error; err != nil {
		return nil, err
	}

	for _, model := range mappingModels {
		if model.LocalProductID != nil {
			result[*model.LocalProductID] = *model.ToDomain()
		}
	}
	return result, nil
}

// ReconcileAvailability applies a full stop list snapshot: listed products
// become unavailable, every other mapping of the config becomes available.
// Rows already in the right state are left untouched.
func (r *GormProductMappingRepository) ReconcileAvailability(ctx context.Context, configID uuid.UUID, stoppedPosProductIDs []string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		restore := tx.Model(&models.ProductMappingModel{}).
			Where("config_id = ? AND available = ?", configID, false)
		if len(stoppedPosProductIDs) > 0 {
			restore = restore.Where("pos_product_id NOT IN ?", stoppedPosProductIDs)
		}
		if err := restore.Updates(map[string]any{
			"available":  true,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}

		if len(stoppedPosProductIDs) == 0 {
			return nil
		}
		return tx.Model(&models.ProductMappingModel{}).
			Where("config_id = ? AND available = ? AND pos_product_id IN ?", configID, true, stoppedPosProductIDs).
			Updates(map[string]any{
				"available":  false,
				"updated_at": now,
			}).Error
	})
}

// Ensure GormProductMappingRepository implements ProductMappingRepository
var _ possync.ProductMappingRepository = (*GormProductMappingRepository)(nil)
