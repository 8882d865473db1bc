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

// GormCategoryMappingRepository implements CategoryMappingRepository using GORM
type GormCategoryMappingRepository struct {
	db *gorm.DB
}

// NewGormCategoryMappingRepository creates a new GormCategoryMappingRepository
func NewGormCategoryMappingRepository(db *gorm.DB) *GormCategoryMappingRepository {
	return &GormCategoryMappingRepository{db: db}
}

// UpsertBatch creates or updates mappings keyed by (config, pos group).
// LocalCategoryID is an admin-managed link and is never touched here.
func (r *GormCategoryMappingRepository) UpsertBatch(ctx context.Context, mappings []possync.CategoryMapping) error {
	if len(mappings) == 0 {
		return nil
	}

	mappingModels := make([]*models.CategoryMappingModel, len(mappings))
	now := time.Now()
	for i := range mappings {
		m := mappings[i]
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		mappingModels[i] = models.CategoryMappingModelFromDomain(&m)
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "config_id"}, {Name: "pos_group_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "is_active", "updated_at",
			}),
		}).
		Create(mappingModels).Error
}

// FindByConfig returns all category mappings for a store config
func (r *GormCategoryMappingRepository) FindByConfig(ctx context.Context, configID uuid.UUID) ([]possync.CategoryMapping, error) {
	var mappingModels []models.CategoryMappingModel
	if err := r.db.WithContext(ctx).
		Where("config_id = ?", configID).
		Order("name ASC").
		Find(&mappingModels).Error; err != nil {
		return nil, err
	}

	mappings := make([]possync.CategoryMapping, len(mappingModels))
	for i, model := range mappingModels {
		mappings[i] = *model.ToDomain()
	}
	return mappings, nil
}

// Ensure GormCategoryMappingRepository implements CategoryMappingRepository
var _ possync.CategoryMappingRepository = (*GormCategoryMappingRepository)(nil)
