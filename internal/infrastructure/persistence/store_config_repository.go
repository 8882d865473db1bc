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

// GormStoreConfigRepository implements ConfigRepository using GORM
type GormStoreConfigRepository struct {
	db *gorm.DB
}

// NewGormStoreConfigRepository creates a new GormStoreConfigRepository
func NewGormStoreConfigRepository(db *gorm.DB) *GormStoreConfigRepository {
	return &GormStoreConfigRepository{db: db}
}

// FindByID finds a store config by its ID
func (r *GormStoreConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*possync.StoreConfig, error) {
	var model models.StoreConfigModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, possync.ErrConfigNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive returns all active store configs ordered by store name
func (r *GormStoreConfigRepository) FindActive(ctx context.Context) ([]possync.StoreConfig, error) {
	var configModels []models.StoreConfigModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("store_name ASC").
		Find(&configModels).Error; err != nil {
		return nil, err
	}

	configs := make([]possync.StoreConfig, len(configModels))
	for i, model := range configModels {
		configs[i] = *model.ToDomain()
	}
	return configs, nil
}

// UpdateToken persists a freshly exchanged access token
func (r *GormStoreConfigRepository) UpdateToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.StoreConfigModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"access_token":     token,
			"token_expires_at": expiresAt,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return possync.ErrConfigNotFound
	}
	return nil
}

// UpdateMenuSync persists the menu revision marker and sync timestamp
func (r *GormStoreConfigRepository) UpdateMenuSync(ctx context.Context, id uuid.UUID, revision int64, syncedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.StoreConfigModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"menu_revision":     revision,
			"last_menu_sync_at": syncedAt,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return possync.ErrConfigNotFound
	}
	return nil
}

// Save creates or updates a store config
func (r *GormStoreConfigRepository) Save(ctx context.Context, config *possync.StoreConfig) error {
	model := models.StoreConfigModelFromDomain(config)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormStoreConfigRepository implements ConfigRepository
var _ possync.ConfigRepository = (*GormStoreConfigRepository)(nil)
