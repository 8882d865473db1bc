package possync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "github.com/bobashop/backend/internal/domain/possync"
)

// MenuSyncService reconciles local category and product mappings with the
// POS nomenclature for every active store, then applies the store's stop
// list to product availability.
type MenuSyncService struct {
	configs    domain.ConfigRepository
	pos        domain.PosClient
	categories domain.CategoryMappingRepository
	products   domain.ProductMappingRepository
	logger     *zap.Logger
}

// NewMenuSyncService creates a menu sync service
func NewMenuSyncService(
	configs domain.ConfigRepository,
	pos domain.PosClient,
	categories domain.CategoryMappingRepository,
	products domain.ProductMappingRepository,
	logger *zap.Logger,
) *MenuSyncService {
	return &MenuSyncService{
		configs:    configs,
		pos:        pos,
		categories: categories,
		products:   products,
		logger:     logger,
	}
}

// SyncAll refreshes menu mappings for every active store configuration.
// Stores are synced sequentially; one store failing never blocks the rest.
func (s *MenuSyncService) SyncAll(ctx context.Context) (*domain.MenuSyncResult, error) {
	start := time.Now()

	configs, err := s.configs.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("possync: failed to load active configs: %w", err)
	}

	result := &domain.MenuSyncResult{
		Total:     len(configs),
		Results:   make([]domain.StoreMenuResult, 0, len(configs)),
		StartedAt: start,
	}

	for i := range configs {
		cfg := &configs[i]
		storeResult := s.syncStore(ctx, cfg)
		if storeResult.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Results = append(result.Results, storeResult)
	}

	result.Duration = time.Since(start)
	s.logger.Info("menu sync finished",
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// syncStore reconciles one store's mappings and availability
func (s *MenuSyncService) syncStore(ctx context.Context, cfg *domain.StoreConfig) domain.StoreMenuResult {
	result := domain.StoreMenuResult{StoreName: cfg.StoreName}

	menu, err := s.pos.FetchMenu(ctx, cfg.ID)
	if err != nil {
		s.logger.Error("failed to fetch nomenclature",
			zap.String("store", cfg.StoreName),
			zap.Error(err),
		)
		result.ErrorMessage = err.Error()
		return result
	}

	now := time.Now()

	categories := make([]domain.CategoryMapping, 0, len(menu.Groups))
	for _, group := range menu.Groups {
		categories = append(categories, domain.CategoryMapping{
			ConfigID:   cfg.ID,
			PosGroupID: group.ID,
			Name:       group.Name,
			IsActive:   !group.IsHidden,
			UpdatedAt:  now,
		})
	}
	if err := s.categories.UpsertBatch(ctx, categories); err != nil {
		s.logger.Error("failed to upsert category mappings",
			zap.String("store", cfg.StoreName),
			zap.Error(err),
		)
		result.ErrorMessage = err.Error()
		return result
	}
	result.Categories = len(categories)

	products := make([]domain.ProductMapping, 0, len(menu.Products))
	for _, product := range menu.Products {
		products = append(products, domain.ProductMapping{
			ConfigID:     cfg.ID,
			PosProductID: product.ID,
			PosGroupID:   product.GroupID,
			Name:         product.Name,
			Price:        product.Price,
			Available:    true,
			UpdatedAt:    now,
		})
	}
	if err := s.products.UpsertBatch(ctx, products); err != nil {
		s.logger.Error("failed to upsert product mappings",
			zap.String("store", cfg.StoreName),
			zap.Error(err),
		)
		result.ErrorMessage = err.Error()
		return result
	}
	result.Products = len(products)

	// Stop list failure downgrades the store to a partial sync: mappings
	// are already fresh, availability keeps its previous values. The upsert
	// above never touches the available column, so skipping the reconcile
	// really does leave it as it was.
	stopped, err := s.pos.FetchStopList(ctx, cfg.ID)
	if err != nil {
		s.logger.Warn("failed to fetch stop list, keeping previous availability",
			zap.String("store", cfg.StoreName),
			zap.Error(err),
		)
	} else {
		// An empty stop list is still a snapshot: previously stopped
		// products come back on sale.
		if err := s.products.ReconcileAvailability(ctx, cfg.ID, stopped); err != nil {
			s.logger.Error("failed to apply stop list",
				zap.String("store", cfg.StoreName),
				zap.Error(err),
			)
		}
	}

	if err := s.configs.UpdateMenuSync(ctx, cfg.ID, menu.Revision, now); err != nil {
		s.logger.Error("failed to record menu sync time",
			zap.String("store", cfg.StoreName),
			zap.Error(err),
		)
	}

	s.logger.Info("store menu synced",
		zap.String("store", cfg.StoreName),
		zap.Int("categories", result.Categories),
		zap.Int("products", result.Products),
		zap.Int("stopped", len(stopped)),
	)
	result.Success = true
	return result
}
