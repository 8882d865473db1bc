package possync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryMapping associates a POS catalog group with a local category.
// Mutated only by menu sync reconciliation; read by the product listing.
type CategoryMapping struct {
	// ID is the mapping identifier
	ID uuid.UUID
	// ConfigID references the store configuration this catalog belongs to
	ConfigID uuid.UUID
	// PosGroupID is the group identifier in the POS catalog
	PosGroupID string
	// Name is the group name mirrored from the POS
	Name string
	// LocalCategoryID is the linked local category (nil until an admin links it)
	LocalCategoryID *uuid.UUID
	// IsActive mirrors the group's visibility in the POS
	IsActive bool
	// CreatedAt is when this mapping was created
	CreatedAt time.Time
	// UpdatedAt is when this mapping was last reconciled
	UpdatedAt time.Time
}

// ProductMapping associates a POS catalog product with a local product,
// mirroring availability and price from the POS.
type ProductMapping struct {
	// ID is the mapping identifier
	ID uuid.UUID
	// ConfigID references the store configuration this catalog belongs to
	ConfigID uuid.UUID
	// PosProductID is the product identifier in the POS catalog
	PosProductID string
	// PosGroupID is the product's group in the POS catalog
	PosGroupID string
	// LocalProductID is the linked local product (nil until an admin links it)
	LocalProductID *uuid.UUID
	// Name is the product name mirrored from the POS
	Name string
	// Price is the price mirrored from the POS
	Price decimal.Decimal
	// Available is false when the product is on the POS stop list
	Available bool
	// CreatedAt is when this mapping was created
	CreatedAt time.Time
	// UpdatedAt is when this mapping was last reconciled
	UpdatedAt time.Time
}

// CategoryMappingRepository is the persistence port for category mappings
type CategoryMappingRepository interface {
	// UpsertBatch creates or updates mappings keyed by (config, pos group)
	UpsertBatch(ctx context.Context, mappings []CategoryMapping) error

	// FindByConfig returns all category mappings for a store config
	FindByConfig(ctx context.Context, configID uuid.UUID) ([]CategoryMapping, error)
}

// ProductMappingRepository is the persistence port for product mappings
type ProductMappingRepository interface {
	// UpsertBatch creates or updates mappings keyed by (config, pos product).
	// Availability of existing mappings is never changed here; it is owned by
	// ReconcileAvailability.
	UpsertBatch(ctx context.Context, mappings []ProductMapping) error

	// FindByConfig returns all product mappings for a store config
	FindByConfig(ctx context.Context, configID uuid.UUID) ([]ProductMapping, error)

	// FindByLocalProducts returns mappings for the given local products within
	// one store config, keyed by local product ID. Missing products are simply
	// absent from the map.
	FindByLocalProducts(ctx context.Context, configID uuid.UUID, localProductIDs []uuid.UUID) (map[uuid.UUID]ProductMapping, error)

	// ReconcileAvailability applies a full stop list snapshot for a config:
	// listed POS products become unavailable, every other mapping becomes
	// available again.
	ReconcileAvailability(ctx context.Context, configID uuid.UUID, stoppedPosProductIDs []string) error
}
