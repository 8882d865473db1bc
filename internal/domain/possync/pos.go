package possync

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuGroup is a catalog group as reported by the POS
type MenuGroup struct {
	// ID is the group identifier in the POS catalog
	ID string
	// Name is the group name
	Name string
	// IsHidden is true when the group is not shown on the POS menu
	IsHidden bool
}

// MenuProduct is a catalog product as reported by the POS
type MenuProduct struct {
	// ID is the product identifier in the POS catalog
	ID string
	// GroupID is the product's parent group
	GroupID string
	// Name is the product name
	Name string
	// Price is the current POS price
	Price decimal.Decimal
}

// Menu is the catalog state pulled from the POS for one organization
type Menu struct {
	// Revision is the POS catalog revision marker
	Revision int64
	// Groups holds the catalog groups
	Groups []MenuGroup
	// Products holds the catalog products
	Products []MenuProduct
}

// PosClient is the port to the external POS cloud.
//
// SyncOrder separates two failure planes. Precondition failures (missing or
// inactive config, failed authentication, missing order) are returned as
// errors wrapping the package sentinels: they indicate a defect or an
// unusable configuration, not a property of the one call. The call itself
// always yields a CreateOrderResult whose Outcome is one of
// {success, rejected, transport error}; callers switch on the tag instead of
// mixing error inspection with value inspection.
type PosClient interface {
	// SyncOrder translates the local order and creates it on the POS
	SyncOrder(ctx context.Context, orderID, configID uuid.UUID) (*CreateOrderResult, error)

	// SyncOrders processes orders in fixed-size concurrency windows; window
	// N+1 starts only after window N fully settles. Results are returned in
	// input order.
	SyncOrders(ctx context.Context, orderIDs []uuid.UUID, configID uuid.UUID) ([]*CreateOrderResult, error)

	// FetchMenu pulls the catalog for the config's organization
	FetchMenu(ctx context.Context, configID uuid.UUID) (*Menu, error)

	// FetchStopList returns the POS product IDs currently on the stop list
	FetchStopList(ctx context.Context, configID uuid.UUID) ([]string, error)
}
