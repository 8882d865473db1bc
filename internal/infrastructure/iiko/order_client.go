package iiko

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bobashop/backend/internal/domain/ordering"
	"github.com/bobashop/backend/internal/domain/possync"
)

// defaultSyncWindowSize is how many create-order calls may be in flight at
// once inside SyncOrders
const defaultSyncWindowSize = 3

// OrderSyncClient performs order and catalog calls against the IIKO Cloud
// for a store configuration. It implements possync.PosClient.
type OrderSyncClient struct {
	client   *Client
	tokens   possync.TokenSource
	configs  possync.ConfigRepository
	orders   ordering.OrderRepository
	mappings possync.ProductMappingRepository
	logger   *zap.Logger

	windowSize int
}

// NewOrderSyncClient creates an order sync client. A non-positive windowSize
// falls back to the default.
func NewOrderSyncClient(
	client *Client,
	tokens possync.TokenSource,
	configs possync.ConfigRepository,
	orders ordering.OrderRepository,
	mappings possync.ProductMappingRepository,
	windowSize int,
	logger *zap.Logger,
) *OrderSyncClient {
	if windowSize <= 0 {
		windowSize = defaultSyncWindowSize
	}
	return &OrderSyncClient{
		client:     client,
		tokens:     tokens,
		configs:    configs,
		orders:     orders,
		mappings:   mappings,
		logger:     logger,
		windowSize: windowSize,
	}
}

// SyncOrder translates the local order and creates it on the POS.
//
// Preconditions are checked in order, each a distinct failure mode returned
// as an error: the config must exist, the config must be active, a token
// must be obtainable, and the order must exist. The POS call itself never
// errors; its verdict is the result's Outcome tag.
func (s *OrderSyncClient) SyncOrder(ctx context.Context, orderID, configID uuid.UUID) (*possync.CreateOrderResult, error) {
	cfg, err := s.configs.FindByID(ctx, configID)
	if err != nil {
		return nil, err
	}
	if !cfg.IsActive {
		return nil, fmt.Errorf("%w: %s", possync.ErrConfigInactive, cfg.StoreName)
	}

	token, err := s.tokens.AccessToken(ctx, configID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	resolver, err := s.mappingResolver(ctx, cfg, order)
	if err != nil {
		return nil, err
	}

	payload := BuildDeliveryOrder(order, cfg, resolver, s.logger)
	result := s.client.CreateDelivery(ctx, cfg.APIBaseURL, token, payload)

	if result.Succeeded() {
		s.logger.Info("order accepted by POS",
			zap.String("order_number", order.Number),
			zap.String("pos_order_id", result.PosOrderID),
		)
	} else {
		s.logger.Warn("order sync call failed",
			zap.String("order_number", order.Number),
			zap.String("outcome", string(result.Outcome)),
			zap.String("error", result.ErrorMessage),
		)
	}
	return result, nil
}

// SyncOrders partitions the order list into fixed-size concurrency windows
// and awaits each window fully before starting the next. Per-order
// precondition errors are folded into transport-error results so one bad
// order cannot abort the batch.
func (s *OrderSyncClient) SyncOrders(ctx context.Context, orderIDs []uuid.UUID, configID uuid.UUID) ([]*possync.CreateOrderResult, error) {
	results := make([]*possync.CreateOrderResult, len(orderIDs))

	for start := 0; start < len(orderIDs); start += s.windowSize {
		end := start + s.windowSize
		if end > len(orderIDs) {
			end = len(orderIDs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				result, err := s.SyncOrder(ctx, orderIDs[idx], configID)
				if err != nil {
					result = &possync.CreateOrderResult{
						Outcome:      possync.OutcomeTransportError,
						ErrorMessage: err.Error(),
					}
				}
				results[idx] = result
			}(i)
		}
		wg.Wait()
	}

	return results, nil
}

// FetchMenu pulls the catalog for the config's organization
func (s *OrderSyncClient) FetchMenu(ctx context.Context, configID uuid.UUID) (*possync.Menu, error) {
	cfg, token, err := s.activeConfigToken(ctx, configID)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Nomenclature(ctx, cfg.APIBaseURL, token, cfg.OrganizationID)
	if err != nil {
		return nil, err
	}

	menu := &possync.Menu{
		Revision: resp.Revision,
		Groups:   make([]possync.MenuGroup, 0, len(resp.Groups)),
		Products: make([]possync.MenuProduct, 0, len(resp.Products)),
	}
	for _, g := range resp.Groups {
		menu.Groups = append(menu.Groups, possync.MenuGroup{
			ID:       g.ID,
			Name:     g.Name,
			IsHidden: !g.IsIncludedInMenu,
		})
	}
	for _, p := range resp.Products {
		price := decimal.Zero
		if len(p.SizePrices) > 0 {
			price = decimal.NewFromFloat(p.SizePrices[0].Price.CurrentPrice)
		}
		menu.Products = append(menu.Products, possync.MenuProduct{
			ID:      p.ID,
			GroupID: p.ParentGroup,
			Name:    p.Name,
			Price:   price,
		})
	}
	return menu, nil
}

// FetchStopList returns the POS product IDs currently on the stop list
func (s *OrderSyncClient) FetchStopList(ctx context.Context, configID uuid.UUID) ([]string, error) {
	cfg, token, err := s.activeConfigToken(ctx, configID)
	if err != nil {
		return nil, err
	}
	return s.client.StopLists(ctx, cfg.APIBaseURL, token, cfg.OrganizationID)
}

// activeConfigToken loads an active config and a valid token for it
func (s *OrderSyncClient) activeConfigToken(ctx context.Context, configID uuid.UUID) (*possync.StoreConfig, string, error) {
	cfg, err := s.configs.FindByID(ctx, configID)
	if err != nil {
		return nil, "", err
	}
	if !cfg.IsActive {
		return nil, "", fmt.Errorf("%w: %s", possync.ErrConfigInactive, cfg.StoreName)
	}
	token, err := s.tokens.AccessToken(ctx, configID)
	if err != nil {
		return nil, "", err
	}
	return cfg, token, nil
}

// mappingResolver builds a resolver over the order's product mappings
func (s *OrderSyncClient) mappingResolver(ctx context.Context, cfg *possync.StoreConfig, order *ordering.Order) (ProductIDResolver, error) {
	productIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, line := range order.Items {
		productIDs = append(productIDs, line.ProductID)
	}

	mapped, err := s.mappings.FindByLocalProducts(ctx, cfg.ID, productIDs)
	if err != nil {
		return nil, err
	}

	byLocal := make(map[string]string, len(mapped))
	for localID, m := range mapped {
		byLocal[localID.String()] = m.PosProductID
	}
	return func(localProductID string) (string, bool) {
		posID, ok := byLocal[localProductID]
		return posID, ok
	}, nil
}

// Ensure OrderSyncClient implements PosClient
var _ possync.PosClient = (*OrderSyncClient)(nil)
