package iiko

import (
	"go.uber.org/zap"

	"github.com/bobashop/backend/internal/domain/ordering"
	"github.com/bobashop/backend/internal/domain/possync"
)

// completeBeforeLayout is the absolute-timestamp format the POS expects for
// the completion deadline
const completeBeforeLayout = "2006-01-02 15:04:05.000"

// orderItemTypeProduct is the item type for plain products
const orderItemTypeProduct = "Product"

// guestCustomerName is used when the local order carries no customer name
const guestCustomerName = "Guest"

// ProductIDResolver maps a local product to its POS product ID. The second
// return value is false when no mapping exists.
type ProductIDResolver func(localProductID string) (string, bool)

// BuildDeliveryOrder maps a local order aggregate into the POS delivery-order
// wire shape. Deterministic for identical inputs; no network or persistence
// side effects.
//
// When a line item has no product mapping, the stringified local product ID
// is used as the POS product ID. This is a degraded-mode default, not an
// error: the order still goes out, and the fallback is logged because it
// usually means a silent rejection on the POS side.
func BuildDeliveryOrder(order *ordering.Order, cfg *possync.StoreConfig, resolve ProductIDResolver, logger *zap.Logger) *CreateDeliveryRequest {
	payload := DeliveryOrder{
		ExternalNumber: order.Number,
		Phone:          order.CustomerPhone,
		Comment:        order.Comment,
		Customer:       &DeliveryCustomer{Name: guestCustomerName},
		Items:          make([]DeliveryOrderItem, 0, len(order.Items)),
	}

	if order.CustomerName != "" {
		payload.Customer.Name = order.CustomerName
	}

	for _, line := range order.Items {
		localID := line.ProductID.String()
		posID, ok := resolve(localID)
		if !ok {
			posID = localID
			logger.Warn("no POS mapping for product, falling back to local ID",
				zap.String("order_number", order.Number),
				zap.String("product_id", localID),
				zap.String("product_name", line.ProductName),
			)
		}
		payload.Items = append(payload.Items, DeliveryOrderItem{
			ProductID: posID,
			Type:      orderItemTypeProduct,
			Amount:    line.Quantity.InexactFloat64(),
			Price:     line.UnitPrice.InexactFloat64(),
			Comment:   line.Comment,
		})
	}

	if order.IsDelivery() {
		addr := order.DeliveryAddress
		payload.DeliveryPoint = &DeliveryPoint{
			Address: DeliveryAddress{
				Street: Street{Name: addr.Street},
				House:  addr.House,
				Flat:   addr.Flat,
			},
			Comment: addr.Comment,
		}
	}

	if order.IsScheduled() {
		payload.CompleteBefore = order.ScheduledAt.Format(completeBeforeLayout)
	}

	return &CreateDeliveryRequest{
		OrganizationID:  cfg.OrganizationID,
		TerminalGroupID: cfg.TerminalGroupID,
		Order:           payload,
	}
}
