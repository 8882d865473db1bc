package iiko

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bobashop/backend/internal/domain/ordering"
	"github.com/bobashop/backend/internal/domain/possync"
)

func testConfig() *possync.StoreConfig {
	return &possync.StoreConfig{
		ID:              uuid.New(),
		StoreName:       "Boba Central",
		APIBaseURL:      "https://api-ru.iiko.services",
		OrganizationID:  "org-1",
		TerminalGroupID: "tg-1",
		IsActive:        true,
	}
}

func pickupOrder() *ordering.Order {
	return &ordering.Order{
		ID:            uuid.New(),
		Number:        "#1001",
		CustomerName:  "Alice",
		CustomerPhone: "+79990001122",
		Items: []ordering.OrderItem{
			{
				ProductID:   uuid.New(),
				ProductName: "Classic Pearl Milk Tea",
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   decimal.NewFromInt(290),
				Comment:     "50% sugar, less ice",
			},
		},
	}
}

func staticResolver(mapping map[string]string) ProductIDResolver {
	return func(localProductID string) (string, bool) {
		posID, ok := mapping[localProductID]
		return posID, ok
	}
}

func TestBuildDeliveryOrder_Basics(t *testing.T) {
	order := pickupOrder()
	cfg := testConfig()
	localID := order.Items[0].ProductID.String()

	req := BuildDeliveryOrder(order, cfg, staticResolver(map[string]string{localID: "pos-p-1"}), zap.NewNop())

	assert.Equal(t, "org-1", req.OrganizationID)
	assert.Equal(t, "tg-1", req.TerminalGroupID)
	assert.Equal(t, "#1001", req.Order.ExternalNumber)
	assert.Equal(t, "+79990001122", req.Order.Phone)
	require.NotNil(t, req.Order.Customer)
	assert.Equal(t, "Alice", req.Order.Customer.Name)

	require.Len(t, req.Order.Items, 1)
	item := req.Order.Items[0]
	assert.Equal(t, "pos-p-1", item.ProductID)
	assert.Equal(t, "Product", item.Type)
	assert.Equal(t, 2.0, item.Amount)
	assert.Equal(t, 290.0, item.Price)
	assert.Equal(t, "50% sugar, less ice", item.Comment)
}

func TestBuildDeliveryOrder_GuestFallback(t *testing.T) {
	order := pickupOrder()
	order.CustomerName = ""

	req := BuildDeliveryOrder(order, testConfig(), staticResolver(nil), zap.NewNop())

	require.NotNil(t, req.Order.Customer)
	assert.Equal(t, "Guest", req.Order.Customer.Name)
}

func TestBuildDeliveryOrder_UnmappedProductFallsBackToLocalID(t *testing.T) {
	order := pickupOrder()
	localID := order.Items[0].ProductID.String()

	req := BuildDeliveryOrder(order, testConfig(), staticResolver(nil), zap.NewNop())

	require.Len(t, req.Order.Items, 1)
	assert.Equal(t, localID, req.Order.Items[0].ProductID)
}

func TestBuildDeliveryOrder_DeliveryPoint(t *testing.T) {
	t.Run("pickup order has no delivery point", func(t *testing.T) {
		req := BuildDeliveryOrder(pickupOrder(), testConfig(), staticResolver(nil), zap.NewNop())
		assert.Nil(t, req.Order.DeliveryPoint)
	})

	t.Run("delivery order carries full address", func(t *testing.T) {
		order := pickupOrder()
		order.DeliveryAddress = &ordering.DeliveryAddress{
			Street:  "Tverskaya",
			House:   "12",
			Flat:    "34",
			Comment: "intercom 34",
		}

		req := BuildDeliveryOrder(order, testConfig(), staticResolver(nil), zap.NewNop())

		require.NotNil(t, req.Order.DeliveryPoint)
		assert.Equal(t, "Tverskaya", req.Order.DeliveryPoint.Address.Street.Name)
		assert.Equal(t, "12", req.Order.DeliveryPoint.Address.House)
		assert.Equal(t, "34", req.Order.DeliveryPoint.Address.Flat)
		assert.Equal(t, "intercom 34", req.Order.DeliveryPoint.Comment)
	})
}

func TestBuildDeliveryOrder_CompleteBefore(t *testing.T) {
	t.Run("unscheduled order omits completeBefore", func(t *testing.T) {
		req := BuildDeliveryOrder(pickupOrder(), testConfig(), staticResolver(nil), zap.NewNop())
		assert.Empty(t, req.Order.CompleteBefore)
	})

	t.Run("scheduled order formats the deadline", func(t *testing.T) {
		order := pickupOrder()
		at := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
		order.ScheduledAt = &at

		req := BuildDeliveryOrder(order, testConfig(), staticResolver(nil), zap.NewNop())

		assert.Equal(t, "2026-03-14 15:30:00.000", req.Order.CompleteBefore)
	})
}

func TestBuildDeliveryOrder_Deterministic(t *testing.T) {
	order := pickupOrder()
	cfg := testConfig()

	first := BuildDeliveryOrder(order, cfg, staticResolver(nil), zap.NewNop())
	second := BuildDeliveryOrder(order, cfg, staticResolver(nil), zap.NewNop())

	assert.Equal(t, first, second)
}
