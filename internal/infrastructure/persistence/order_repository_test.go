package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bobashop/backend/internal/domain/ordering"
	"github.com/bobashop/backend/internal/infrastructure/persistence/models"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := setupSyncTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.OrderModel{}, &models.OrderItemModel{}))
	return db
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	street := "Tverskaya"
	orderID := uuid.New()
	model := &models.OrderModel{
		ID:             orderID,
		Number:         "1001",
		StoreConfigID:  uuid.New(),
		Status:         ordering.OrderStatusPaid,
		CustomerName:   "Alice",
		CustomerPhone:  "+79990001122",
		Total:          decimal.NewFromInt(580),
		DeliveryStreet: &street,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		Items: []models.OrderItemModel{
			{
				ID:          uuid.New(),
				OrderID:     orderID,
				ProductID:   uuid.New(),
				ProductName: "Classic Pearl Milk Tea",
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   decimal.NewFromInt(290),
				Comment:     "50% sugar",
				CreatedAt:   time.Now(),
			},
		},
	}
	require.NoError(t, db.Create(model).Error)

	order, err := repo.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, "1001", order.Number)
	assert.Equal(t, "Alice", order.CustomerName)
	assert.True(t, order.IsDelivery())
	assert.Equal(t, "Tverskaya", order.DeliveryAddress.Street)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Classic Pearl Milk Tea", order.Items[0].ProductName)
	assert.True(t, order.Items[0].Quantity.Equal(decimal.NewFromInt(2)))
}

func TestGormOrderRepository_FindByIDMissing(t *testing.T) {
	repo := NewGormOrderRepository(setupOrderTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ordering.ErrOrderNotFound)
}
