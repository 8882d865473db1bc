package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bobashop/backend/internal/domain/ordering"
)

// OrderModel is the persistence model for the Order read model.
type OrderModel struct {
	ID            uuid.UUID            `gorm:"type:uuid;primary_key"`
	Number        string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	StoreConfigID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status        ordering.OrderStatus `gorm:"type:varchar(20);not null;index"`
	CustomerName  string               `gorm:"type:varchar(255)"`
	CustomerPhone string               `gorm:"type:varchar(50);not null"`
	Comment       string               `gorm:"type:text"`
	Total         decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`

	// Delivery address columns, all null for pickup orders
	DeliveryStreet  *string `gorm:"type:varchar(255)"`
	DeliveryHouse   *string `gorm:"type:varchar(50)"`
	DeliveryFlat    *string `gorm:"type:varchar(50)"`
	DeliveryComment *string `gorm:"type:text"`

	ScheduledAt *time.Time
	CreatedAt   time.Time        `gorm:"not null;index"`
	UpdatedAt   time.Time        `gorm:"not null"`
	Items       []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for one order line.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Comment     string          `gorm:"type:text"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *ordering.Order {
	order := &ordering.Order{
		ID:            m.ID,
		Number:        m.Number,
		StoreConfigID: m.StoreConfigID,
		Status:        m.Status,
		CustomerName:  m.CustomerName,
		CustomerPhone: m.CustomerPhone,
		Comment:       m.Comment,
		Total:         m.Total,
		ScheduledAt:   m.ScheduledAt,
		CreatedAt:     m.CreatedAt,
	}

	if m.DeliveryStreet != nil {
		order.DeliveryAddress = &ordering.DeliveryAddress{
			Street: *m.DeliveryStreet,
		}
		if m.DeliveryHouse != nil {
			order.DeliveryAddress.House = *m.DeliveryHouse
		}
		if m.DeliveryFlat != nil {
			order.DeliveryAddress.Flat = *m.DeliveryFlat
		}
		if m.DeliveryComment != nil {
			order.DeliveryAddress.Comment = *m.DeliveryComment
		}
	}

	order.Items = make([]ordering.OrderItem, len(m.Items))
	for i, item := range m.Items {
		order.Items[i] = ordering.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Comment:     item.Comment,
		}
	}
	return order
}
