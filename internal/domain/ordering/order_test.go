package ordering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusIsValid(t *testing.T) {
	valid := []OrderStatus{
		OrderStatusNew, OrderStatusPaid, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, OrderStatus("SHIPPED").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderIsDelivery(t *testing.T) {
	order := &Order{}
	assert.False(t, order.IsDelivery())

	order.DeliveryAddress = &DeliveryAddress{Street: "Arbat", House: "10"}
	assert.True(t, order.IsDelivery())
}

func TestOrderIsScheduled(t *testing.T) {
	order := &Order{}
	assert.False(t, order.IsScheduled())

	at := time.Now().Add(2 * time.Hour)
	order.ScheduledAt = &at
	assert.True(t, order.IsScheduled())
}
