package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"foodie-api/cart"
)

func lines() []cart.Line {
	return []cart.Line{
		{Item: cart.Item{ID: 1, RestaurantID: 1, Name: "Burger", UnitPrice: 10}, Quantity: 2},
		{Item: cart.Item{ID: 2, RestaurantID: 1, Name: "Fries", UnitPrice: 5.5}, Quantity: 3},
	}
}

func TestSubtotal(t *testing.T) {
	assert.Equal(t, 36.5, cart.Subtotal(lines()))
	assert.Equal(t, 0.0, cart.Subtotal(nil))
}

func TestTotalItemCount(t *testing.T) {
	assert.Equal(t, 5, cart.TotalItemCount(lines()))
	assert.Equal(t, 0, cart.TotalItemCount(nil))
}

func TestSummarize(t *testing.T) {
	s := cart.Summarize(lines(), 8, 10, false)
	assert.Equal(t, 36.5, s.Subtotal)
	assert.Equal(t, 8.0, s.DeliveryFee)
	assert.Equal(t, 10.0, s.Discount)
	assert.Equal(t, 34.5, s.Total)
	assert.Equal(t, 5, s.ItemCount)
}

func TestSummarizeTotalNeverNegative(t *testing.T) {
	s := cart.Summarize(lines(), 8, 1000, false)
	assert.Equal(t, 0.0, s.Total)
	assert.Equal(t, 1000.0, s.Discount)
}

func TestSummarizeFreeDelivery(t *testing.T) {
	s := cart.Summarize(lines(), 8, 0, true)
	assert.Equal(t, 0.0, s.DeliveryFee)
	assert.Equal(t, 36.5, s.Total)
}
