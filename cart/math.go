package cart

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Item.UnitPrice * float64(l.Quantity)
	}
	return total
}

// TotalItemCount sums quantities over all lines.
func TotalItemCount(lines []Line) int {
	var count int
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}

// Summary is the derived total breakdown shown to the customer and copied
// onto the order at checkout.
type Summary struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
	ItemCount   int     `json:"item_count"`
}

// Summarize computes the full breakdown for a set of lines. freeDelivery
// zeroes the fee before totalling. Total is clamped at zero no matter how
// large the discount is.
func Summarize(lines []Line, deliveryFee, discount float64, freeDelivery bool) Summary {
	if freeDelivery {
		deliveryFee = 0
	}
	sub := Subtotal(lines)
	total := sub + deliveryFee - discount
	if total < 0 {
		total = 0
	}
	return Summary{
		Subtotal:    sub,
		DeliveryFee: deliveryFee,
		Discount:    discount,
		Total:       total,
		ItemCount:   TotalItemCount(lines),
	}
}
