package coupon

import (
	"errors"
	"fmt"
	"strings"
)

// Kind distinguishes how a coupon's Value is interpreted.
type Kind string

const (
	KindPercent Kind = "percent" // Value is a percentage of the subtotal
	KindFixed   Kind = "fixed"   // Value is a flat amount
)

// Coupon is a named discount rule. MinOrder and MaxDiscount are optional
// gates (zero means unset). FreeDelivery waives the delivery fee on top of
// any discount, via a dedicated flag, not inferred from the code or value.
type Coupon struct {
	Code         string  `json:"code"`
	Kind         Kind    `json:"kind"`
	Value        float64 `json:"value"`
	MinOrder     float64 `json:"min_order,omitempty"`
	MaxDiscount  float64 `json:"max_discount,omitempty"`
	FreeDelivery bool    `json:"free_delivery,omitempty"`
	Description  string  `json:"description"`
}

// ErrUnknown is returned for codes not present in the catalog.
var ErrUnknown = errors.New("invalid or expired coupon")

// catalog is the static, read-only coupon table.
var catalog = []Coupon{
	{
		Code:        "PRIMEIRA",
		Kind:        KindPercent,
		Value:       50,
		MaxDiscount: 25,
		Description: "50% off your first order, up to 25 off",
	},
	{
		Code:        "DESCONTO10",
		Kind:        KindFixed,
		Value:       10,
		MinOrder:    30,
		Description: "10 off orders of 30 or more",
	},
	{
		Code:         "FRETEGRATIS",
		Kind:         KindFixed,
		Value:        0,
		MinOrder:     20,
		FreeDelivery: true,
		Description:  "Free delivery on orders of 20 or more",
	},
}

// Normalize canonicalizes a user-entered code: trimmed, uppercased.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Find looks up a coupon by code. Lookup is case-insensitive.
func Find(code string) (Coupon, bool) {
	code = Normalize(code)
	for _, c := range catalog {
		if c.Code == code {
			return c, true
		}
	}
	return Coupon{}, false
}

// Catalog returns the full coupon table for display surfaces.
func Catalog() []Coupon {
	out := make([]Coupon, len(catalog))
	copy(out, catalog)
	return out
}

// Validate checks a code against the current subtotal and returns the
// discount it grants. Pure and deterministic; it is called on every cart
// mutation, not just on user-initiated applies.
func Validate(code string, subtotal float64) (float64, Coupon, error) {
	c, ok := Find(code)
	if !ok {
		return 0, Coupon{}, ErrUnknown
	}
	if c.MinOrder > 0 && subtotal < c.MinOrder {
		return 0, Coupon{}, fmt.Errorf("this coupon requires a minimum order of %.2f", c.MinOrder)
	}
	return c.DiscountFor(subtotal), c, nil
}

// DiscountFor computes the discount a coupon grants on a subtotal,
// without checking the minimum-order gate.
func (c Coupon) DiscountFor(subtotal float64) float64 {
	switch c.Kind {
	case KindPercent:
		d := subtotal * c.Value / 100
		if c.MaxDiscount > 0 && d > c.MaxDiscount {
			d = c.MaxDiscount
		}
		return d
	default:
		return c.Value
	}
}
