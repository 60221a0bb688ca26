package cart

// Quantity bounds for a single cart line.
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// Item is the menu-item snapshot a cart line carries. Price and name are
// captured at add time so a menu edit never silently reprices a cart.
type Item struct {
	ID           uint    `json:"id"`
	RestaurantID uint    `json:"restaurant_id"`
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unit_price"`
	ImageURL     string  `json:"image_url,omitempty"`
}

// Line is one cart entry. Identity is (item id, note): the same item with
// different notes stays on separate lines, the same item with the same note
// merges by summing quantities.
type Line struct {
	Item     Item   `json:"item"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// matches reports whether a line has the given identity key.
func (l Line) matches(itemID uint, note string) bool {
	return l.Item.ID == itemID && l.Note == note
}

// Snapshot is the persisted shape of a cart: what survives a restart.
// The panel-open flag is deliberately absent; it is session UI state.
// The coupon is stored by code and re-resolved against the catalog on
// restore, so the discount is always recomputed, never carried stale.
type Snapshot struct {
	Lines          []Line  `json:"lines"`
	RestaurantID   *uint   `json:"restaurant_id"`
	AppliedCoupon  *string `json:"applied_coupon"`
	CouponDiscount float64 `json:"coupon_discount"`
}
