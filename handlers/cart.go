package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodie-api/cart"
	"foodie-api/config"
	"foodie-api/middleware"
	"foodie-api/models"
)

// CartHandler serves the cart HTTP surface. The cart manager is injected at
// construction instead of living in a package-level variable: the store is
// the one piece of mutable state in this service that outlives a request.
type CartHandler struct {
	Carts *cart.Manager
}

func NewCartHandler(carts *cart.Manager) *CartHandler {
	return &CartHandler{Carts: carts}
}

type AddCartItemRequest struct {
	MenuItemID uint   `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	Note       string `json:"note"`
}

type UpdateCartItemRequest struct {
	MenuItemID uint   `json:"menu_item_id" binding:"required"`
	Quantity   *int   `json:"quantity" binding:"required"`
	Note       string `json:"note"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

/// view assembles the cart payload: lines, owning restaurant, applied coupon
// and the live summary computed against the restaurant's delivery fee.
func (h *CartHandler) view(userID uint) gin.H {
	store := h.Carts.For(userID)
	st := store.State()

	var fee float64
	resp := gin.H{
		"lines":           st.Lines,
		"coupon":          st.Coupon,
		"coupon_discount": st.CouponDiscount,
		"open":            st.Open,
	}
	if st.RestaurantID != nil {
		var restaurant models.Restaurant
		if err := config.DB.First(&restaurant, *st.RestaurantID).Error; err == nil {
			fee = restaurant.DeliveryFee
			resp["restaurant"] = gin.H{
				"id":           restaurant.ID,
				"name":         restaurant.Name,
				"delivery_fee": restaurant.DeliveryFee,
				"is_open":      restaurant.IsOpen,
			}
		}
	}
	resp["summary"] = store.Summary(fee)
	return resp
}

// GetCart returns the caller's cart with its derived summary
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.view(middleware.GetUserID(c)))
}

// AddItem puts a menu item in the cart. When the cart belongs to another
// restaurant the add is answered with 409 and a conflict descriptor; the
// client resolves it through the replace endpoints.
func (h *CartHandler) AddItem(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item models.MenuItem
	if err := config.DB.First(&item, req.MenuItemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	if !item.IsAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item '" + item.Name + "' is not available"})
		return
	}

	conflict := h.Carts.For(userID).AddItem(cart.Item{
		ID:           item.ID,
		RestaurantID: item.RestaurantID,
		Name:         item.Name,
		UnitPrice:    item.Price,
		ImageURL:     item.ImageURL,
	}, req.Quantity, req.Note)

	if conflict != nil {
		var current models.Restaurant
		config.DB.First(&current, conflict.CurrentRestaurantID)
		c.JSON(http.StatusConflict, gin.H{
			"error":              "Your cart has items from another restaurant",
			"conflict":           conflict,
			"current_restaurant": current.Name,
			"hint":               "POST /api/cart/replace to start a new cart, DELETE /api/cart/replace to keep the current one",
		})
		return
	}

	c.JSON(http.StatusOK, h.view(userID))
}

// ConfirmReplace discards the cart and starts over with the pending item
func (h *CartHandler) ConfirmReplace(c *gin.Context) {
	userID := middleware.GetUserID(c)
	h.Carts.For(userID).ConfirmReplace()
	c.JSON(http.StatusOK, h.view(userID))
}

// CancelReplace keeps the current cart and drops the pending item
func (h *CartHandler) CancelReplace(c *gin.Context) {
	userID := middleware.GetUserID(c)
	h.Carts.For(userID).CancelReplace()
	c.JSON(http.StatusOK, h.view(userID))
}

// UpdateItem sets a line's quantity; zero removes the line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.Carts.For(userID).UpdateQuantity(req.MenuItemID, *req.Quantity, req.Note)
	c.JSON(http.StatusOK, h.view(userID))
}

// RemoveItem deletes the line keyed by item id and optional note
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := middleware.GetUserID(c)

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	h.Carts.For(userID).RemoveItem(uint(itemID), c.Query("note"))
	c.JSON(http.StatusOK, h.view(userID))
}

// ClearCart empties the cart entirely
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := middleware.GetUserID(c)
	h.Carts.For(userID).Clear()
	c.JSON(http.StatusOK, h.view(userID))
}

// ApplyCoupon validates and applies a coupon code to the cart
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Carts.For(userID).ApplyCoupon(req.Code); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.view(userID))
}

// RemoveCoupon clears the applied coupon
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	userID := middleware.GetUserID(c)
	h.Carts.For(userID).RemoveCoupon()
	c.JSON(http.StatusOK, h.view(userID))
}
