package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foodie-api/config"
	"foodie-api/middleware"
	"foodie-api/models"
)

type CheckoutRequest struct {
	AddressID     uint   `json:"address_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=card cash pix"`
	Notes         string `json:"notes"`
}

// Checkout turns the current cart into an order: line snapshot, chosen
// address, payment selection and the computed summary. The cart is cleared
// only after the order is persisted.
func (h *CartHandler) Checkout(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := h.Carts.For(userID)
	st := store.State()
	if len(st.Lines) == 0 || st.RestaurantID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	}

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, *st.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if !restaurant.IsOpen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Restaurant is currently closed"})
		return
	}

	var address models.Address
	if err := config.DB.Where("id = ? AND user_id = ?", req.AddressID, userID).First(&address).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}

	summary := store.Summary(restaurant.DeliveryFee)

	var orderItems []models.OrderItem
	for _, line := range st.Lines {
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: line.Item.ID,
			Quantity:   line.Quantity,
			Price:      line.Item.UnitPrice,
			Name:       line.Item.Name,
			Note:       line.Note,
		})
	}

	// Base 30 min plus 5 per distinct line
	estimatedTime := 30 + (5 * len(st.Lines))

	couponCode := ""
	if st.Coupon != nil {
		couponCode = st.Coupon.Code
	}

	order := models.Order{
		Number:          uuid.New().String(),
		CustomerID:      userID,
		RestaurantID:    restaurant.ID,
		Status:          models.StatusPlaced,
		Subtotal:        summary.Subtotal,
		DeliveryFee:     summary.DeliveryFee,
		Discount:        summary.Discount,
		CouponCode:      couponCode,
		TotalPrice:      summary.Total,
		PaymentMethod:   req.PaymentMethod,
		AddressID:       &address.ID,
		DeliveryAddress: address.Formatted(),
		Notes:           req.Notes,
		EstimatedTime:   estimatedTime,
		Items:           orderItems,
	}

	if err := config.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	history := models.OrderStatusHistory{
		OrderID:   order.ID,
		ToStatus:  models.StatusPlaced,
		ChangedBy: userID,
		Note:      "Order placed by customer",
	}
	config.DB.Create(&history)

	store.Clear()

	config.DB.Preload("Items.MenuItem").Preload("Restaurant").First(&order, order.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Order placed successfully",
		"order":          order,
		"estimated_time": estimatedTime,
	})
}
