package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodie-api/config"
	"foodie-api/coupon"
	"foodie-api/models"
)

// ListRestaurants returns restaurants for the storefront home (public)
func ListRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	query := config.DB

	if cuisine := c.Query("cuisine"); cuisine != "" {
		query = query.Where("cuisine LIKE ?", "%"+cuisine+"%")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if open := c.Query("open"); open == "true" {
		query = query.Where("is_open = ?", true)
	}

	query.Find(&restaurants)
	c.JSON(http.StatusOK, gin.H{
		"count":       len(restaurants),
		"restaurants": restaurants,
	})
}

// GetRestaurant returns a single restaurant with its menu
func GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.Preload("MenuItems").First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenu returns the menu for a specific restaurant (public)
func GetMenu(c *gin.Context) {
	restaurantID := c.Param("id")
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	var items []models.MenuItem
	query := config.DB.Where("restaurant_id = ?", restaurantID)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if isVeg := c.Query("is_veg"); isVeg == "true" {
		query = query.Where("is_veg = ?", true)
	}
	query.Find(&items)

	c.JSON(http.StatusOK, gin.H{
		"restaurant":   restaurant.Name,
		"delivery_fee": restaurant.DeliveryFee,
		"count":        len(items),
		"menu":         items,
	})
}

// ListCoupons exposes the static coupon catalog for display (public)
func ListCoupons(c *gin.Context) {
	cat := coupon.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"count":   len(cat),
		"coupons": cat,
	})
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	info := []gin.H{
		{"from": "PLACED", "to": "CONFIRMED", "actor": "restaurant"},
		{"from": "PLACED", "to": "CANCELLED", "actor": "restaurant or customer"},
		{"from": "CONFIRMED", "to": "PREPARING", "actor": "restaurant"},
		{"from": "CONFIRMED", "to": "CANCELLED", "actor": "restaurant or customer"},
		{"from": "PREPARING", "to": "READY_FOR_PICKUP", "actor": "restaurant"},
		{"from": "READY_FOR_PICKUP", "to": "PICKED_UP", "actor": "driver"},
		{"from": "PICKED_UP", "to": "DELIVERED", "actor": "driver"},
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []string{"DELIVERED", "CANCELLED"},
		"description":     "Foodie Order Lifecycle State Machine",
	})
}
