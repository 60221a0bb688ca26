package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodie-api/config"
	"foodie-api/middleware"
	"foodie-api/models"
)

type AddressRequest struct {
	Label      string `json:"label"`
	Street     string `json:"street" binding:"required"`
	Number     string `json:"number" binding:"required"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	IsDefault  bool   `json:"is_default"`
}

// ListAddresses returns the caller's address book, default first
func ListAddresses(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var addresses []models.Address
	config.DB.Where("user_id = ?", userID).
		Order("is_default desc, created_at asc").
		Find(&addresses)
	c.JSON(http.StatusOK, gin.H{"count": len(addresses), "addresses": addresses})
}

// CreateAddress adds an address to the caller's book
func CreateAddress(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.IsDefault {
		config.DB.Model(&models.Address{}).Where("user_id = ?", userID).Update("is_default", false)
	}

	address := models.Address{
		UserID:     userID,
		Label:      req.Label,
		Street:     req.Street,
		Number:     req.Number,
		Complement: req.Complement,
		District:   req.District,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}
	if err := config.DB.Create(&address).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Address saved", "address": address})
}

// UpdateAddress edits an address owned by the caller
func UpdateAddress(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var address models.Address
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&address).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Only allow safe fields
	allowed := map[string]bool{
		"label": true, "street": true, "number": true, "complement": true,
		"district": true, "city": true, "state": true, "postal_code": true,
		"is_default": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	if def, ok := update["is_default"].(bool); ok && def {
		config.DB.Model(&models.Address{}).Where("user_id = ?", userID).Update("is_default", false)
	}
	config.DB.Model(&address).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Address updated", "address": address})
}

// DeleteAddress removes an address owned by the caller
func DeleteAddress(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var address models.Address
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&address).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}
	config.DB.Delete(&address)
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
