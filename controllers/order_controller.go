package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/breakfast4u/breakfast4u-api/config"
	"github.com/breakfast4u/breakfast4u-api/middleware"
	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/services"
	"github.com/breakfast4u/breakfast4u-api/utils"
)

const defaultOrderPageSize = 10

// UpdateOrderStatusRequest represents the request body for a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AddOrderReviewRequest represents the request body for reviewing an order
type AddOrderReviewRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review" binding:"max=500"`
}

// CreateOrder handles POST /api/orders - places a new order for the caller
func CreateOrder(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, err)
		return
	}

	if !models.IsValidOrderType(input.OrderType) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order type"})
		return
	}
	if !models.IsValidPaymentMethod(input.PaymentMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment method"})
		return
	}

	db := config.GetDB()

	order, err := services.CreateOrder(db, user, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	var created models.Order
	if err := db.
		Preload("User").Preload("Store").Preload("Items.Meal").
		First(&created, order.ID).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"data":    created,
	})
}

// GetOrders handles GET /api/orders - all orders, admin only
func GetOrders(c *gin.Context) {
	db := config.GetDB()
	p := utils.ParsePagination(c, defaultOrderPageSize)

	query := db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if startDate := c.Query("startDate"); startDate != "" {
		if t, err := time.Parse("2006-01-02", startDate); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if endDate := c.Query("endDate"); endDate != "" {
		if t, err := time.Parse("2006-01-02", endDate); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var orders []models.Order
	if err := query.
		Preload("User").Preload("Store").Preload("Items.Meal").
		Order("created_at DESC").
		Offset(p.Skip).Limit(p.Limit).
		Find(&orders).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.ListResponse(p, len(orders), total, orders))
}

// GetUserOrders handles GET /api/orders/my-orders - the caller's own orders
func GetUserOrders(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	db := config.GetDB()
	p := utils.ParsePagination(c, defaultOrderPageSize)

	query := db.Model(&models.Order{}).Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var orders []models.Order
	if err := query.
		Preload("Store").Preload("Items.Meal").
		Order("created_at DESC").
		Offset(p.Skip).Limit(p.Limit).
		Find(&orders).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.ListResponse(p, len(orders), total, orders))
}

// GetStoreOrders handles GET /api/orders/store/:storeId - a store's incoming
// orders, visible to that store's owner or an admin
func GetStoreOrders(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	storeID, ok := parseIDParam(c, "storeId")
	if !ok {
		return
	}

	db := config.GetDB()

	var store models.Store
	if err := db.First(&store, storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Store not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	if !middleware.CanActOn(user, store.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to view this store's orders"})
		return
	}

	p := utils.ParsePagination(c, defaultOrderPageSize)

	query := db.Model(&models.Order{}).Where("store_id = ?", storeID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var orders []models.Order
	if err := query.
		Preload("User").Preload("Items.Meal").
		Order("created_at DESC").
		Offset(p.Skip).Limit(p.Limit).
		Find(&orders).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.ListResponse(p, len(orders), total, orders))
}

// GetOrder handles GET /api/orders/:id - visible to the purchasing user, the
// store's owner, or an admin
func GetOrder(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()

	var order models.Order
	if err := db.
		Preload("User").Preload("Store").Preload("Items.Meal").
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	allowed := order.UserID == user.ID || user.Role == models.RoleAdmin
	if !allowed && order.Store != nil && order.Store.OwnerID == user.ID {
		allowed = true
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to view this order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PUT /api/orders/:id/status - store owner or admin
func UpdateOrderStatus(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	order, err := services.UpdateOrderStatus(config.GetDB(), user, id, req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated successfully",
		"data":    order,
	})
}

// CancelOrder handles PUT /api/orders/:id/cancel - the purchasing user only
func CancelOrder(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := services.CancelOrder(config.GetDB(), user, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order cancelled successfully",
		"data":    order,
	})
}

// AddOrderReview handles POST /api/orders/:id/review - one-time review of a
// delivered order by the purchasing user
func AddOrderReview(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddOrderReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	order, err := services.AddOrderReview(config.GetDB(), user, id, req.Rating, req.Review)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review added successfully",
		"data":    order,
	})
}
