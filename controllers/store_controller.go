package controllers

import (
	"errors"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/breakfast4u/breakfast4u-api/config"
	"github.com/breakfast4u/breakfast4u-api/middleware"
	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/utils"
)

const (
	defaultStorePageSize = 10
	maxNearbyStores      = 20
	defaultNearbyRadius  = 10.0 // km
	earthRadiusKm        = 6371.0
)

// CreateStoreRequest represents the request body for creating a store
type CreateStoreRequest struct {
	Name           string           `json:"name" binding:"required,min=2,max=100"`
	Description    string           `json:"description" binding:"required,min=10,max=500"`
	Address        models.Address   `json:"address" binding:"required"`
	Latitude       *float64         `json:"latitude"`
	Longitude      *float64         `json:"longitude"`
	Phone          string           `json:"phone" binding:"required,len=10"`
	Email          string           `json:"email" binding:"omitempty,email"`
	Hours          models.WeekHours `json:"hours"`
	Specialties    []string         `json:"specialties"`
	Features       []string         `json:"features"`
	Images         []string         `json:"images"`
	DeliveryRadius *float64         `json:"deliveryRadius" binding:"omitempty,gt=0"`
	MinimumOrder   *float64         `json:"minimumOrder" binding:"omitempty,gte=0"`
	DeliveryFee    *float64         `json:"deliveryFee" binding:"omitempty,gte=0"`
}

// UpdateStoreRequest represents the request body for updating a store. All
// fields are optional.
type UpdateStoreRequest struct {
	Name           string           `json:"name" binding:"omitempty,min=2,max=100"`
	Description    string           `json:"description" binding:"omitempty,min=10,max=500"`
	Address        *models.Address  `json:"address"`
	Latitude       *float64         `json:"latitude"`
	Longitude      *float64         `json:"longitude"`
	Phone          string           `json:"phone" binding:"omitempty,len=10"`
	Email          string           `json:"email" binding:"omitempty,email"`
	Hours          models.WeekHours `json:"hours"`
	Specialties    []string         `json:"specialties"`
	Features       []string         `json:"features"`
	Images         []string         `json:"images"`
	IsVerified     *bool            `json:"isVerified"`
	DeliveryRadius *float64         `json:"deliveryRadius" binding:"omitempty,gt=0"`
	MinimumOrder   *float64         `json:"minimumOrder" binding:"omitempty,gte=0"`
	DeliveryFee    *float64         `json:"deliveryFee" binding:"omitempty,gte=0"`
}

// GetStores handles GET /api/stores - filtered, paginated listing of active
// stores
func GetStores(c *gin.Context) {
	db := config.GetDB()
	p := utils.ParsePagination(c, defaultStorePageSize)

	// The openNow filter is a coarse service-hours window rather than a
	// per-store check; outside it nothing is open.
	if c.Query("openNow") == "true" {
		hour := time.Now().Hour()
		if hour < 6 || hour >= 22 {
			c.JSON(http.StatusOK, utils.ListResponse(p, 0, 0, []models.Store{}))
			return
		}
	}

	query := db.Model(&models.Store{}).Where("is_active = ?", true)

	if area := c.Query("area"); area != "" && area != "All Areas" {
		query = query.Where("address_area = ?", area)
	}

	if minRating := c.Query("minRating"); minRating != "" {
		if value, err := strconv.ParseFloat(minRating, 64); err == nil {
			query = query.Where("rating >= ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var stores []models.Store
	if err := query.
		Order("rating DESC").Order("review_count DESC").
		Offset(p.Skip).Limit(p.Limit).
		Find(&stores).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.ListResponse(p, len(stores), total, stores))
}

// SearchStores handles GET /api/stores/search - case-insensitive substring
// search over name, description, specialties, and area
func SearchStores(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Search query is required",
		})
		return
	}

	db := config.GetDB()
	p := utils.ParsePagination(c, defaultStorePageSize)

	pattern := "%" + strings.ToLower(q) + "%"
	query := db.Model(&models.Store{}).
		Where("is_active = ?", true).
		Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(specialties) LIKE ? OR LOWER(address_area) LIKE ?",
			pattern, pattern, pattern, pattern,
		)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var stores []models.Store
	if err := query.Order("rating DESC").Offset(p.Skip).Limit(p.Limit).Find(&stores).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.ListResponse(p, len(stores), total, stores))
}

// GetNearbyStores handles GET /api/stores/nearby - active stores within a
// radius of the given point, nearest first
func GetNearbyStores(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Please provide latitude and longitude",
		})
		return
	}

	radius := defaultNearbyRadius
	if r := c.Query("radius"); r != "" {
		if value, err := strconv.ParseFloat(r, 64); err == nil && value > 0 {
			radius = value
		}
	}

	var stores []models.Store
	if err := config.GetDB().
		Where("is_active = ?", true).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Find(&stores).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	type storeWithDistance struct {
		models.Store
		Distance float64 `json:"distance"` // km
	}

	var nearby []storeWithDistance
	for _, store := range stores {
		d := haversineKm(lat, lng, *store.Latitude, *store.Longitude)
		if d <= radius {
			nearby = append(nearby, storeWithDistance{Store: store, Distance: math.Round(d*100) / 100})
		}
	}
	sort.Slice(nearby, func(i, j int) bool { return nearby[i].Distance < nearby[j].Distance })
	if len(nearby) > maxNearbyStores {
		nearby = nearby[:maxNearbyStores]
	}
	if nearby == nil {
		nearby = []storeWithDistance{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(nearby),
		"data":    nearby,
	})
}

// GetStoresByArea handles GET /api/stores/area/:area
func GetStoresByArea(c *gin.Context) {
	area := c.Param("area")

	db := config.GetDB()
	p := utils.ParsePagination(c, defaultStorePageSize)

	query := db.Model(&models.Store{}).
		Where("is_active = ?", true).
		Where("address_area = ?", area)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var stores []models.Store
	if err := query.Order("rating DESC").Offset(p.Skip).Limit(p.Limit).Find(&stores).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.ListResponse(p, len(stores), total, stores))
}

// GetStore handles GET /api/stores/:id - single store with its popular meals
// and an isCurrentlyOpen flag
func GetStore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var store models.Store
	if err := config.GetDB().Preload("PopularMeals").Preload("Owner").First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Store not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"store":           store,
			"isCurrentlyOpen": store.IsCurrentlyOpen(),
		},
	})
}

// CreateStore handles POST /api/stores - creates a store owned by the caller
// (owner/admin only)
func CreateStore(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	if !models.IsValidStoreArea(req.Address.Area) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please select a valid area"})
		return
	}
	for _, feature := range req.Features {
		if !models.IsValidStoreFeature(feature) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please select valid features"})
			return
		}
	}

	store := models.Store{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Phone:       req.Phone,
		Email:       req.Email,
		Hours:       req.Hours,
		Specialties: req.Specialties,
		Features:    req.Features,
		Images:      req.Images,
		OwnerID:     user.ID,
		IsActive:    true,
	}
	store.DeliveryRadius = 5
	if req.DeliveryRadius != nil {
		store.DeliveryRadius = *req.DeliveryRadius
	}
	if req.MinimumOrder != nil {
		store.MinimumOrder = *req.MinimumOrder
	}
	if req.DeliveryFee != nil {
		store.DeliveryFee = *req.DeliveryFee
	}

	if err := config.GetDB().Create(&store).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Store created successfully",
		"data":    store,
	})
}

// UpdateStore handles PUT /api/stores/:id - updates a store (owner or admin)
func UpdateStore(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	db := config.GetDB()

	var store models.Store
	if err := db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Store not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	if !middleware.CanActOn(user, store.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to update this store"})
		return
	}

	if req.Name != "" {
		store.Name = req.Name
	}
	if req.Description != "" {
		store.Description = req.Description
	}
	if req.Address != nil {
		if !models.IsValidStoreArea(req.Address.Area) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please select a valid area"})
			return
		}
		store.Address = *req.Address
	}
	if req.Latitude != nil {
		store.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		store.Longitude = req.Longitude
	}
	if req.Phone != "" {
		store.Phone = req.Phone
	}
	if req.Email != "" {
		store.Email = req.Email
	}
	if req.Hours != nil {
		store.Hours = req.Hours
	}
	if req.Specialties != nil {
		store.Specialties = req.Specialties
	}
	if req.Features != nil {
		for _, feature := range req.Features {
			if !models.IsValidStoreFeature(feature) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please select valid features"})
				return
			}
		}
		store.Features = req.Features
	}
	if req.Images != nil {
		store.Images = req.Images
	}
	if req.IsVerified != nil {
		// Verification is an admin call, not the owner's.
		if user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to verify stores"})
			return
		}
		store.IsVerified = *req.IsVerified
	}
	if req.DeliveryRadius != nil {
		store.DeliveryRadius = *req.DeliveryRadius
	}
	if req.MinimumOrder != nil {
		store.MinimumOrder = *req.MinimumOrder
	}
	if req.DeliveryFee != nil {
		store.DeliveryFee = *req.DeliveryFee
	}

	if err := db.Save(&store).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Store updated successfully",
		"data":    store,
	})
}

// DeleteStore handles DELETE /api/stores/:id - soft delete, the store is
// deactivated rather than removed (owner or admin)
func DeleteStore(c *gin.Context) {
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

	var store models.Store
	if err := db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Store not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	if !middleware.CanActOn(user, store.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to delete this store"})
		return
	}

	store.IsActive = false
	if err := db.Save(&store).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Store deactivated successfully",
	})
}

// haversineKm returns the great-circle distance between two points in km.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
