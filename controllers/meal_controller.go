package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/breakfast4u/breakfast4u-api/config"
	"github.com/breakfast4u/breakfast4u-api/middleware"
	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/services"
	"github.com/breakfast4u/breakfast4u-api/utils"
)

const defaultMealPageSize = 12

// CreateMealRequest represents the request body for creating a meal
type CreateMealRequest struct {
	Name            string                 `json:"name" binding:"required,min=2,max=100"`
	Description     string                 `json:"description" binding:"required,min=10,max=500"`
	Price           float64                `json:"price" binding:"gte=0"`
	Category        string                 `json:"category" binding:"required"`
	TimeOfDay       []string               `json:"timeOfDay" binding:"required,min=1"`
	Tags            []string               `json:"tags"`
	PreparationTime int                    `json:"preparationTime" binding:"required,gte=1"`
	NutritionalInfo models.NutritionalInfo `json:"nutritionalInfo"`
	Ingredients     []string               `json:"ingredients"`
	Allergens       []string               `json:"allergens"`
	IsAvailable     *bool                  `json:"isAvailable"`
}

// UpdateMealRequest represents the request body for updating a meal. All
// fields are optional; absent fields are left untouched.
type UpdateMealRequest struct {
	Name            string                  `json:"name" binding:"omitempty,min=2,max=100"`
	Description     string                  `json:"description" binding:"omitempty,min=10,max=500"`
	Price           *float64                `json:"price" binding:"omitempty,gte=0"`
	Category        string                  `json:"category"`
	TimeOfDay       []string                `json:"timeOfDay"`
	Tags            []string                `json:"tags"`
	PreparationTime *int                    `json:"preparationTime" binding:"omitempty,gte=1"`
	NutritionalInfo *models.NutritionalInfo `json:"nutritionalInfo"`
	Ingredients     []string                `json:"ingredients"`
	Allergens       []string                `json:"allergens"`
	IsAvailable     *bool                   `json:"isAvailable"`
}

// GetMeals handles GET /api/meals - filtered, sorted, paginated listing of
// available meals
func GetMeals(c *gin.Context) {
	db := config.GetDB()
	p := utils.ParsePagination(c, defaultMealPageSize)

	query := db.Model(&models.Meal{}).Where("is_available = ?", true)

	if category := c.Query("category"); category != "" && category != "All Categories" {
		query = query.Where("category = ?", category)
	}

	if timeOfDay := c.Query("timeOfDay"); timeOfDay != "" && timeOfDay != "Any Time" {
		query = query.Where("time_of_day LIKE ?", "%\""+timeOfDay+"\"%")
	}

	// Tag filter is any-of.
	if tags := c.Query("tags"); tags != "" {
		var clauses []string
		var args []interface{}
		for _, tag := range strings.Split(tags, ",") {
			clauses = append(clauses, "tags LIKE ?")
			args = append(args, "%\""+strings.TrimSpace(tag)+"\"%")
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}

	if minPrice := c.Query("minPrice"); minPrice != "" {
		if value, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", value)
		}
	}
	if maxPrice := c.Query("maxPrice"); maxPrice != "" {
		if value, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", value)
		}
	}

	switch c.Query("sortBy") {
	case "Price: Low to High":
		query = query.Order("price ASC")
	case "Price: High to Low":
		query = query.Order("price DESC")
	case "Most Popular":
		query = query.Order("review_count DESC")
	default: // "Highest Rated"
		query = query.Order("rating DESC").Order("review_count DESC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var meals []models.Meal
	if err := query.Preload("CreatedBy").Offset(p.Skip).Limit(p.Limit).Find(&meals).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	attachMealImageURLs(meals)

	c.JSON(http.StatusOK, utils.ListResponse(p, len(meals), total, meals))
}

// SearchMeals handles GET /api/meals/search - case-insensitive substring
// search over name and description
func SearchMeals(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Search query is required",
		})
		return
	}

	db := config.GetDB()
	p := utils.ParsePagination(c, defaultMealPageSize)

	pattern := "%" + strings.ToLower(q) + "%"
	query := db.Model(&models.Meal{}).
		Where("is_available = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var meals []models.Meal
	if err := query.Order("rating DESC").Offset(p.Skip).Limit(p.Limit).Find(&meals).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	attachMealImageURLs(meals)

	c.JSON(http.StatusOK, utils.ListResponse(p, len(meals), total, meals))
}

// GetMealsByCategory handles GET /api/meals/category/:category
func GetMealsByCategory(c *gin.Context) {
	category := c.Param("category")

	db := config.GetDB()
	p := utils.ParsePagination(c, defaultMealPageSize)

	query := db.Model(&models.Meal{}).
		Where("is_available = ?", true).
		Where("category = ?", category)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var meals []models.Meal
	if err := query.Order("rating DESC").Offset(p.Skip).Limit(p.Limit).Find(&meals).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	attachMealImageURLs(meals)

	c.JSON(http.StatusOK, utils.ListResponse(p, len(meals), total, meals))
}

// GetMealsByTime handles GET /api/meals/time/:timeOfDay
func GetMealsByTime(c *gin.Context) {
	timeOfDay := c.Param("timeOfDay")

	db := config.GetDB()
	p := utils.ParsePagination(c, defaultMealPageSize)

	query := db.Model(&models.Meal{}).
		Where("is_available = ?", true).
		Where("time_of_day LIKE ?", "%\""+timeOfDay+"\"%")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var meals []models.Meal
	if err := query.Order("rating DESC").Offset(p.Skip).Limit(p.Limit).Find(&meals).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	attachMealImageURLs(meals)

	c.JSON(http.StatusOK, utils.ListResponse(p, len(meals), total, meals))
}

// GetMeal handles GET /api/meals/:id - single meal; signed-in callers also
// get whether they have favorited it
func GetMeal(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()

	var meal models.Meal
	if err := db.Preload("CreatedBy").First(&meal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Meal not found"})
			return
		}
		handleServiceError(c, err)
		return
	}
	attachMealImageURL(&meal)

	isFavorited := false
	if user, err := middleware.CurrentUser(c); err == nil {
		var favorites []models.Meal
		if err := db.Model(user).Association("FavoriteMeals").Find(&favorites); err == nil {
			for _, fav := range favorites {
				if fav.ID == meal.ID {
					isFavorited = true
					break
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"meal":        meal,
			"isFavorited": isFavorited,
		},
	})
}

// CreateMeal handles POST /api/meals - creates a meal (owner/admin only)
func CreateMeal(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	if !models.IsValidMealCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please select a valid category"})
		return
	}
	for _, t := range req.TimeOfDay {
		if !models.IsValidTimeOfDay(t) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please select a valid time of day"})
			return
		}
	}
	for _, tag := range req.Tags {
		if !models.IsValidMealTag(tag) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please select valid tags"})
			return
		}
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	meal := models.Meal{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		TimeOfDay:       req.TimeOfDay,
		Tags:            req.Tags,
		PreparationTime: req.PreparationTime,
		NutritionalInfo: req.NutritionalInfo,
		Ingredients:     req.Ingredients,
		Allergens:       req.Allergens,
		IsAvailable:     available,
		CreatedByID:     user.ID,
	}

	if err := config.GetDB().Create(&meal).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Meal created successfully",
		"data":    meal,
	})
}

// UpdateMeal handles PUT /api/meals/:id - updates a meal (creator or admin)
func UpdateMeal(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	db := config.GetDB()

	var meal models.Meal
	if err := db.First(&meal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Meal not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	if !middleware.CanActOn(user, meal.CreatedByID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to update this meal"})
		return
	}

	if req.Name != "" {
		meal.Name = req.Name
	}
	if req.Description != "" {
		meal.Description = req.Description
	}
	if req.Price != nil {
		meal.Price = *req.Price
	}
	if req.Category != "" {
		if !models.IsValidMealCategory(req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please select a valid category"})
			return
		}
		meal.Category = req.Category
	}
	if len(req.TimeOfDay) > 0 {
		for _, t := range req.TimeOfDay {
			if !models.IsValidTimeOfDay(t) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please select a valid time of day"})
				return
			}
		}
		meal.TimeOfDay = req.TimeOfDay
	}
	if req.Tags != nil {
		meal.Tags = req.Tags
	}
	if req.PreparationTime != nil {
		meal.PreparationTime = *req.PreparationTime
	}
	if req.NutritionalInfo != nil {
		meal.NutritionalInfo = *req.NutritionalInfo
	}
	if req.Ingredients != nil {
		meal.Ingredients = req.Ingredients
	}
	if req.Allergens != nil {
		meal.Allergens = req.Allergens
	}
	if req.IsAvailable != nil {
		meal.IsAvailable = *req.IsAvailable
	}

	if err := db.Save(&meal).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Meal updated successfully",
		"data":    meal,
	})
}

// DeleteMeal handles DELETE /api/meals/:id - hard delete (creator or admin)
func DeleteMeal(c *gin.Context) {
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

	var meal models.Meal
	if err := db.First(&meal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Meal not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	if !middleware.CanActOn(user, meal.CreatedByID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to delete this meal"})
		return
	}

	if err := db.Delete(&meal).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	// The stored image has no other reference once the meal row is gone.
	if meal.ImageKey != "" {
		if imageService := services.GetImageService(); imageService != nil {
			_ = imageService.DeleteImage(meal.ImageKey)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Meal deleted successfully",
	})
}

// UploadMealImage handles POST /api/meals/:id/image - uploads a PNG photo for
// a meal (creator or admin)
func UploadMealImage(c *gin.Context) {
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

	var meal models.Meal
	if err := db.First(&meal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Meal not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	if !middleware.CanActOn(user, meal.CreatedByID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to update this meal"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Image file is required"})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Image storage is not configured"})
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	// Replace any previous image.
	oldKey := meal.ImageKey
	meal.ImageKey = imageKey
	if err := db.Save(&meal).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	if oldKey != "" && oldKey != imageKey {
		_ = imageService.DeleteImage(oldKey)
	}

	attachMealImageURL(&meal)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Meal image uploaded successfully",
		"data":    meal,
	})
}

// attachMealImageURLs fills the computed ImageURL field on each meal that has
// a stored image. Best-effort: a presign failure just leaves the URL empty.
func attachMealImageURLs(meals []models.Meal) {
	for i := range meals {
		attachMealImageURL(&meals[i])
	}
}

func attachMealImageURL(meal *models.Meal) {
	imageService := services.GetImageService()
	if imageService == nil || meal.ImageKey == "" {
		return
	}
	if url, err := imageService.GetImageURL(meal.ImageKey); err == nil {
		meal.ImageURL = url
	}
}
