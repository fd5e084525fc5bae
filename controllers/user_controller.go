package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/breakfast4u/breakfast4u-api/config"
	"github.com/breakfast4u/breakfast4u-api/middleware"
	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/utils"
)

// UpdateUserRequest represents the admin request body for updating a user
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=50"`
	Phone    string `json:"phone" binding:"omitempty,len=10,numeric"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

// GetUsers handles GET /api/users - lists users, newest first (admin only)
func GetUsers(c *gin.Context) {
	db := config.GetDB()
	p := utils.ParsePagination(c, 10)

	var users []models.User
	if err := db.Order("created_at DESC").Offset(p.Skip).Limit(p.Limit).Find(&users).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.ListResponse(p, len(users), total, users))
}

// GetUser handles GET /api/users/:id - returns a single user with favorites
// (admin only)
func GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := config.GetDB().Preload("FavoriteMeals").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateUser handles PUT /api/users/:id - admin update of a user record
func UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	if req.Role != "" && !models.IsValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid role"})
		return
	}

	db := config.GetDB()

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := db.Save(&user).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"data":    user,
	})
}

// DeleteUser handles DELETE /api/users/:id - soft delete: deactivates the
// account instead of removing it (admin only)
func DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	user.IsActive = false
	if err := db.Save(&user).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deactivated successfully",
	})
}

// AddToFavorites handles POST /api/users/favorites/:mealId - adds a meal to
// the authenticated user's favorites
func AddToFavorites(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	mealID, ok := parseIDParam(c, "mealId")
	if !ok {
		return
	}

	db := config.GetDB()

	var meal models.Meal
	if err := db.First(&meal, mealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Meal not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	var favorites []models.Meal
	if err := db.Model(user).Association("FavoriteMeals").Find(&favorites); err != nil {
		handleServiceError(c, err)
		return
	}
	for _, fav := range favorites {
		if fav.ID == meal.ID {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Meal already in favorites"})
			return
		}
	}

	if err := db.Model(user).Association("FavoriteMeals").Append(&meal); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Meal added to favorites",
	})
}

// RemoveFromFavorites handles DELETE /api/users/favorites/:mealId - removes a
// meal from the authenticated user's favorites
func RemoveFromFavorites(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	mealID, ok := parseIDParam(c, "mealId")
	if !ok {
		return
	}

	db := config.GetDB()

	var favorites []models.Meal
	if err := db.Model(user).Association("FavoriteMeals").Find(&favorites); err != nil {
		handleServiceError(c, err)
		return
	}

	var target *models.Meal
	for i := range favorites {
		if favorites[i].ID == mealID {
			target = &favorites[i]
			break
		}
	}
	if target == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Meal not in favorites"})
		return
	}

	if err := db.Model(user).Association("FavoriteMeals").Delete(target); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Meal removed from favorites",
	})
}

// GetFavorites handles GET /api/users/favorites - lists the authenticated
// user's favorite meals
func GetFavorites(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	var favorites []models.Meal
	if err := config.GetDB().Model(user).Association("FavoriteMeals").Find(&favorites); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(favorites),
		"data":    favorites,
	})
}
