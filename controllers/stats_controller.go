package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/breakfast4u/breakfast4u-api/config"
	"github.com/breakfast4u/breakfast4u-api/models"
)

// GetStats handles GET /api/stats - public marketplace figures for the
// landing page
func GetStats(c *gin.Context) {
	db := config.GetDB()

	var userCount, mealCount, storeCount, orderCount, deliveredCount int64
	counts := []struct {
		model interface{}
		where []interface{}
		dest  *int64
	}{
		{&models.User{}, []interface{}{"is_active = ?", true}, &userCount},
		{&models.Meal{}, []interface{}{"is_available = ?", true}, &mealCount},
		{&models.Store{}, []interface{}{"is_active = ?", true}, &storeCount},
		{&models.Order{}, nil, &orderCount},
		{&models.Order{}, []interface{}{"status = ?", models.OrderStatusDelivered}, &deliveredCount},
	}
	for _, q := range counts {
		query := db.Model(q.model)
		if q.where != nil {
			query = query.Where(q.where[0], q.where[1:]...)
		}
		if err := query.Count(q.dest).Error; err != nil {
			handleServiceError(c, err)
			return
		}
	}

	var avgRating float64
	if err := db.Model(&models.Meal{}).
		Where("is_available = ? AND review_count > 0", true).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	type categoryCount struct {
		Category string `json:"category"`
		Count    int64  `json:"count"`
	}
	var topCategories []categoryCount
	if err := db.Model(&models.Meal{}).
		Where("is_available = ?", true).
		Select("category, COUNT(*) as count").
		Group("category").
		Order("count DESC").
		Limit(5).
		Scan(&topCategories).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"totalUsers":      userCount,
			"totalMeals":      mealCount,
			"totalStores":     storeCount,
			"totalOrders":     orderCount,
			"deliveredOrders": deliveredCount,
			"averageRating":   math.Round(avgRating*10) / 10,
			"topCategories":   topCategories,
			"serviceAreas":    models.StoreAreas,
		},
	})
}

// GetDashboardStats handles GET /api/stats/dashboard - admin operational
// dashboard
func GetDashboardStats(c *gin.Context) {
	db := config.GetDB()
	now := time.Now()

	var userCount, storeCount, mealCount, orderCount int64
	for _, q := range []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &userCount},
		{&models.Store{}, &storeCount},
		{&models.Meal{}, &mealCount},
		{&models.Order{}, &orderCount},
	} {
		if err := db.Model(q.model).Count(q.dest).Error; err != nil {
			handleServiceError(c, err)
			return
		}
	}

	// Revenue counts only delivered orders, month to date.
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthlyRevenue float64
	if err := db.Model(&models.Order{}).
		Where("status = ? AND created_at >= ?", models.OrderStatusDelivered, monthStart).
		Select("COALESCE(SUM(final_amount), 0)").
		Scan(&monthlyRevenue).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	type labelCount struct {
		Label string `gorm:"column:label" json:"label"`
		Count int64  `gorm:"column:count" json:"count"`
	}

	var statusDistribution []labelCount
	if err := db.Model(&models.Order{}).
		Select("status as label, COUNT(*) as count").
		Group("status").
		Scan(&statusDistribution).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var roleDistribution []labelCount
	if err := db.Model(&models.User{}).
		Select("role as label, COUNT(*) as count").
		Group("role").
		Scan(&roleDistribution).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	// Daily order counts for the trailing week, oldest day first. Counted in
	// Go so the day bucketing does not depend on database date functions.
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)
	var weekOrders []models.Order
	if err := db.Select("created_at").
		Where("created_at >= ?", weekStart).
		Find(&weekOrders).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	type dailyCount struct {
		Date  string `json:"date"`
		Count int64  `json:"count"`
	}
	dailyOrders := make([]dailyCount, 7)
	byDay := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i).Format("2006-01-02")
		dailyOrders[i] = dailyCount{Date: day}
		byDay[day] = i
	}
	for _, order := range weekOrders {
		if i, ok := byDay[order.CreatedAt.Format("2006-01-02")]; ok {
			dailyOrders[i].Count++
		}
	}

	type storeRevenue struct {
		StoreID uint    `gorm:"column:store_id" json:"storeId"`
		Name    string  `gorm:"column:name" json:"name"`
		Revenue float64 `gorm:"column:revenue" json:"revenue"`
		Orders  int64   `gorm:"column:orders" json:"orders"`
	}
	var topStores []storeRevenue
	if err := db.Model(&models.Order{}).
		Select("orders.store_id, stores.name, COALESCE(SUM(orders.final_amount), 0) as revenue, COUNT(*) as orders").
		Joins("JOIN stores ON stores.id = orders.store_id").
		Where("orders.status = ?", models.OrderStatusDelivered).
		Group("orders.store_id, stores.name").
		Order("revenue DESC").
		Limit(5).
		Scan(&topStores).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	type mealSales struct {
		MealID   uint   `gorm:"column:meal_id" json:"mealId"`
		Name     string `gorm:"column:name" json:"name"`
		Quantity int64  `gorm:"column:quantity" json:"quantity"`
	}
	var topMeals []mealSales
	if err := db.Model(&models.OrderItem{}).
		Select("order_items.meal_id, meals.name, COALESCE(SUM(order_items.quantity), 0) as quantity").
		Joins("JOIN meals ON meals.id = order_items.meal_id").
		Group("order_items.meal_id, meals.name").
		Order("quantity DESC").
		Limit(10).
		Scan(&topMeals).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var recentOrders []models.Order
	if err := db.Preload("User").Preload("Store").
		Order("created_at DESC").
		Limit(10).
		Find(&recentOrders).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"overview": gin.H{
				"totalUsers":     userCount,
				"totalStores":    storeCount,
				"totalMeals":     mealCount,
				"totalOrders":    orderCount,
				"monthlyRevenue": monthlyRevenue,
			},
			"statusDistribution": statusDistribution,
			"roleDistribution":   roleDistribution,
			"dailyOrders":        dailyOrders,
			"topStores":          topStores,
			"topMeals":           topMeals,
			"recentOrders":       recentOrders,
		},
	})
}
