package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breakfast4u/breakfast4u-api/models"
)

func statsRouter(admin *models.User) *gin.Engine {
	router := setupTestRouter()
	stats := router.Group("/api/stats")
	{
		stats.GET("", GetStats)
		if admin != nil {
			stats.GET("/dashboard", mockAuthMiddleware(admin), GetDashboardStats)
		}
	}
	return router
}

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, models.RoleOwner)
	customer := createTestUser(t, db, models.RoleUser)
	store := createTestStore(t, db, owner)

	rated := createTestMeal(t, db, owner, 30)
	require.NoError(t, db.Model(rated).Updates(map[string]interface{}{"rating": 4.0, "review_count": 10}).Error)
	createTestMeal(t, db, owner, 40) // unrated, excluded from the average

	createOrderDirect(t, db, customer, store, rated, models.OrderStatusDelivered)
	createOrderDirect(t, db, customer, store, rated, models.OrderStatusPending)

	w := performRequest(statsRouter(nil), http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := parseResponse(t, w)["data"].(map[string]interface{})

	assert.Equal(t, float64(2), data["totalUsers"])
	assert.Equal(t, float64(2), data["totalMeals"])
	assert.Equal(t, float64(1), data["totalStores"])
	assert.Equal(t, float64(2), data["totalOrders"])
	assert.Equal(t, float64(1), data["deliveredOrders"])
	assert.Equal(t, 4.0, data["averageRating"])

	areas := data["serviceAreas"].([]interface{})
	assert.Len(t, areas, 4)
	assert.Contains(t, areas, "Sakhrale")

	topCategories := data["topCategories"].([]interface{})
	require.NotEmpty(t, topCategories)
	first := topCategories[0].(map[string]interface{})
	assert.Equal(t, "Maharashtrian", first["category"])
	assert.Equal(t, float64(2), first["count"])
}

func TestGetStatsExcludesInactiveRecords(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, models.RoleOwner)
	deactivated := createTestUser(t, db, models.RoleUser)
	require.NoError(t, db.Model(deactivated).Update("is_active", false).Error)

	meal := createTestMeal(t, db, owner, 30)
	require.NoError(t, db.Model(meal).Update("is_available", false).Error)

	store := createTestStore(t, db, owner)
	require.NoError(t, db.Model(store).Update("is_active", false).Error)

	w := performRequest(statsRouter(nil), http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})

	assert.Equal(t, float64(1), data["totalUsers"], "Deactivated users excluded")
	assert.Equal(t, float64(0), data["totalMeals"], "Unavailable meals excluded")
	assert.Equal(t, float64(0), data["totalStores"], "Inactive stores excluded")
}

func TestGetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, models.RoleAdmin)
	owner := createTestUser(t, db, models.RoleOwner)
	customer := createTestUser(t, db, models.RoleUser)
	store := createTestStore(t, db, owner)
	meal := createTestMeal(t, db, owner, 100)

	delivered := createOrderDirect(t, db, customer, store, meal, models.OrderStatusDelivered)
	createOrderDirect(t, db, customer, store, meal, models.OrderStatusPending)

	w := performRequest(statsRouter(admin), http.MethodGet, "/api/stats/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := parseResponse(t, w)["data"].(map[string]interface{})

	overview := data["overview"].(map[string]interface{})
	assert.Equal(t, float64(3), overview["totalUsers"])
	assert.Equal(t, float64(2), overview["totalOrders"])
	assert.Equal(t, delivered.FinalAmount, overview["monthlyRevenue"], "Only delivered orders count as revenue")

	// Status distribution reflects both orders.
	byStatus := map[string]float64{}
	for _, entry := range data["statusDistribution"].([]interface{}) {
		row := entry.(map[string]interface{})
		byStatus[row["label"].(string)] = row["count"].(float64)
	}
	assert.Equal(t, float64(1), byStatus[models.OrderStatusDelivered])
	assert.Equal(t, float64(1), byStatus[models.OrderStatusPending])

	// Seven daily buckets ending today.
	dailyOrders := data["dailyOrders"].([]interface{})
	require.Len(t, dailyOrders, 7)
	last := dailyOrders[6].(map[string]interface{})
	assert.Equal(t, time.Now().Format("2006-01-02"), last["date"])
	assert.Equal(t, float64(2), last["count"])

	// Top stores by delivered revenue.
	topStores := data["topStores"].([]interface{})
	require.Len(t, topStores, 1)
	topStore := topStores[0].(map[string]interface{})
	assert.Equal(t, store.Name, topStore["name"])
	assert.Equal(t, delivered.FinalAmount, topStore["revenue"])

	// Top meals by quantity sold.
	topMeals := data["topMeals"].([]interface{})
	require.Len(t, topMeals, 1)
	assert.Equal(t, float64(2), topMeals[0].(map[string]interface{})["quantity"])

	recentOrders := data["recentOrders"].([]interface{})
	assert.Len(t, recentOrders, 2)
}
