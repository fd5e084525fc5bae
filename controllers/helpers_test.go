package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/breakfast4u/breakfast4u-api/config"
	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/services"
)

// setupTestDB creates a fresh in-memory database and installs it as the
// active connection for the duration of the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Meal{},
		&models.Store{},
		&models.Order{},
		&models.OrderItem{},
		&models.Contact{},
	)
	require.NoError(t, err, "Failed to migrate test database")

	config.SetDB(db)
	config.SetConfig(&config.Config{
		JWTSecret:     "test-secret",
		JWTExpireDays: 30,
		AdminEmail:    "admin@breakfast4u.in",
	})
	config.SetRedis(nil)
	services.SetMailer(nil)
	services.SetImageService(nil)

	return db
}

// mockAuthMiddleware injects the given user as the authenticated user,
// bypassing token verification.
func mockAuthMiddleware(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("current_user", user)
		c.Next()
	}
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "Response should be valid JSON")
	return response
}

var testUserSeq int

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	testUserSeq++
	user := &models.User{
		Name:     fmt.Sprintf("Test %s %d", role, testUserSeq),
		Email:    fmt.Sprintf("%s%d@example.com", role, testUserSeq),
		Phone:    "9876543210",
		Password: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error, "Failed to create test user")
	return user
}

func createTestStore(t *testing.T, db *gorm.DB, owner *models.User) *models.Store {
	t.Helper()
	store := &models.Store{
		Name:        "Morning Glory Cafe",
		Description: "Fresh breakfast made daily with local produce",
		Address: models.Address{
			Street:  "12 Main Road",
			Area:    "Sakhrale",
			Pincode: "415414",
		},
		Phone:       "9876500001",
		OwnerID:     owner.ID,
		IsActive:    true,
		DeliveryFee: 30,
	}
	require.NoError(t, db.Create(store).Error, "Failed to create test store")
	return store
}

func createTestMeal(t *testing.T, db *gorm.DB, creator *models.User, price float64) *models.Meal {
	t.Helper()
	testUserSeq++
	meal := &models.Meal{
		Name:            fmt.Sprintf("Misal Pav %d", testUserSeq),
		Description:     "Spicy sprouts curry served with soft pav",
		Price:           price,
		Category:        "Maharashtrian",
		TimeOfDay:       models.StringList{"Morning"},
		Tags:            models.StringList{"Spicy"},
		PreparationTime: 15,
		IsAvailable:     true,
		CreatedByID:     creator.ID,
	}
	require.NoError(t, db.Create(meal).Error, "Failed to create test meal")
	return meal
}

// mealRouter registers the meal routes the way the application does, with the
// auth middlewares swapped for mocks where a user is given.
func mealRouter(user *models.User) *gin.Engine {
	router := setupTestRouter()
	meals := router.Group("/api/meals")
	{
		meals.GET("", GetMeals)
		meals.GET("/search", SearchMeals)
		meals.GET("/category/:category", GetMealsByCategory)
		meals.GET("/time/:timeOfDay", GetMealsByTime)
		if user != nil {
			meals.GET("/:id", mockAuthMiddleware(user), GetMeal)
			meals.POST("", mockAuthMiddleware(user), CreateMeal)
			meals.PUT("/:id", mockAuthMiddleware(user), UpdateMeal)
			meals.DELETE("/:id", mockAuthMiddleware(user), DeleteMeal)
			meals.POST("/:id/image", mockAuthMiddleware(user), UploadMealImage)
		} else {
			meals.GET("/:id", GetMeal)
		}
	}
	return router
}
