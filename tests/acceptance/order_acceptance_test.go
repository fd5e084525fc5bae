package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breakfast4u/breakfast4u-api/controllers"
	"github.com/breakfast4u/breakfast4u-api/middleware"
	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/tests/testutil"
)

// fullRouter wires every route the journey touches, exactly as the
// application registers them.
func fullRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}
		stores := api.Group("/stores")
		{
			stores.GET("", controllers.GetStores)
			stores.POST("", middleware.RequireAuth(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.CreateStore)
		}
		meals := api.Group("/meals")
		{
			meals.GET("", controllers.GetMeals)
			meals.POST("", middleware.RequireAuth(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.CreateMeal)
		}
		orders := api.Group("/orders", middleware.RequireAuth())
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("/my-orders", controllers.GetUserOrders)
			orders.GET("/store/:storeId", middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.GetStoreOrders)
			orders.PUT("/:id/status", middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.UpdateOrderStatus)
			orders.POST("/:id/review", controllers.AddOrderReview)
		}
	}
	return router
}

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func (c *client) do(method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &response), "Response should be valid JSON")
	return w, response
}

func (c *client) signUp(name, email, role string) {
	c.t.Helper()
	w, response := c.do(http.MethodPost, "/api/auth/register", gin.H{
		"name":     name,
		"email":    email,
		"phone":    "9876543210",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())
	c.token = response["token"].(string)
}

// TestBreakfastOrderJourney walks the whole marketplace flow through the
// public API: an owner sets up shop, a customer finds a meal, orders it, the
// owner delivers, and the customer leaves a review.
func TestBreakfastOrderJourney(t *testing.T) {
	testutil.OpenTestDB(t)
	router := fullRouter()

	owner := &client{t: t, router: router}
	owner.signUp("Owner Jane", "jane@test.breakfast4u.in", "owner")

	// Owner opens a store.
	w, response := owner.do(http.MethodPost, "/api/stores", gin.H{
		"name":        "Jane's Breakfast Bar",
		"description": "Hot breakfast from six in the morning",
		"address":     gin.H{"street": "2 Mill Road", "area": "Takari", "pincode": "415411"},
		"phone":       "9876512340",
		"deliveryFee": 20.0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	storeID := response["data"].(map[string]interface{})["id"].(float64)

	// Owner lists a meal.
	w, response = owner.do(http.MethodPost, "/api/meals", gin.H{
		"name":            "Masala Omelette",
		"description":     "Three egg omelette with green chilli and coriander",
		"price":           60.0,
		"category":        "Breakfast",
		"timeOfDay":       []string{"Morning"},
		"preparationTime": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	mealID := response["data"].(map[string]interface{})["id"].(float64)

	// A customer signs up and finds the meal.
	customer := &client{t: t, router: router}
	customer.signUp("Customer Sam", "sam@test.breakfast4u.in", "user")

	browse := &client{t: t, router: router}
	w, response = browse.do(http.MethodGet, "/api/meals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), response["total"], "The listed meal is publicly visible")

	// The customer orders two for delivery.
	w, response = customer.do(http.MethodPost, "/api/orders", gin.H{
		"store":           storeID,
		"items":           []gin.H{{"meal": mealID, "quantity": 2}},
		"orderType":       "Delivery",
		"paymentMethod":   "Cash on Delivery",
		"deliveryAddress": gin.H{"street": "9 Station Road", "area": "Takari", "pincode": "415411"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := response["data"].(map[string]interface{})
	orderID := order["id"].(float64)
	assert.Equal(t, 146.0, order["finalAmount"], "120 items + 6 tax + 20 delivery")

	// The owner sees it in the store queue and delivers it.
	w, response = owner.do(http.MethodGet, fmt.Sprintf("/api/orders/store/%.0f", storeID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), response["total"])

	for _, status := range []string{"Confirmed", "Preparing", "Out for Delivery", "Delivered"} {
		w, _ = owner.do(http.MethodPut, fmt.Sprintf("/api/orders/%.0f/status", orderID), gin.H{"status": status})
		require.Equal(t, http.StatusOK, w.Code, "Transition to %s", status)
	}

	// The customer reviews the delivered order.
	w, _ = customer.do(http.MethodPost, fmt.Sprintf("/api/orders/%.0f/review", orderID), gin.H{
		"rating": 5,
		"review": "Best omelette in Takari",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Their history shows the reviewed, delivered order.
	w, response = customer.do(http.MethodGet, "/api/orders/my-orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := response["data"].([]interface{})
	require.Len(t, history, 1)
	final := history[0].(map[string]interface{})
	assert.Equal(t, "Delivered", final["status"])
	assert.Equal(t, float64(5), final["rating"])
}

// TestMinimumOrderRejectionJourney verifies a customer is told about the
// minimum order before anything is stored.
func TestMinimumOrderRejectionJourney(t *testing.T) {
	db := testutil.OpenTestDB(t)
	router := fullRouter()

	owner := &client{t: t, router: router}
	owner.signUp("Owner Min", "min@test.breakfast4u.in", "owner")

	w, response := owner.do(http.MethodPost, "/api/stores", gin.H{
		"name":         "Minimums Only",
		"description":  "A store with a strict minimum order",
		"address":      gin.H{"street": "1 High Street", "area": "Walwa"},
		"phone":        "9876512341",
		"minimumOrder": 200.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	storeID := response["data"].(map[string]interface{})["id"].(float64)

	w, response = owner.do(http.MethodPost, "/api/meals", gin.H{
		"name":            "Small Snack",
		"description":     "A snack far below the minimum order",
		"price":           30.0,
		"category":        "Snacks",
		"timeOfDay":       []string{"Evening"},
		"preparationTime": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	mealID := response["data"].(map[string]interface{})["id"].(float64)

	customer := &client{t: t, router: router}
	customer.signUp("Customer Min", "minc@test.breakfast4u.in", "user")

	w, response = customer.do(http.MethodPost, "/api/orders", gin.H{
		"store":         storeID,
		"items":         []gin.H{{"meal": mealID, "quantity": 1}},
		"orderType":     "Pickup",
		"paymentMethod": "UPI",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, response["message"], "Minimum order amount is ₹200")

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
