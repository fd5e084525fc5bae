package integration

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/breakfast4u/breakfast4u-api/controllers"
	"github.com/breakfast4u/breakfast4u-api/middleware"
	"github.com/breakfast4u/breakfast4u-api/models"
)

// apiRouter wires the real middlewares and handlers the way the application
// does, so requests exercise the full auth and routing path.
func apiRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.GET("/me", middleware.RequireAuth(), controllers.GetMe)
		}

		meals := api.Group("/meals")
		{
			meals.GET("", controllers.GetMeals)
			meals.GET("/:id", middleware.OptionalAuth(), controllers.GetMeal)
			meals.POST("", middleware.RequireAuth(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.CreateMeal)
			meals.POST("/:id/image", middleware.RequireAuth(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.UploadMealImage)
		}

		stores := api.Group("/stores")
		{
			stores.GET("", controllers.GetStores)
			stores.POST("", middleware.RequireAuth(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.CreateStore)
		}

		orders := api.Group("/orders", middleware.RequireAuth())
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("/my-orders", controllers.GetUserOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id/status", middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.UpdateOrderStatus)
			orders.PUT("/:id/cancel", controllers.CancelOrder)
			orders.POST("/:id/review", controllers.AddOrderReview)
		}
	}

	return router
}

func doJSON(router *gin.Engine, method, path, authHeader string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}
