package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/breakfast4u/breakfast4u-api/config"
	"github.com/breakfast4u/breakfast4u-api/controllers"
	"github.com/breakfast4u/breakfast4u-api/middleware"
	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/services"
)

func main() {
	log.Println("Starting Breakfast4U API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Meal{},
		&models.Store{},
		&models.Order{},
		&models.OrderItem{},
		&models.Contact{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Redis backs the order-number sequence; without it the service falls
	// back to a count-based sequence, so a missing Redis is not fatal.
	if cfg.RedisURL != "" {
		if _, err := config.ConnectRedis(cfg.RedisURL); err != nil {
			log.Printf("Redis unavailable, falling back to database sequence: %v", err)
		}
	}

	services.InitMailer(cfg)

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		services.InitImageService(s3Service)
	} else {
		log.Println("S3 bucket not configured, meal image upload disabled")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with CORS and every API route group.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.GET("/health", healthCheck)
		api.GET("/database/status", databaseStatus)

		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/logout", controllers.Logout)
			auth.GET("/me", middleware.RequireAuth(), controllers.GetMe)
			auth.PUT("/updateprofile", middleware.RequireAuth(), controllers.UpdateProfile)
		}

		users := api.Group("/users", middleware.RequireAuth())
		{
			users.GET("", middleware.RequireRoles(models.RoleAdmin), controllers.GetUsers)
			users.GET("/favorites", controllers.GetFavorites)
			users.POST("/favorites/:mealId", controllers.AddToFavorites)
			users.DELETE("/favorites/:mealId", controllers.RemoveFromFavorites)
			users.GET("/:id", middleware.RequireRoles(models.RoleAdmin), controllers.GetUser)
			users.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), controllers.UpdateUser)
			users.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), controllers.DeleteUser)
		}

		meals := api.Group("/meals")
		{
			meals.GET("", controllers.GetMeals)
			meals.GET("/search", controllers.SearchMeals)
			meals.GET("/category/:category", controllers.GetMealsByCategory)
			meals.GET("/time/:timeOfDay", controllers.GetMealsByTime)
			meals.GET("/:id", middleware.OptionalAuth(), controllers.GetMeal)
			meals.POST("", middleware.RequireAuth(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.CreateMeal)
			meals.PUT("/:id", middleware.RequireAuth(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.UpdateMeal)
			meals.DELETE("/:id", middleware.RequireAuth(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.DeleteMeal)
			meals.POST("/:id/image", middleware.RequireAuth(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.UploadMealImage)
		}

		stores := api.Group("/stores")
		{
			stores.GET("", controllers.GetStores)
			stores.GET("/search", controllers.SearchStores)
			stores.GET("/nearby", controllers.GetNearbyStores)
			stores.GET("/area/:area", controllers.GetStoresByArea)
			stores.GET("/:id", controllers.GetStore)
			stores.POST("", middleware.RequireAuth(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.CreateStore)
			stores.PUT("/:id", middleware.RequireAuth(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.UpdateStore)
			stores.DELETE("/:id", middleware.RequireAuth(), middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.DeleteStore)
		}

		orders := api.Group("/orders", middleware.RequireAuth())
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("", middleware.RequireRoles(models.RoleAdmin), controllers.GetOrders)
			orders.GET("/my-orders", controllers.GetUserOrders)
			orders.GET("/store/:storeId", middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.GetStoreOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id/status", middleware.RequireRoles(models.RoleOwner, models.RoleAdmin), controllers.UpdateOrderStatus)
			orders.PUT("/:id/cancel", controllers.CancelOrder)
			orders.POST("/:id/review", controllers.AddOrderReview)
		}

		contact := api.Group("/contact")
		{
			contact.POST("", controllers.SubmitContactForm)
			contact.GET("", middleware.RequireAuth(), middleware.RequireRoles(models.RoleAdmin), controllers.GetContactMessages)
			contact.GET("/:id", middleware.RequireAuth(), middleware.RequireRoles(models.RoleAdmin), controllers.GetContactMessage)
			contact.PUT("/:id", middleware.RequireAuth(), middleware.RequireRoles(models.RoleAdmin), controllers.UpdateContactMessage)
			contact.DELETE("/:id", middleware.RequireAuth(), middleware.RequireRoles(models.RoleAdmin), controllers.DeleteContactMessage)
		}

		stats := api.Group("/stats")
		{
			stats.GET("", controllers.GetStats)
			stats.GET("/dashboard", middleware.RequireAuth(), middleware.RequireRoles(models.RoleAdmin), controllers.GetDashboardStats)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Breakfast4U API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
