package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"storefront-service/internal/config"
	"storefront-service/internal/handlers"
	"storefront-service/internal/middleware"
	"storefront-service/internal/repository"
	"storefront-service/internal/services"
)

// @title Storefront API
// @version 1.0.0
// @description E-commerce storefront service with catalog browsing, CSV/XLSX product import, content management and cash-on-delivery checkout

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin API key.

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		redisOpts = &redis.Options{
			Addr: "localhost:6379",
		}
	}
	redisClient := redis.NewClient(redisOpts)

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()

	// Initialize repositories
	productsRepo := repository.NewProductsRepository(db, redisClient)
	categoriesRepo := repository.NewCategoriesRepository(db, redisClient)
	contentRepo := repository.NewContentRepository(db, redisClient)
	ordersRepo := repository.NewOrdersRepository(db, productsRepo)

	// Initialize services
	importService := services.NewImportService(productsRepo, categoriesRepo, logger)

	// Initialize handlers
	productsHandler := handlers.NewProductsHandler(productsRepo, categoriesRepo)
	categoriesHandler := handlers.NewCategoriesHandler(categoriesRepo)
	contentHandler := handlers.NewContentHandler(contentRepo)
	ordersHandler := handlers.NewOrdersHandler(ordersRepo, productsRepo, logger)
	importHandler := handlers.NewImportHandler(importService)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.MaxImportFileSize

	// Add CORS middleware
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)

	// =============================================================================
	// PUBLIC STOREFRONT ENDPOINTS (no auth required)
	// These endpoints serve the customer-facing storefront
	// =============================================================================
	storefront := router.Group("/api/v1")
	storefront.Use(middleware.Storefront())
	{
		storefront.GET("/products", productsHandler.GetProducts)
		storefront.GET("/products/feed", productsHandler.GetProductsFeed)
		storefront.GET("/products/slug/:slug", productsHandler.GetProductBySlug)
		storefront.GET("/products/:id", productsHandler.GetProduct)

		storefront.GET("/categories", categoriesHandler.GetCategories)
		storefront.GET("/categories/:id", categoriesHandler.GetCategory)

		storefront.GET("/banners", contentHandler.GetBanners)
		storefront.GET("/promo-videos", contentHandler.GetPromoVideos)

		storefront.POST("/orders", ordersHandler.PlaceOrder)
		storefront.GET("/orders/track", ordersHandler.TrackOrder)
	}

	// =============================================================================
	// ADMIN ENDPOINTS (API key required)
	// =============================================================================
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AdminAuth(cfg.AdminAPIKey))
	{
		products := admin.Group("/products")
		{
			products.GET("", productsHandler.GetProducts)
			products.GET("/:id", productsHandler.GetProduct)
			products.POST("", productsHandler.CreateProduct)
			products.PUT("/:id", productsHandler.UpdateProduct)
			products.DELETE("/:id", productsHandler.DeleteProduct)

			// Two-phase import: preview parses without persisting, confirm
			// persists the client-approved candidates
			products.GET("/import/template", importHandler.GetImportTemplate)
			products.POST("/import/preview", importHandler.PreviewImport)
			products.POST("/import/confirm", importHandler.ConfirmImport)
		}

		categories := admin.Group("/categories")
		{
			categories.GET("", categoriesHandler.GetCategories)
			categories.GET("/:id", categoriesHandler.GetCategory)
			categories.POST("", categoriesHandler.CreateCategory)
			categories.PUT("/:id", categoriesHandler.UpdateCategory)
			categories.DELETE("/:id", categoriesHandler.DeleteCategory)
		}

		banners := admin.Group("/banners")
		{
			banners.GET("", contentHandler.GetBanners)
			banners.POST("", contentHandler.CreateBanner)
			banners.PUT("/:id", contentHandler.UpdateBanner)
			banners.DELETE("/:id", contentHandler.DeleteBanner)
		}

		videos := admin.Group("/promo-videos")
		{
			videos.GET("", contentHandler.GetPromoVideos)
			videos.POST("", contentHandler.CreatePromoVideo)
			videos.PUT("/:id", contentHandler.UpdatePromoVideo)
			videos.DELETE("/:id", contentHandler.DeletePromoVideo)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", ordersHandler.GetOrders)
			orders.GET("/:id", ordersHandler.GetOrder)
			orders.PATCH("/:id/status", ordersHandler.UpdateOrderStatus)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Storefront service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down storefront-service...")

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Storefront service stopped")
}
