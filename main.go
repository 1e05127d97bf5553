package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"service-marketplace-server/config"
	"service-marketplace-server/database"
	"service-marketplace-server/jobs"
	"service-marketplace-server/marketplace"
	"service-marketplace-server/middleware"
	"service-marketplace-server/routes"
	ws "service-marketplace-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Hydrate the in-memory marketplace engine from persisted state
	store := marketplace.NewStore()
	categories, providers, requests, notifications, err := database.LoadState()
	if err != nil {
		log.Fatal("Failed to load marketplace state:", err)
	}
	if len(categories) == 0 {
		categories, providers, err = seedMarketplace()
		if err != nil {
			log.Fatal("Failed to seed marketplace:", err)
		}
	}
	store.Restore(categories, providers, requests, notifications)
	store.SetPersister(database.NewGormPersister(database.DB))

	log.Printf("✅ Marketplace state loaded: %d categories, %d providers, %d requests, %d notifications",
		len(categories), len(providers), len(requests), len(notifications))

	// Real-time notification hub
	hub := ws.NewHub()
	go hub.Run()
	store.SetDispatcher(hub)

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security headers (must be first)
	router.Use(middleware.SecurityHeadersMiddleware())

	// Input validation
	router.Use(middleware.InputValidationMiddleware())

	// Rate limiting
	router.Use(middleware.RateLimitMiddleware())

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Service Marketplace Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// WebSocket endpoint for real-time notifications
	router.GET("/api/v1/ws/notifications", middleware.WebSocketAuthMiddleware(), func(c *gin.Context) {
		actorID := c.GetString("actor_id")
		role := c.GetString("actor_role")
		ws.ServeWebSocket(hub, c.Writer, c.Request, actorID, role)
	})

	// API routes
	api := router.Group("/api/v1")
	{
		// Token issuing (no authentication required) - with strict rate limiting
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes)

		// Category and provider directory routes (public reads)
		routes.RegisterCategoryRoutes(api.Group("/categories"), store)
		routes.RegisterProviderRoutes(api.Group("/providers"), store)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.RegisterRequestRoutes(protected.Group("/requests"), store)
			routes.RegisterNotificationRoutes(protected.Group("/notifications"), store)
		}

		// Admin routes
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
		{
			routes.RegisterAdminCategoryRoutes(adminRoutes.Group("/categories"), store)
		}
	}

	// Start background jobs
	jobs.StartNotificationRetentionJob(store)

	// Periodic rate limiter cleanup
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			middleware.CleanupRateLimiters()
		}
	}()

	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
