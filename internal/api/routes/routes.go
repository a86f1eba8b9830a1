// Package routes handles the setup and configuration of API routes
package routes

import (
	"context"
	"database/sql"
	"log"

	_ "powermatch/docs" // Import swagger docs
	"powermatch/internal/api/handlers"
	"powermatch/internal/api/middleware"
	"powermatch/internal/auth"
	"powermatch/internal/config"
	"powermatch/internal/geocode"
	"powermatch/internal/plans"
	"powermatch/internal/pricing"
	"powermatch/internal/provider"
	"powermatch/internal/ratelimit"
	"powermatch/internal/repository/postgres"
	"powermatch/internal/territory"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes and their handlers
func SetupRoutes(cfg *config.Config, db *sql.DB, providerManager *provider.Manager) *gin.Engine {
	// Create router
	r := gin.Default()

	// Apply compression middleware globally
	r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))

	// Initialize health handler for basic routes
	healthHandler := handlers.NewHealthHandler(db)

	// Routes without rate limiting
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Apply rate limiting to all other routes
	r.Use(middleware.NewRateLimiter(cfg).Middleware())

	// Deduplicate mutating requests carrying an idempotency key
	r.Use(middleware.Idempotency(ratelimit.NewIdempotencyGuard(0)))

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	territoryRepo := postgres.NewTerritoryRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	planCacheRepo := postgres.NewPlanCacheRepository(db)
	apiLogRepo := postgres.NewAPILogRepository(db)

	// Initialize services
	authService := auth.NewService(cfg)

	staticMap, err := territory.NewStaticMap()
	if err != nil {
		log.Fatalf("Failed to load ZIP seed data: %v", err)
	}

	// Keep zip_mappings in step with the seed so availability counts agree
	// with ZIP resolution on a fresh database
	if inserted, err := territory.SyncSeed(context.Background(), territoryRepo, staticMap); err != nil {
		log.Printf("ZIP seed sync incomplete after %d inserts: %v", inserted, err)
	} else if inserted > 0 {
		log.Printf("Seeded %d ZIP mappings", inserted)
	}

	resolver := territory.NewResolver(staticMap, territoryRepo, buildGeocoder(cfg.Geocode))

	pricingClient := pricing.NewClient(pricing.Config{
		BaseURL:           cfg.Pricing.BaseURL,
		CacheTTL:          cfg.Pricing.CacheTTL,
		CacheSize:         cfg.Pricing.CacheSize,
		MaxRetries:        cfg.Pricing.MaxRetries,
		RequestsPerSecond: cfg.Pricing.RequestsPerSecond,
	}, apiLogRepo)
	planService := plans.NewService(pricingClient, planRepo, planCacheRepo, territoryRepo, cfg.Pricing.CacheTTL)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authService, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, authService)
	zipHandler := handlers.NewZIPHandler(resolver)
	planHandler := handlers.NewPlanHandler(planService)
	territoryHandler := handlers.NewTerritoryHandler(territoryRepo)
	providerHandler := handlers.NewProviderHandler(providerManager)
	apiLogHandler := handlers.NewAPILogHandler(apiLogRepo)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Health check (no authentication required)
		v1.GET("/health", healthHandler.Health)

		// Auth routes
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
		}

		// Public plan comparison routes
		v1.POST("/zip/validate", zipHandler.ValidateZIP)
		v1.GET("/plans", planHandler.ListPlans)
		v1.GET("/cities/:slug/availability", planHandler.CityAvailability)

		// Territory routes
		territories := v1.Group("/territories")
		{
			// Public routes (require authentication)
			territories.Use(authMiddleware.AuthRequired())
			territories.GET("", territoryHandler.ListTerritories)
			territories.GET("/:id", territoryHandler.GetTerritory)

			// Admin-only routes
			adminTerritories := territories.Group("")
			adminTerritories.Use(authMiddleware.AdminRequired())
			{
				adminTerritories.POST("", territoryHandler.CreateTerritory)
				adminTerritories.PUT("/:id", territoryHandler.UpdateTerritory)
				adminTerritories.DELETE("/:id", territoryHandler.DeleteTerritory)
			}
		}

		// Provider routes
		providers := v1.Group("/providers")
		providers.Use(authMiddleware.AuthRequired(), authMiddleware.AdminRequired())
		{
			providers.POST("/plans/refresh", providerHandler.TriggerPlanRefresh)
		}

		// Upstream API call logs
		logs := v1.Group("/logs")
		logs.Use(authMiddleware.AuthRequired(), authMiddleware.AdminRequired())
		{
			logs.GET("", apiLogHandler.ListAPILogs)
		}
	}

	return r
}

// buildGeocoder assembles the geographic fallback from the configured
// services. Returns nil when no service has credentials.
func buildGeocoder(cfg config.GeocodeConfig) territory.Geocoder {
	var services []geocode.Service
	if cfg.USPSToken != "" {
		services = append(services, geocode.NewUSPSService("", cfg.USPSToken, 0))
	}
	if cfg.ZipCodeAPIKey != "" {
		services = append(services, geocode.NewZipCodeAPIService("", cfg.ZipCodeAPIKey, 0))
	}
	if cfg.GeoNamesUser != "" {
		services = append(services, geocode.NewGeoNamesService("", cfg.GeoNamesUser, 0))
	}
	if len(services) == 0 {
		return nil
	}
	return geocode.NewRace(services...)
}
