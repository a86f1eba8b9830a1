// Package server provides the HTTP server implementation
package server

// @title           PowerMatch API
// @version         1.0
// @description     Texas electricity plan comparison API with global rate limiting.
// @x-skip-model-definitions true
//
// @description.markdown
// All API endpoints are subject to rate limiting:
// * Default rate: 1000 requests per 60 seconds
// * Rate limits are applied per IP address and endpoint
//
// When rate limit is exceeded:
// * Status code 429 (Too Many Requests) is returned
// * Headers:
//   - X-RateLimit-Limit: Maximum requests allowed
//   - X-RateLimit-Reset: Unix timestamp when the rate limit resets
//   - Retry-After: Seconds to wait before retrying
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication
//
// @response 429 {object} models.ErrorResponse "Rate limit exceeded"

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"

	"powermatch/internal/api/routes"
	"powermatch/internal/config"
	"powermatch/internal/provider"
)

// Server represents the HTTP server
type Server struct {
	cfg     *config.Config
	db      *sql.DB
	manager *provider.Manager
}

// New creates a new server instance
func New(cfg *config.Config, db *sql.DB, manager *provider.Manager) *Server {
	return &Server{
		cfg:     cfg,
		db:      db,
		manager: manager,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	// Setup routes using the routes package
	router := routes.SetupRoutes(s.cfg, s.db, s.manager)

	// Convert port string to int
	port, err := strconv.Atoi(s.cfg.API.Port)
	if err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	// Start server
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting server on %s", addr)
	return router.Run(addr)
}
