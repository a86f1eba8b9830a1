package config

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"powermatch/internal/provider"

	_ "github.com/lib/pq"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Auth contains authentication configuration
	Auth AuthConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Pricing contains upstream pricing API configuration
	Pricing PricingConfig
	// Geocode contains geocoding fallback configuration
	Geocode GeocodeConfig

	// Rate Limiting Configuration
	RateLimit struct {
		Requests int `json:"requests"` // Number of requests allowed per window
		Window   int `json:"window"`   // Time window in seconds
	}

	DB       *sql.DB                    `json:"-"` // Connection pool, not serialized
	Provider map[string]provider.Config `json:"providers"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string
	// Port is the database server port
	Port int
	// User is the database username
	User string
	// Password is the database password
	Password string
	// DBName is the database name
	DBName string
	// SSLMode is the SSL mode for the database connection
	SSLMode string
	// MigrationsPath is the path to database migrations
	MigrationsPath string
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	// JWTSecret is the secret key used to sign JWT tokens
	JWTSecret string
	// JWTExpiration is the JWT token expiration time in hours
	JWTExpiration int
}

// PricingConfig contains upstream pricing API settings
type PricingConfig struct {
	// BaseURL is the upstream plans endpoint
	BaseURL string
	// CacheTTL is the plan cache lifetime
	CacheTTL time.Duration
	// CacheSize caps the in-memory cache entry count
	CacheSize int
	// MaxRetries is the number of retries per upstream call
	MaxRetries int
	// RequestsPerSecond throttles outbound calls
	RequestsPerSecond float64
	// TDSPs lists the DUNS numbers covered by scheduled refresh
	TDSPs []string
}

// GeocodeConfig contains geocoding service settings
type GeocodeConfig struct {
	// USPSToken is the OAuth bearer token for the USPS address API
	USPSToken string
	// ZipCodeAPIKey is the zipcodeapi.com API key
	ZipCodeAPIKey string
	// GeoNamesUser is the GeoNames account username
	GeoNamesUser string
}

// Load reads the configuration from a file and establishes database connection
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Create database connection string
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	// Open database connection
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cfg.DB = db
	return &cfg, nil
}

// Close releases any resources held by the configuration
func (c *Config) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port: getEnvOrDefault("API_PORT", "8080"),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "powermatch"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: "migrations",
	}
	c.Auth = AuthConfig{
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
	}
	c.Pricing = PricingConfig{
		BaseURL:           getEnvOrDefault("PRICING_API_URL", "https://pricing.api.powertochoose.dev/api/plans/current"),
		CacheTTL:          time.Duration(getEnvAsInt("PRICING_CACHE_TTL_SECONDS", 3600)) * time.Second,
		CacheSize:         getEnvAsInt("PRICING_CACHE_SIZE", 100),
		MaxRetries:        getEnvAsInt("PRICING_MAX_RETRIES", 3),
		RequestsPerSecond: float64(getEnvAsInt("PRICING_RPS", 10)),
		TDSPs:             getEnvAsList("PRICING_TDSPS", nil),
	}
	c.Geocode = GeocodeConfig{
		USPSToken:     os.Getenv("USPS_TOKEN"),
		ZipCodeAPIKey: os.Getenv("ZIPCODEAPI_KEY"),
		GeoNamesUser:  os.Getenv("GEONAMES_USER"),
	}

	// Initialize provider configuration
	c.Provider = make(map[string]provider.Config)
	c.Provider["plans"] = provider.Config{
		Enabled:        getEnvAsBool("ENABLE_PLAN_REFRESH", false),
		Schedule:       getEnvOrDefault("PLAN_REFRESH_SCHEDULE", "0 * * * *"),
		SupportedTDSPs: c.Pricing.TDSPs,
	}

	// Load rate limit configuration
	c.RateLimit.Requests = getEnvAsInt("RATE_LIMIT_REQUESTS", 1000)
	c.RateLimit.Window = getEnvAsInt("RATE_LIMIT_WINDOW", 60)

	// Validate required fields
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsBool retrieves an environment variable and converts it to a boolean
func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvAsList retrieves a comma-separated environment variable
func getEnvAsList(key string, defaultVal []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
