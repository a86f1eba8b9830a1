// Package testutil provides utilities for testing
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"powermatch/internal/auth"
	"powermatch/internal/config"
	"powermatch/internal/models"
	"powermatch/internal/repository"
	"powermatch/internal/repository/postgres"
	"powermatch/internal/testutil/db"
	"powermatch/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// LoadTestConfig loads the test configuration
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return db.LoadTestConfig(t)
}

// TestContext holds common test dependencies
type TestContext struct {
	T             *testing.T
	DB            *sql.DB
	Config        *config.Config
	UserRepo      repository.UserRepository
	TerritoryRepo repository.TerritoryRepository
	PlanRepo      repository.PlanRepository
	PlanCacheRepo repository.PlanCacheRepository
	ProviderRepo  repository.ProviderRepository
	APILogRepo    repository.APILogRepository
	AuthService   *auth.Service
}

// NewTestContext creates a new test context with all dependencies
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Initialize validators
	validation.Initialize()

	// Load test config
	cfg := LoadTestConfig(t)

	// Setup test database
	testDB := db.SetupTestDB(t, &cfg.Database)

	tc := &TestContext{
		T:             t,
		DB:            testDB,
		Config:        cfg,
		UserRepo:      postgres.NewUserRepository(testDB),
		TerritoryRepo: postgres.NewTerritoryRepository(testDB),
		PlanRepo:      postgres.NewPlanRepository(testDB),
		PlanCacheRepo: postgres.NewPlanCacheRepository(testDB),
		ProviderRepo:  postgres.NewProviderRepository(testDB),
		APILogRepo:    postgres.NewAPILogRepository(testDB),
		AuthService:   auth.NewService(cfg),
	}

	// Register cleanup function
	t.Cleanup(func() {
		tc.cleanup()
	})

	return tc
}

// cleanup performs necessary cleanup after tests
func (tc *TestContext) cleanup() {
	if tc.DB != nil {
		if err := db.CleanupTestDB(tc.DB); err != nil {
			tc.T.Errorf("Failed to cleanup test database: %v", err)
		}
		tc.DB.Close()
	}
}

// CreateTestUser creates a test user with the given details and returns the created user
func (tc *TestContext) CreateTestUser(username, password string, isAdmin bool) *models.User {
	tc.T.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(tc.T, err, "Failed to hash password")

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
		IsAdmin:  isAdmin,
	}

	err = tc.UserRepo.Create(context.Background(), user)
	require.NoError(tc.T, err, "Failed to create test user")

	return user
}

// GetTestJWT generates a JWT token for testing
func (tc *TestContext) GetTestJWT(userID uuid.UUID) string {
	user, err := tc.UserRepo.GetByID(context.Background(), userID)
	require.NoError(tc.T, err, "Failed to get user")

	token, err := tc.AuthService.GenerateToken(user)
	require.NoError(tc.T, err, "Failed to generate test JWT")
	return token
}

// CreateTestTerritory creates a ZIP mapping and returns it
func (tc *TestContext) CreateTestTerritory(zipCode, citySlug, cityName, tdspName, tdspDUNS string, zone models.MarketZone) *models.ZIPCodeMapping {
	tc.T.Helper()

	mapping := &models.ZIPCodeMapping{
		ZIPCode:       zipCode,
		CitySlug:      citySlug,
		CityName:      cityName,
		TDSPName:      tdspName,
		TDSPDUNS:      tdspDUNS,
		IsDeregulated: true,
		MarketZone:    zone,
		Priority:      1.0,
		Source:        "admin",
		LastValidated: time.Now(),
	}

	err := tc.TerritoryRepo.Create(context.Background(), mapping)
	require.NoError(tc.T, err, "Failed to create test territory")

	return mapping
}
