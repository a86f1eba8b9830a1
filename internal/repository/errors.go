package repository

import "errors"

var (
	// Common errors
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Territory errors
	ErrTerritoryNotFound = errors.New("territory not found")
	ErrTerritoryExists   = errors.New("territory already exists")
	ErrInvalidMarketZone = errors.New("invalid market zone")

	// Cache errors
	ErrCacheExpired = errors.New("cache entry expired")

	// User errors
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
)
