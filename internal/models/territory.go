package models

import (
	"time"

	"github.com/google/uuid"
)

// MarketZone represents an ERCOT market zone
type MarketZone string

const (
	MarketZoneNorth   MarketZone = "North"
	MarketZoneCentral MarketZone = "Central"
	MarketZoneCoast   MarketZone = "Coast"
	MarketZoneSouth   MarketZone = "South"
	MarketZoneWest    MarketZone = "West"
)

// ZIPErrorCode enumerates the failure modes of ZIP resolution
type ZIPErrorCode string

const (
	ZIPErrorInvalidFormat    ZIPErrorCode = "INVALID_FORMAT"
	ZIPErrorNotTexas         ZIPErrorCode = "NOT_TEXAS"
	ZIPErrorNotFound         ZIPErrorCode = "NOT_FOUND"
	ZIPErrorNotDeregulated   ZIPErrorCode = "NOT_DEREGULATED"
	ZIPErrorMunicipalUtility ZIPErrorCode = "MUNICIPAL_UTILITY"
	ZIPErrorCooperative      ZIPErrorCode = "COOPERATIVE"
	ZIPErrorAPIError         ZIPErrorCode = "API_ERROR"
)

// ZIPCodeMapping represents a validated ZIP code to service territory mapping.
// There is exactly one active mapping per ZIP code.
type ZIPCodeMapping struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ZIPCode       string     `json:"zip_code" db:"zip_code" binding:"required,zipcode" example:"75201"`
	CitySlug      string     `json:"city_slug" db:"city_slug" binding:"required" example:"dallas"`
	CityName      string     `json:"city_name" db:"city_name" binding:"required" example:"Dallas"`
	County        string     `json:"county" db:"county" example:"Dallas"`
	TDSPName      string     `json:"tdsp_name" db:"tdsp_name" binding:"required" example:"Oncor"`
	TDSPDUNS      string     `json:"tdsp_duns" db:"tdsp_duns" binding:"required" example:"1039940674000"`
	IsDeregulated bool       `json:"is_deregulated" db:"is_deregulated"`
	MarketZone    MarketZone `json:"market_zone" db:"market_zone" example:"North"`
	Priority      float64    `json:"priority" db:"priority"`
	Source        string     `json:"source" db:"source" example:"seed"`
	LastValidated time.Time  `json:"last_validated" db:"last_validated"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// TDSPServiceTerritory represents a transmission/distribution utility territory
type TDSPServiceTerritory struct {
	DUNS          string     `json:"duns" db:"duns" example:"1039940674000"`
	Name          string     `json:"name" db:"name" example:"Oncor Electric Delivery"`
	Abbreviation  string     `json:"abbreviation" db:"abbreviation" example:"ONCOR"`
	MarketZone    MarketZone `json:"market_zone" db:"market_zone"`
	IsDeregulated bool       `json:"is_deregulated" db:"is_deregulated"`
}

// ZIPResolution is the successful outcome of resolving a ZIP code
type ZIPResolution struct {
	ZIPCode       string     `json:"zip_code"`
	CityName      string     `json:"city_name"`
	CitySlug      string     `json:"city_slug"`
	County        string     `json:"county,omitempty"`
	TDSPName      string     `json:"tdsp_name"`
	TDSPDUNS      string     `json:"tdsp_duns"`
	IsDeregulated bool       `json:"is_deregulated"`
	MarketZone    MarketZone `json:"market_zone,omitempty"`
	// Confidence is 100 for static map hits, 50-95 for geographic fallback
	Confidence  int    `json:"confidence"`
	Source      string `json:"source" example:"static"`
	RedirectURL string `json:"redirect_url,omitempty" example:"/electricity-plans/dallas"`
}

// ValidateZIPRequest represents a ZIP validation request. Format checks are
// left to the resolver so malformed ZIPs get a structured error code instead
// of a bare 400.
type ValidateZIPRequest struct {
	ZIPCode string `json:"zip_code" binding:"required" example:"75201"`
}

// ZIPValidationResponse is returned by the ZIP validation endpoint
type ZIPValidationResponse struct {
	IsValid       bool                  `json:"is_valid"`
	IsTexas       bool                  `json:"is_texas"`
	IsDeregulated bool                  `json:"is_deregulated"`
	CityData      *ZIPResolution        `json:"city_data,omitempty"`
	TDSPData      *TDSPServiceTerritory `json:"tdsp_data,omitempty"`
	ErrorCode     ZIPErrorCode          `json:"error_code,omitempty"`
	Suggestions   []string              `json:"suggestions,omitempty"`
}

// CityPlansAvailability reports whether plans can be served for a city
type CityPlansAvailability struct {
	PlansAvailable bool   `json:"plans_available"`
	PlanCount      *int   `json:"plan_count,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// CreateTerritoryRequest represents the request to create a ZIP mapping
type CreateTerritoryRequest struct {
	ZIPCode       string     `json:"zip_code" binding:"required,zipcode" example:"75201"`
	CitySlug      string     `json:"city_slug" binding:"required" example:"dallas"`
	CityName      string     `json:"city_name" binding:"required" example:"Dallas"`
	County        string     `json:"county" example:"Dallas"`
	TDSPName      string     `json:"tdsp_name" binding:"required" example:"Oncor"`
	TDSPDUNS      string     `json:"tdsp_duns" binding:"required" example:"1039940674000"`
	IsDeregulated bool       `json:"is_deregulated"`
	MarketZone    MarketZone `json:"market_zone" binding:"required" example:"North"`
	Priority      float64    `json:"priority"`
}

// UpdateTerritoryRequest represents the request to update a ZIP mapping
type UpdateTerritoryRequest struct {
	CitySlug      string     `json:"city_slug" binding:"required"`
	CityName      string     `json:"city_name" binding:"required"`
	County        string     `json:"county"`
	TDSPName      string     `json:"tdsp_name" binding:"required"`
	TDSPDUNS      string     `json:"tdsp_duns" binding:"required"`
	IsDeregulated bool       `json:"is_deregulated"`
	MarketZone    MarketZone `json:"market_zone" binding:"required"`
	Priority      float64    `json:"priority"`
}
