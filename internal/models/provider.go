package models

import (
	"time"

	"github.com/google/uuid"
)

// RetailProvider represents a retail electric provider (REP).
// PUCTNumber is the provider's regulatory license number and is unique.
type RetailProvider struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name" example:"Gexa Energy"`
	PUCTNumber string    `json:"puct_number" db:"puct_number" example:"10027"`
	LogoURL    string    `json:"logo_url,omitempty" db:"logo_url"`
	Rating     float64   `json:"rating,omitempty" db:"rating"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// APICallLog records a call to the upstream pricing API
type APICallLog struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Endpoint   string    `json:"endpoint" db:"endpoint"`
	Params     string    `json:"params" db:"params"`
	StatusCode int       `json:"status_code" db:"status_code"`
	DurationMS int64     `json:"duration_ms" db:"duration_ms"`
	Error      string    `json:"error,omitempty" db:"error"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
