package models

import "time"

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status   string    `json:"status" example:"healthy"`
	Database string    `json:"database" example:"up"`
	Time     time.Time `json:"time" example:"2026-03-20T13:00:00Z"`
}
