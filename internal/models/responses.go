package models

// LoginResponse represents the response to a successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}
