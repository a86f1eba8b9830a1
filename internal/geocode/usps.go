package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const uspsDefaultBaseURL = "https://api.usps.com/addresses/v3/city-state"

// USPSService resolves ZIP codes through the USPS city/state lookup
type USPSService struct {
	baseURL string
	userID  string
	client  *http.Client
}

// NewUSPSService creates a USPS geocoding service
func NewUSPSService(baseURL, userID string, timeout time.Duration) *USPSService {
	if baseURL == "" {
		baseURL = uspsDefaultBaseURL
	}
	return &USPSService{
		baseURL: baseURL,
		userID:  userID,
		client:  newHTTPClient(timeout),
	}
}

// Name returns the service identifier
func (s *USPSService) Name() string {
	return "usps"
}

type uspsResponse struct {
	City  string `json:"city"`
	State string `json:"state"`
	ZIP   string `json:"ZIPCode"`
}

// Lookup resolves a ZIP to a city/state pair. USPS returns no coordinates;
// hub matching for USPS results relies on name and keyword matching only.
func (s *USPSService) Lookup(ctx context.Context, zipCode string) (*Result, error) {
	params := url.Values{}
	params.Add("ZIPCode", zipCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", s.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if s.userID != "" {
		req.Header.Set("Authorization", "Bearer "+s.userID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body uspsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if body.City == "" {
		return nil, ErrNotFound
	}
	if body.State != "TX" {
		return nil, ErrOutOfState
	}

	return &Result{
		ZIPCode: zipCode,
		City:    body.City,
		State:   body.State,
		Source:  s.Name(),
	}, nil
}
