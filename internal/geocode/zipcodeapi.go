package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const zipCodeAPIDefaultBaseURL = "https://www.zipcodeapi.com/rest"

// ZipCodeAPIService resolves ZIP codes through zipcodeapi.com
type ZipCodeAPIService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewZipCodeAPIService creates a ZipCodeAPI geocoding service
func NewZipCodeAPIService(baseURL, apiKey string, timeout time.Duration) *ZipCodeAPIService {
	if baseURL == "" {
		baseURL = zipCodeAPIDefaultBaseURL
	}
	return &ZipCodeAPIService{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  newHTTPClient(timeout),
	}
}

// Name returns the service identifier
func (s *ZipCodeAPIService) Name() string {
	return "zipcodeapi"
}

type zipCodeAPIResponse struct {
	ZipCode string  `json:"zip_code"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Lookup resolves a ZIP to city and coordinates
func (s *ZipCodeAPIService) Lookup(ctx context.Context, zipCode string) (*Result, error) {
	reqURL := fmt.Sprintf("%s/%s/info.json/%s/degrees", s.baseURL, s.apiKey, zipCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
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

	var body zipCodeAPIResponse
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
		Lat:     body.Lat,
		Lon:     body.Lng,
		Source:  s.Name(),
	}, nil
}
