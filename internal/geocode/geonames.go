package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const geoNamesDefaultBaseURL = "http://api.geonames.org/postalCodeSearchJSON"

// GeoNamesService resolves ZIP codes through the GeoNames postal code search
type GeoNamesService struct {
	baseURL  string
	username string
	client   *http.Client
}

// NewGeoNamesService creates a GeoNames geocoding service
func NewGeoNamesService(baseURL, username string, timeout time.Duration) *GeoNamesService {
	if baseURL == "" {
		baseURL = geoNamesDefaultBaseURL
	}
	return &GeoNamesService{
		baseURL:  baseURL,
		username: username,
		client:   newHTTPClient(timeout),
	}
}

// Name returns the service identifier
func (s *GeoNamesService) Name() string {
	return "geonames"
}

type geoNamesResponse struct {
	PostalCodes []struct {
		PlaceName  string  `json:"placeName"`
		AdminCode1 string  `json:"adminCode1"`
		Lat        float64 `json:"lat"`
		Lng        float64 `json:"lng"`
	} `json:"postalCodes"`
}

// Lookup resolves a ZIP through the GeoNames postal code search. Only results
// with adminCode1 == TX are accepted.
func (s *GeoNamesService) Lookup(ctx context.Context, zipCode string) (*Result, error) {
	params := url.Values{}
	params.Add("postalcode", zipCode)
	params.Add("country", "US")
	params.Add("maxRows", "1")
	params.Add("username", s.username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", s.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body geoNamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(body.PostalCodes) == 0 {
		return nil, ErrNotFound
	}
	pc := body.PostalCodes[0]
	if pc.AdminCode1 != "TX" {
		return nil, ErrOutOfState
	}

	return &Result{
		ZIPCode: zipCode,
		City:    pc.PlaceName,
		State:   "TX",
		Lat:     pc.Lat,
		Lon:     pc.Lng,
		Source:  s.Name(),
	}, nil
}
