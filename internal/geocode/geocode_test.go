package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	name   string
	result *Result
	err    error
	delay  time.Duration
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Lookup(ctx context.Context, zipCode string) (*Result, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.result, s.err
}

func TestRaceFirstSuccessWins(t *testing.T) {
	fast := &stubService{name: "fast", result: &Result{ZIPCode: "75201", City: "Dallas", State: "TX", Source: "fast"}}
	slow := &stubService{name: "slow", delay: time.Second, result: &Result{ZIPCode: "75201", City: "Houston", State: "TX", Source: "slow"}}

	race := NewRace(slow, fast)
	result, err := race.Lookup(context.Background(), "75201")
	require.NoError(t, err)
	assert.Equal(t, "Dallas", result.City)
	assert.Equal(t, "fast", result.Source)
}

func TestRaceSurvivesIndividualFailures(t *testing.T) {
	broken := &stubService{name: "broken", err: errors.New("connection refused")}
	working := &stubService{name: "working", delay: 20 * time.Millisecond, result: &Result{ZIPCode: "75201", City: "Dallas", State: "TX"}}

	race := NewRace(broken, working)
	result, err := race.Lookup(context.Background(), "75201")
	require.NoError(t, err)
	assert.Equal(t, "Dallas", result.City)
}

func TestRaceAllTransportFailures(t *testing.T) {
	race := NewRace(
		&stubService{name: "a", err: errors.New("timeout")},
		&stubService{name: "b", err: errors.New("refused")},
	)
	_, err := race.Lookup(context.Background(), "75201")
	assert.ErrorIs(t, err, ErrAllServicesFailed)
}

func TestRaceDefinitiveNotFound(t *testing.T) {
	// One service answered definitively, another was down: the ZIP is
	// treated as unknown, not as an outage.
	race := NewRace(
		&stubService{name: "a", err: ErrNotFound},
		&stubService{name: "b", err: errors.New("refused")},
	)
	_, err := race.Lookup(context.Background(), "99999")
	assert.ErrorIs(t, err, ErrNotFound)

	race = NewRace(&stubService{name: "a", err: ErrOutOfState})
	_, err = race.Lookup(context.Background(), "10001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRaceNoServices(t *testing.T) {
	_, err := NewRace().Lookup(context.Background(), "75201")
	assert.ErrorIs(t, err, ErrAllServicesFailed)
}

func TestZipCodeAPILookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-key/info.json/75201/degrees", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"zip_code": "75201", "city": "Dallas", "state": "TX", "lat": 32.78, "lng": -96.8}`))
	}))
	defer server.Close()

	svc := NewZipCodeAPIService(server.URL, "test-key", 0)
	result, err := svc.Lookup(context.Background(), "75201")
	require.NoError(t, err)
	assert.Equal(t, "Dallas", result.City)
	assert.InDelta(t, 32.78, result.Lat, 0.001)
	assert.Equal(t, "zipcodeapi", result.Source)
}

func TestZipCodeAPIOutOfState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"zip_code": "10001", "city": "New York", "state": "NY", "lat": 40.75, "lng": -73.99}`))
	}))
	defer server.Close()

	svc := NewZipCodeAPIService(server.URL, "test-key", 0)
	_, err := svc.Lookup(context.Background(), "10001")
	assert.ErrorIs(t, err, ErrOutOfState)
}

func TestZipCodeAPINotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewZipCodeAPIService(server.URL, "test-key", 0)
	_, err := svc.Lookup(context.Background(), "00000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUSPSLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "75201", r.URL.Query().Get("ZIPCode"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"city": "DALLAS", "state": "TX", "ZIPCode": "75201"}`))
	}))
	defer server.Close()

	svc := NewUSPSService(server.URL, "test-token", 0)
	result, err := svc.Lookup(context.Background(), "75201")
	require.NoError(t, err)
	assert.Equal(t, "DALLAS", result.City)
	assert.Zero(t, result.Lat, "USPS returns no coordinates")
}
