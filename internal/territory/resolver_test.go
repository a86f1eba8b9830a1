package territory

import (
	"context"
	"errors"
	"testing"

	"powermatch/internal/geocode"
	"powermatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	result *geocode.Result
	err    error
	calls  int
}

func (f *fakeGeocoder) Lookup(ctx context.Context, zipCode string) (*geocode.Result, error) {
	f.calls++
	return f.result, f.err
}

func newTestResolver(t *testing.T, geocoder Geocoder) *Resolver {
	t.Helper()
	static, err := NewStaticMap()
	require.NoError(t, err)
	return NewResolver(static, nil, geocoder)
}

func TestResolveStaticHit(t *testing.T) {
	geocoder := &fakeGeocoder{}
	resolver := newTestResolver(t, geocoder)

	result := resolver.Resolve(context.Background(), "75201")
	require.NotNil(t, result.Resolution)
	assert.Equal(t, "dallas", result.Resolution.CitySlug)
	assert.Equal(t, DUNSOncor, result.Resolution.TDSPDUNS)
	assert.Equal(t, 100, result.Resolution.Confidence)
	assert.Equal(t, "/electricity-plans/dallas", result.Resolution.RedirectURL)
	assert.Equal(t, 0, geocoder.calls, "Static hits should never reach the geocoder")
}

func TestResolveDeterministicFailures(t *testing.T) {
	geocoder := &fakeGeocoder{}
	resolver := newTestResolver(t, geocoder)

	tests := []struct {
		name     string
		zipCode  string
		expected models.ZIPErrorCode
	}{
		{name: "malformed", zipCode: "abc", expected: models.ZIPErrorInvalidFormat},
		{name: "out of state", zipCode: "10001", expected: models.ZIPErrorNotTexas},
		{name: "municipal utility", zipCode: "78701", expected: models.ZIPErrorMunicipalUtility},
		{name: "cooperative", zipCode: "78620", expected: models.ZIPErrorCooperative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resolver.Resolve(context.Background(), tt.zipCode)
			assert.Nil(t, result.Resolution)
			assert.Equal(t, tt.expected, result.ErrorCode)
		})
	}
	assert.Equal(t, 0, geocoder.calls, "Deterministic failures should never reach the geocoder")
}

func TestResolveExclusionSuggestion(t *testing.T) {
	resolver := newTestResolver(t, nil)

	result := resolver.Resolve(context.Background(), "78701")
	require.Len(t, result.Suggestions, 1)
	assert.Contains(t, result.Suggestions[0], "Austin Energy")
}

func TestResolveNotDeregulated(t *testing.T) {
	resolver := newTestResolver(t, nil)

	result := resolver.Resolve(context.Background(), "79901")
	assert.Nil(t, result.Resolution)
	assert.Equal(t, models.ZIPErrorNotDeregulated, result.ErrorCode)
	require.Len(t, result.Suggestions, 1)
	assert.Contains(t, result.Suggestions[0], "El Paso Electric")
}

func TestResolveGeographicFallback(t *testing.T) {
	geocoder := &fakeGeocoder{result: &geocode.Result{
		ZIPCode: "75999",
		City:    "Dallas",
		State:   "TX",
	}}
	resolver := newTestResolver(t, geocoder)

	result := resolver.Resolve(context.Background(), "75999")
	require.NotNil(t, result.Resolution)
	assert.Equal(t, "dallas", result.Resolution.CitySlug)
	assert.Equal(t, confidenceExact, result.Resolution.Confidence)
	assert.Equal(t, "geocode", result.Resolution.Source)
	assert.Equal(t, 1, geocoder.calls)
}

func TestResolveGeographicLowConfidenceSuggestion(t *testing.T) {
	geocoder := &fakeGeocoder{result: &geocode.Result{
		ZIPCode: "75999",
		City:    "Nowhereville",
	}}
	resolver := newTestResolver(t, geocoder)

	result := resolver.Resolve(context.Background(), "75999")
	require.NotNil(t, result.Resolution)
	assert.Equal(t, defaultHub.Slug, result.Resolution.CitySlug)
	assert.Equal(t, confidenceDefault, result.Resolution.Confidence)
	assert.NotEmpty(t, result.Suggestions, "Low-confidence matches should ask the user to confirm")
}

func TestResolveGeocoderErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected models.ZIPErrorCode
	}{
		{name: "no record anywhere", err: geocode.ErrNotFound, expected: models.ZIPErrorNotFound},
		{name: "resolved out of state", err: geocode.ErrOutOfState, expected: models.ZIPErrorNotFound},
		{name: "all services down", err: geocode.ErrAllServicesFailed, expected: models.ZIPErrorAPIError},
		{name: "transport failure", err: errors.New("connection refused"), expected: models.ZIPErrorAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := newTestResolver(t, &fakeGeocoder{err: tt.err})
			result := resolver.Resolve(context.Background(), "75999")
			assert.Nil(t, result.Resolution)
			assert.Equal(t, tt.expected, result.ErrorCode)
		})
	}
}

func TestResolveWithoutGeocoder(t *testing.T) {
	resolver := newTestResolver(t, nil)

	result := resolver.Resolve(context.Background(), "75999")
	assert.Nil(t, result.Resolution)
	assert.Equal(t, models.ZIPErrorNotFound, result.ErrorCode)
}
