package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plansJSON = `[
	{
		"_id": "plan-1",
		"product": {
			"name": "Eco Saver 12",
			"term_value": 12,
			"rate_type": "fixed",
			"percent_green": 100,
			"brand": {"name": "Gexa Energy", "puct_number": "10027"}
		},
		"tdsp": {"duns_number": "1039940674000", "name": "Oncor"},
		"display_pricing_1000": {"usage": 1000, "avg": 0.129, "total": 129.00}
	}
]`

func newTestClient(baseURL string) *Client {
	c := NewClient(Config{
		BaseURL:           baseURL,
		CacheTTL:          time.Hour,
		CacheSize:         10,
		MaxRetries:        2,
		RequestsPerSecond: 1000,
	}, nil)
	c.backoff = time.Millisecond
	return c
}

func TestFetchPlans(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "1039940674000", r.URL.Query().Get("tdsp_duns"))
		assert.Equal(t, "1000", r.URL.Query().Get("display_usage"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(plansJSON))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	params := Params{TDSPDUNS: "1039940674000", DisplayUsage: 1000}

	plans, err := client.FetchPlans(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "plan-1", plans[0].ExternalID)
	assert.Equal(t, "Gexa Energy", plans[0].ProviderName)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchPlansCacheHit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(plansJSON))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	params := Params{TDSPDUNS: "1039940674000", DisplayUsage: 1000}

	_, err := client.FetchPlans(context.Background(), params)
	require.NoError(t, err)
	_, err = client.FetchPlans(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "Fresh cache should skip the network")
	assert.Equal(t, 1, client.CacheLen())

	// Different usage tier is a different cache key
	_, err = client.FetchPlans(context.Background(), Params{TDSPDUNS: "1039940674000", DisplayUsage: 2000})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchPlansRetriesThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(plansJSON))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	plans, err := client.FetchPlans(context.Background(), Params{TDSPDUNS: "1039940674000", DisplayUsage: 1000})
	require.NoError(t, err)
	assert.Len(t, plans, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchPlansExhaustsRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchPlans(context.Background(), Params{TDSPDUNS: "1039940674000", DisplayUsage: 1000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 502")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "Initial attempt plus two retries")
}

func TestFetchPlansStaleIfError(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(plansJSON))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	params := Params{TDSPDUNS: "1039940674000", DisplayUsage: 1000}

	_, err := client.FetchPlans(context.Background(), params)
	require.NoError(t, err)

	// Expire the cached entry, then break the upstream
	client.cache.mu.Lock()
	client.cache.entries[params.CacheKey()].expiresAt = time.Now().Add(-time.Minute)
	client.cache.mu.Unlock()
	fail.Store(true)

	plans, err := client.FetchPlans(context.Background(), params)
	require.NoError(t, err, "Stale cache should mask an upstream outage")
	assert.Len(t, plans, 1)
}

func TestFetchPlansDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchPlans(context.Background(), Params{TDSPDUNS: "1039940674000", DisplayUsage: 1000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestFetchPlansContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.backoff = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchPlans(ctx, Params{TDSPDUNS: "1039940674000", DisplayUsage: 1000})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
