package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"powermatch/internal/models"
	"powermatch/internal/repository"

	"golang.org/x/time/rate"
)

// Config holds pricing client settings
type Config struct {
	// BaseURL is the upstream plans endpoint
	BaseURL string
	// Timeout is the per-request timeout
	Timeout time.Duration
	// CacheTTL is the in-memory cache lifetime per key
	CacheTTL time.Duration
	// CacheSize caps the number of in-memory cache entries
	CacheSize int
	// MaxRetries is the number of retries after the initial attempt
	MaxRetries int
	// RequestsPerSecond throttles outbound calls to the upstream
	RequestsPerSecond float64
}

// Client fetches plans from the upstream pricing API with an in-process TTL
// cache, retry with backoff, and stale-if-error fallback.
type Client struct {
	baseURL    string
	client     *http.Client
	cache      *memoryCache
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	logRepo    repository.APILogRepository
}

// NewClient creates a pricing API client. logRepo may be nil; upstream calls
// are then not recorded.
func NewClient(cfg Config, logRepo repository.APILogRepository) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = 10
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		client:     &http.Client{Timeout: timeout},
		cache:      newMemoryCache(cfg.CacheTTL, cfg.CacheSize),
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)),
		maxRetries: maxRetries,
		backoff:    time.Second,
		logRepo:    logRepo,
	}
}

// FetchPlans returns the plans for the given parameters. Fresh cache entries
// are served without an outbound call; on upstream failure the last cached
// response for the key is served even if expired.
func (c *Client) FetchPlans(ctx context.Context, params Params) ([]models.Plan, error) {
	key := params.CacheKey()

	if plans, fresh, ok := c.cache.Get(key); ok && fresh {
		return plans, nil
	}

	plans, err := c.fetchWithRetry(ctx, params)
	if err != nil {
		if stale, _, ok := c.cache.Get(key); ok {
			log.Printf("Warning: serving stale plan cache for %s after upstream failure: %v", key, err)
			return stale, nil
		}
		return nil, err
	}

	c.cache.Set(key, plans)
	return plans, nil
}

// fetchWithRetry retries transport and server failures with increasing backoff
func (c *Client) fetchWithRetry(ctx context.Context, params Params) ([]models.Plan, error) {
	var lastErr error
	delay := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		plans, err := c.fetch(ctx, params)
		if err == nil {
			return plans, nil
		}
		lastErr = err
		log.Printf("Pricing API attempt %d failed: %v", attempt+1, err)
	}

	return nil, fmt.Errorf("pricing API failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) fetch(ctx context.Context, params Params) ([]models.Plan, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Values().Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logCall(params, 0, time.Since(start), err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		c.logCall(params, resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	var apiPlans []apiPlan
	if err := json.NewDecoder(resp.Body).Decode(&apiPlans); err != nil {
		c.logCall(params, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	c.logCall(params, resp.StatusCode, time.Since(start), nil)

	now := time.Now()
	plans := make([]models.Plan, 0, len(apiPlans))
	for _, p := range apiPlans {
		plans = append(plans, transformPlan(p, now))
	}
	return plans, nil
}

// logCall records the upstream call, best effort
func (c *Client) logCall(params Params, status int, duration time.Duration, callErr error) {
	if c.logRepo == nil {
		return
	}

	entry := &models.APICallLog{
		Endpoint:   c.baseURL,
		Params:     params.CacheKey(),
		StatusCode: status,
		DurationMS: duration.Milliseconds(),
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.logRepo.Create(ctx, entry); err != nil {
		log.Printf("Failed to record API call log: %v", err)
	}
}

// CacheLen reports the number of in-memory cache entries
func (c *Client) CacheLen() int {
	return c.cache.Len()
}
