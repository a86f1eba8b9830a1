// Package geocode looks up city and coordinates for ZIP codes via external services
package geocode

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

var (
	// ErrNotFound indicates the service has no record for the ZIP
	ErrNotFound = errors.New("zip code not found")
	// ErrOutOfState indicates the service resolved the ZIP outside Texas
	ErrOutOfState = errors.New("zip code is not in Texas")
	// ErrAllServicesFailed indicates no service produced a usable result
	ErrAllServicesFailed = errors.New("all geocoding services failed")
)

// Result is a normalized geocoding response
type Result struct {
	ZIPCode string
	City    string
	State   string
	Lat     float64
	Lon     float64
	Source  string
}

// Service is a single external geocoding collaborator
type Service interface {
	Name() string
	Lookup(ctx context.Context, zipCode string) (*Result, error)
}

// newHTTPClient returns the client used by all geocoding services
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Race queries all services concurrently and accepts the first success.
// Individual failures do not cancel the race; only when every service has
// failed does Lookup return an error.
type Race struct {
	services []Service
}

// NewRace creates a race over the given services
func NewRace(services ...Service) *Race {
	return &Race{services: services}
}

type raceOutcome struct {
	result *Result
	err    error
	source string
}

// Lookup resolves a ZIP via the first service to return an in-state result
func (r *Race) Lookup(ctx context.Context, zipCode string) (*Result, error) {
	if len(r.services) == 0 {
		return nil, ErrAllServicesFailed
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make(chan raceOutcome, len(r.services))
	for _, svc := range r.services {
		go func(svc Service) {
			result, err := svc.Lookup(ctx, zipCode)
			outcomes <- raceOutcome{result: result, err: err, source: svc.Name()}
		}(svc)
	}

	// A "definitive" failure means a service answered and the ZIP has no
	// usable Texas record; transport failures are not definitive.
	definitive := 0
	var lastErr error
	for i := 0; i < len(r.services); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case o := <-outcomes:
			if o.err != nil {
				log.Printf("Geocoding service %s failed for %s: %v", o.source, zipCode, o.err)
				if errors.Is(o.err, ErrNotFound) || errors.Is(o.err, ErrOutOfState) {
					definitive++
				}
				lastErr = o.err
				continue
			}
			if o.result == nil || o.result.City == "" {
				definitive++
				lastErr = ErrNotFound
				continue
			}
			return o.result, nil
		}
	}

	if definitive > 0 {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, lastErr)
	}
	return nil, fmt.Errorf("%w: %v", ErrAllServicesFailed, lastErr)
}
