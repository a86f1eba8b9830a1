package territory

import (
	"context"
	"errors"
	"fmt"
	"log"

	"powermatch/internal/geocode"
	"powermatch/internal/models"
	"powermatch/internal/repository"
)

// Geocoder is the geographic fallback collaborator, satisfied by geocode.Race
type Geocoder interface {
	Lookup(ctx context.Context, zipCode string) (*geocode.Result, error)
}

// Result is the outcome of resolving a ZIP code. Exactly one of Resolution or
// ErrorCode is meaningful.
type Result struct {
	Resolution  *models.ZIPResolution
	ErrorCode   models.ZIPErrorCode
	Suggestions []string
}

// Resolver resolves ZIP codes to deregulated service territories. Lookup order:
// format/range checks, exclusion table, database mappings (when a repository is
// configured), the embedded static map, then geographic fallback.
type Resolver struct {
	static   *StaticMap
	repo     repository.TerritoryRepository
	geocoder Geocoder
}

// NewResolver creates a resolver. repo and geocoder may be nil; resolution then
// stops at the static map.
func NewResolver(static *StaticMap, repo repository.TerritoryRepository, geocoder Geocoder) *Resolver {
	return &Resolver{
		static:   static,
		repo:     repo,
		geocoder: geocoder,
	}
}

// Resolve resolves a 5-digit ZIP code. Format and range failures are
// deterministic and never touch the network.
func (r *Resolver) Resolve(ctx context.Context, zipCode string) *Result {
	if code := Validate(zipCode); code != "" {
		return &Result{ErrorCode: code}
	}

	if exclusion, ok := LookupExclusion(zipCode); ok {
		return &Result{
			ErrorCode:   exclusion.ErrorCode(),
			Suggestions: []string{exclusion.Suggestion()},
		}
	}

	if mapping, ok := r.lookupMapping(ctx, zipCode); ok {
		return r.resultFromMapping(mapping)
	}

	return r.resolveGeographic(ctx, zipCode)
}

// lookupMapping consults the database first so admin edits win over the seed
func (r *Resolver) lookupMapping(ctx context.Context, zipCode string) (models.ZIPCodeMapping, bool) {
	if r.repo != nil {
		mapping, err := r.repo.GetByZIP(ctx, zipCode)
		if err == nil {
			return *mapping, true
		}
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("Territory lookup failed for %s, falling back to static map: %v", zipCode, err)
		}
	}

	mapping, ok := r.static.Lookup(zipCode)
	return mapping, ok
}

func (r *Resolver) resultFromMapping(mapping models.ZIPCodeMapping) *Result {
	if !mapping.IsDeregulated {
		return &Result{
			ErrorCode: models.ZIPErrorNotDeregulated,
			Suggestions: []string{
				fmt.Sprintf("Electric service in %s is provided by %s and is not open to retail choice.", mapping.CityName, mapping.TDSPName),
			},
		}
	}

	return &Result{
		Resolution: &models.ZIPResolution{
			ZIPCode:       mapping.ZIPCode,
			CityName:      mapping.CityName,
			CitySlug:      mapping.CitySlug,
			County:        mapping.County,
			TDSPName:      mapping.TDSPName,
			TDSPDUNS:      mapping.TDSPDUNS,
			IsDeregulated: true,
			MarketZone:    mapping.MarketZone,
			Confidence:    100,
			Source:        mapping.Source,
			RedirectURL:   redirectURL(mapping.CitySlug),
		},
	}
}

// resolveGeographic races the external geocoders and maps the winning city to
// the nearest known hub.
func (r *Resolver) resolveGeographic(ctx context.Context, zipCode string) *Result {
	if r.geocoder == nil {
		return &Result{ErrorCode: models.ZIPErrorNotFound}
	}

	geo, err := r.geocoder.Lookup(ctx, zipCode)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) || errors.Is(err, geocode.ErrOutOfState) {
			return &Result{ErrorCode: models.ZIPErrorNotFound}
		}
		log.Printf("Geographic fallback failed for %s: %v", zipCode, err)
		return &Result{ErrorCode: models.ZIPErrorAPIError}
	}

	hub, confidence := MatchCity(geo.City, geo.Lat, geo.Lon)

	result := &Result{
		Resolution: &models.ZIPResolution{
			ZIPCode:       zipCode,
			CityName:      hub.Name,
			CitySlug:      hub.Slug,
			TDSPName:      hub.TDSPName,
			TDSPDUNS:      hub.TDSPDUNS,
			IsDeregulated: true,
			MarketZone:    hub.Zone,
			Confidence:    confidence,
			Source:        "geocode",
			RedirectURL:   redirectURL(hub.Slug),
		},
	}
	if confidence < confidenceSub {
		result.Suggestions = []string{
			fmt.Sprintf("We matched %s to the %s area. Please confirm this is your service area.", zipCode, hub.Name),
		}
	}
	return result
}

func redirectURL(citySlug string) string {
	return "/electricity-plans/" + citySlug
}
