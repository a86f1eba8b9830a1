package territory

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"powermatch/internal/models"

	"github.com/google/uuid"
)

// TDSP DUNS numbers for the Texas transmission utilities
const (
	DUNSOncor       = "1039940674000"
	DUNSCenterPoint = "957877905"
	DUNSAEPCentral  = "007924772"
	DUNSAEPNorth    = "007923311"
	DUNSTNMP        = "007929441"
)

//go:embed zip_mappings.json
var seedData []byte

type staticEntry struct {
	ZIPCode       string            `json:"zip_code"`
	CitySlug      string            `json:"city_slug"`
	CityName      string            `json:"city_name"`
	County        string            `json:"county"`
	TDSPName      string            `json:"tdsp_name"`
	TDSPDUNS      string            `json:"tdsp_duns"`
	IsDeregulated bool              `json:"is_deregulated"`
	MarketZone    models.MarketZone `json:"market_zone"`
	Priority      float64           `json:"priority"`
}

// StaticMap is the in-memory ZIP to territory lookup table
type StaticMap struct {
	byZIP map[string]models.ZIPCodeMapping
}

// NewStaticMap loads the embedded seed dataset
func NewStaticMap() (*StaticMap, error) {
	return parseStaticMap(seedData, "seed")
}

// NewStaticMapFromFile loads a ZIP mapping dataset from disk, allowing
// deployments to override the embedded seed.
func NewStaticMapFromFile(path string) (*StaticMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip mapping file: %w", err)
	}
	return parseStaticMap(data, path)
}

func parseStaticMap(data []byte, source string) (*StaticMap, error) {
	var entries []staticEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse zip mappings: %w", err)
	}

	byZIP := make(map[string]models.ZIPCodeMapping, len(entries))
	now := time.Now()
	for _, e := range entries {
		if _, exists := byZIP[e.ZIPCode]; exists {
			return nil, fmt.Errorf("duplicate zip mapping for %s", e.ZIPCode)
		}
		byZIP[e.ZIPCode] = models.ZIPCodeMapping{
			ID:            uuid.New(),
			ZIPCode:       e.ZIPCode,
			CitySlug:      e.CitySlug,
			CityName:      e.CityName,
			County:        e.County,
			TDSPName:      e.TDSPName,
			TDSPDUNS:      e.TDSPDUNS,
			IsDeregulated: e.IsDeregulated,
			MarketZone:    e.MarketZone,
			Priority:      e.Priority,
			Source:        source,
			LastValidated: now,
		}
	}

	return &StaticMap{byZIP: byZIP}, nil
}

// Lookup returns the mapping for a ZIP code, if present
func (m *StaticMap) Lookup(zipCode string) (models.ZIPCodeMapping, bool) {
	mapping, ok := m.byZIP[zipCode]
	return mapping, ok
}

// Mappings returns all loaded mappings ordered by ZIP code
func (m *StaticMap) Mappings() []models.ZIPCodeMapping {
	mappings := make([]models.ZIPCodeMapping, 0, len(m.byZIP))
	for _, mapping := range m.byZIP {
		mappings = append(mappings, mapping)
	}
	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].ZIPCode < mappings[j].ZIPCode
	})
	return mappings
}

// Len returns the number of mappings loaded
func (m *StaticMap) Len() int {
	return len(m.byZIP)
}
