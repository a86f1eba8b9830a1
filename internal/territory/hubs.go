package territory

import (
	"math"
	"strings"

	"powermatch/internal/models"
)

// Hub is one of the known market hub cities that geographic fallback maps to
type Hub struct {
	Slug     string
	Name     string
	Lat      float64
	Lon      float64
	TDSPName string
	TDSPDUNS string
	Zone     models.MarketZone
	// Keywords are suburb and metro-area names that default to this hub
	Keywords []string
}

var hubs = []Hub{
	{Slug: "houston", Name: "Houston", Lat: 29.7604, Lon: -95.3698, TDSPName: "CenterPoint Energy", TDSPDUNS: DUNSCenterPoint, Zone: models.MarketZoneCoast,
		Keywords: []string{"katy", "sugar land", "pearland", "spring", "cypress", "humble", "pasadena", "baytown", "league city", "the woodlands", "tomball", "missouri city"}},
	{Slug: "dallas", Name: "Dallas", Lat: 32.7767, Lon: -96.7970, TDSPName: "Oncor", TDSPDUNS: DUNSOncor, Zone: models.MarketZoneNorth,
		Keywords: []string{"richardson", "mesquite", "carrollton", "addison", "desoto", "duncanville"}},
	{Slug: "fort-worth", Name: "Fort Worth", Lat: 32.7555, Lon: -97.3308, TDSPName: "Oncor", TDSPDUNS: DUNSOncor, Zone: models.MarketZoneNorth,
		Keywords: []string{"keller", "burleson", "haltom city", "north richland hills"}},
	{Slug: "arlington", Name: "Arlington", Lat: 32.7357, Lon: -97.1081, TDSPName: "Oncor", TDSPDUNS: DUNSOncor, Zone: models.MarketZoneNorth,
		Keywords: []string{"grand prairie", "mansfield", "kennedale"}},
	{Slug: "plano", Name: "Plano", Lat: 33.0198, Lon: -96.6989, TDSPName: "Oncor", TDSPDUNS: DUNSOncor, Zone: models.MarketZoneNorth,
		Keywords: []string{"allen", "mckinney", "murphy", "wylie", "frisco"}},
	{Slug: "irving", Name: "Irving", Lat: 32.8140, Lon: -96.9489, TDSPName: "Oncor", TDSPDUNS: DUNSOncor, Zone: models.MarketZoneNorth,
		Keywords: []string{"coppell", "grapevine", "euless"}},
	{Slug: "corpus-christi", Name: "Corpus Christi", Lat: 27.8006, Lon: -97.3964, TDSPName: "AEP Texas Central", TDSPDUNS: DUNSAEPCentral, Zone: models.MarketZoneSouth,
		Keywords: []string{"portland", "ingleside", "robstown"}},
	{Slug: "laredo", Name: "Laredo", Lat: 27.5306, Lon: -99.4803, TDSPName: "AEP Texas Central", TDSPDUNS: DUNSAEPCentral, Zone: models.MarketZoneSouth},
	{Slug: "mcallen", Name: "McAllen", Lat: 26.2034, Lon: -98.2300, TDSPName: "AEP Texas Central", TDSPDUNS: DUNSAEPCentral, Zone: models.MarketZoneSouth,
		Keywords: []string{"edinburg", "mission", "pharr"}},
	{Slug: "harlingen", Name: "Harlingen", Lat: 26.1906, Lon: -97.6961, TDSPName: "AEP Texas Central", TDSPDUNS: DUNSAEPCentral, Zone: models.MarketZoneSouth,
		Keywords: []string{"san benito", "la feria"}},
	{Slug: "lubbock", Name: "Lubbock", Lat: 33.5779, Lon: -101.8552, TDSPName: "Oncor", TDSPDUNS: DUNSOncor, Zone: models.MarketZoneWest,
		Keywords: []string{"wolfforth"}},
	{Slug: "abilene", Name: "Abilene", Lat: 32.4487, Lon: -99.7331, TDSPName: "AEP Texas North", TDSPDUNS: DUNSAEPNorth, Zone: models.MarketZoneWest},
	{Slug: "midland", Name: "Midland", Lat: 31.9973, Lon: -102.0779, TDSPName: "Oncor", TDSPDUNS: DUNSOncor, Zone: models.MarketZoneWest},
	{Slug: "odessa", Name: "Odessa", Lat: 31.8457, Lon: -102.3676, TDSPName: "Oncor", TDSPDUNS: DUNSOncor, Zone: models.MarketZoneWest},
	{Slug: "waco", Name: "Waco", Lat: 31.5493, Lon: -97.1467, TDSPName: "Oncor", TDSPDUNS: DUNSOncor, Zone: models.MarketZoneCentral,
		Keywords: []string{"hewitt", "woodway"}},
	{Slug: "killeen", Name: "Killeen", Lat: 31.1171, Lon: -97.7278, TDSPName: "Oncor", TDSPDUNS: DUNSOncor, Zone: models.MarketZoneCentral,
		Keywords: []string{"temple", "harker heights", "copperas cove"}},
	{Slug: "tyler", Name: "Tyler", Lat: 32.3513, Lon: -95.3011, TDSPName: "Oncor", TDSPDUNS: DUNSOncor, Zone: models.MarketZoneNorth,
		Keywords: []string{"longview", "whitehouse"}},
}

// defaultHub is the largest market, used as the ultimate fallback
var defaultHub = hubs[0]

const (
	confidenceExact    = 95
	confidenceSub      = 85
	confidenceKeyword  = 70
	confidenceDefault  = 50
	maxHubDistanceMile = 200
)

const earthRadiusMiles = 3958.8

// greatCircleMiles computes the haversine distance between two points
func greatCircleMiles(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// MatchCity maps a geocoded city to a hub. Match order: exact name, substring,
// great-circle distance under the cutoff, suburb keyword, then the default
// market. The returned confidence is 50-95 so callers can decide whether to
// ask the user to confirm.
func MatchCity(city string, lat, lon float64) (Hub, int) {
	name := strings.ToLower(strings.TrimSpace(city))

	for _, h := range hubs {
		if name == strings.ToLower(h.Name) || name == h.Slug {
			return h, confidenceExact
		}
	}

	if name != "" {
		for _, h := range hubs {
			hubName := strings.ToLower(h.Name)
			if strings.Contains(name, hubName) || strings.Contains(hubName, name) {
				return h, confidenceSub
			}
		}
	}

	if lat != 0 || lon != 0 {
		best := -1
		bestDist := math.MaxFloat64
		for i, h := range hubs {
			d := greatCircleMiles(lat, lon, h.Lat, h.Lon)
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		if best >= 0 && bestDist <= maxHubDistanceMile {
			conf := 80 - int(bestDist/8)
			if conf < 55 {
				conf = 55
			}
			return hubs[best], conf
		}
	}

	for _, h := range hubs {
		for _, kw := range h.Keywords {
			if strings.Contains(name, kw) {
				return h, confidenceKeyword
			}
		}
	}

	return defaultHub, confidenceDefault
}
