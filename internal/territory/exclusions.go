package territory

import (
	"fmt"

	"powermatch/internal/models"
)

// ExclusionKind distinguishes why a ZIP is outside the competitive market
type ExclusionKind string

const (
	ExclusionMunicipal   ExclusionKind = "municipal"
	ExclusionCooperative ExclusionKind = "cooperative"
)

// Exclusion describes a ZIP served by a municipal utility or electric
// cooperative where retail choice does not apply.
type Exclusion struct {
	Utility string
	Kind    ExclusionKind
	Phone   string
}

// ErrorCode returns the resolution error code for this exclusion
func (e Exclusion) ErrorCode() models.ZIPErrorCode {
	if e.Kind == ExclusionCooperative {
		return models.ZIPErrorCooperative
	}
	return models.ZIPErrorMunicipalUtility
}

// Suggestion returns a human contact suggestion for the serving utility
func (e Exclusion) Suggestion() string {
	if e.Phone != "" {
		return fmt.Sprintf("This area is served by %s. Contact them at %s to start service.", e.Utility, e.Phone)
	}
	return fmt.Sprintf("This area is served by %s. Contact them directly to start service.", e.Utility)
}

// exclusions lists ZIP codes known to be served by municipal utilities or
// cooperatives. Checked before the static map so these never resolve as
// deregulated territory.
var exclusions = map[string]Exclusion{
	// Austin Energy (municipal)
	"78701": {Utility: "Austin Energy", Kind: ExclusionMunicipal, Phone: "512-494-9400"},
	"78702": {Utility: "Austin Energy", Kind: ExclusionMunicipal, Phone: "512-494-9400"},
	"78703": {Utility: "Austin Energy", Kind: ExclusionMunicipal, Phone: "512-494-9400"},
	"78704": {Utility: "Austin Energy", Kind: ExclusionMunicipal, Phone: "512-494-9400"},
	"78705": {Utility: "Austin Energy", Kind: ExclusionMunicipal, Phone: "512-494-9400"},
	"78723": {Utility: "Austin Energy", Kind: ExclusionMunicipal, Phone: "512-494-9400"},
	"78745": {Utility: "Austin Energy", Kind: ExclusionMunicipal, Phone: "512-494-9400"},
	"78751": {Utility: "Austin Energy", Kind: ExclusionMunicipal, Phone: "512-494-9400"},
	// CPS Energy, San Antonio (municipal)
	"78201": {Utility: "CPS Energy", Kind: ExclusionMunicipal, Phone: "210-353-2222"},
	"78202": {Utility: "CPS Energy", Kind: ExclusionMunicipal, Phone: "210-353-2222"},
	"78205": {Utility: "CPS Energy", Kind: ExclusionMunicipal, Phone: "210-353-2222"},
	"78209": {Utility: "CPS Energy", Kind: ExclusionMunicipal, Phone: "210-353-2222"},
	"78210": {Utility: "CPS Energy", Kind: ExclusionMunicipal, Phone: "210-353-2222"},
	"78212": {Utility: "CPS Energy", Kind: ExclusionMunicipal, Phone: "210-353-2222"},
	// Garland Power & Light (municipal)
	"75040": {Utility: "Garland Power & Light", Kind: ExclusionMunicipal, Phone: "972-205-2671"},
	"75041": {Utility: "Garland Power & Light", Kind: ExclusionMunicipal, Phone: "972-205-2671"},
	"75042": {Utility: "Garland Power & Light", Kind: ExclusionMunicipal, Phone: "972-205-2671"},
	// Denton Municipal Electric
	"76201": {Utility: "Denton Municipal Electric", Kind: ExclusionMunicipal, Phone: "940-349-8700"},
	"76205": {Utility: "Denton Municipal Electric", Kind: ExclusionMunicipal, Phone: "940-349-8700"},
	// Bryan Texas Utilities / College Station Utilities (municipal)
	"77801": {Utility: "Bryan Texas Utilities", Kind: ExclusionMunicipal, Phone: "979-821-5700"},
	"77840": {Utility: "College Station Utilities", Kind: ExclusionMunicipal, Phone: "979-764-3535"},
	// Brownsville Public Utilities Board (municipal)
	"78520": {Utility: "Brownsville PUB", Kind: ExclusionMunicipal, Phone: "956-983-6121"},
	"78521": {Utility: "Brownsville PUB", Kind: ExclusionMunicipal, Phone: "956-983-6121"},
	// Cooperatives
	"78602": {Utility: "Bluebonnet Electric Cooperative", Kind: ExclusionCooperative, Phone: "800-842-7708"},
	"78620": {Utility: "Pedernales Electric Cooperative", Kind: ExclusionCooperative, Phone: "888-554-4732"},
	"78642": {Utility: "Pedernales Electric Cooperative", Kind: ExclusionCooperative, Phone: "888-554-4732"},
	"75783": {Utility: "Wood County Electric Cooperative", Kind: ExclusionCooperative, Phone: "903-763-2203"},
	"78577": {Utility: "Magic Valley Electric Cooperative", Kind: ExclusionCooperative, Phone: "866-225-5683"},
}

// LookupExclusion returns the exclusion entry for a ZIP, if any
func LookupExclusion(zipCode string) (Exclusion, bool) {
	e, ok := exclusions[zipCode]
	return e, ok
}
