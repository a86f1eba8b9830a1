// Package territory resolves Texas ZIP codes to deregulated service territories
package territory

import (
	"regexp"
	"strconv"

	"powermatch/internal/models"
)

var zipPattern = regexp.MustCompile(`^[0-9]{5}$`)

// Texas ZIP prefixes cover 75000-79999 plus the 885xx block shared with
// New Mexico border towns served out of El Paso.
const (
	texasRangeLow  = 75000
	texasRangeHigh = 79999
	elPasoLow      = 88500
	elPasoHigh     = 88599
)

// ValidateFormat checks that a ZIP code is a well-formed 5-digit string
func ValidateFormat(zipCode string) bool {
	return zipPattern.MatchString(zipCode)
}

// IsTexasZIP checks whether a well-formed ZIP falls inside the Texas ranges
func IsTexasZIP(zipCode string) bool {
	n, err := strconv.Atoi(zipCode)
	if err != nil {
		return false
	}
	return (n >= texasRangeLow && n <= texasRangeHigh) || (n >= elPasoLow && n <= elPasoHigh)
}

// Validate runs the deterministic format and range checks. It returns an empty
// error code when the ZIP passes. No network calls are made here.
func Validate(zipCode string) models.ZIPErrorCode {
	if !ValidateFormat(zipCode) {
		return models.ZIPErrorInvalidFormat
	}
	if !IsTexasZIP(zipCode) {
		return models.ZIPErrorNotTexas
	}
	return ""
}
