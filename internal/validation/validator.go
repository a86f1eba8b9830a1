// Package validation provides custom validators for the application
package validation

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// Initialize registers all custom validators
func Initialize() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("nospaces", validateNoSpaces); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("zipcode", validateZIPCode); err != nil {
			panic(err)
		}
	}
}

// validateNoSpaces checks if a string contains non-space characters
func validateNoSpaces(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}

// validateZIPCode checks for a five-digit ZIP code
func validateZIPCode(fl validator.FieldLevel) bool {
	return zipPattern.MatchString(fl.Field().String())
}
