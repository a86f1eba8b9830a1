package provider

import "errors"

var (
	// ErrProviderNotFound is returned when a provider cannot be found by name
	ErrProviderNotFound = errors.New("provider not found")
	// ErrProviderDisabled is returned when a manual run targets a disabled provider
	ErrProviderDisabled = errors.New("provider is disabled")
	// ErrTDSPNotCovered is returned when a run targets a TDSP the provider does not cover
	ErrTDSPNotCovered = errors.New("TDSP not covered by provider")
)
