package domain

import "fmt"

// ProviderError is returned when a geocoding API answers with a status
// that maps to neither a bad key nor an unknown address.
type ProviderError struct {
	Provider string
	Status   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("geocoding API error: %s: %s", e.Provider, e.Status)
}
