package dto

type ConfigResponse struct {
	Unit           string  `json:"unit"`
	TimeoutSeconds float64 `json:"timeout_seconds"`
	// Reports which providers have a key set; the keys themselves are never returned.
	APIKeys map[string]bool `json:"api_keys"`
}

// Omitted fields are left unchanged.
type ConfigPatchRequest struct {
	Unit           *string           `json:"unit"`
	TimeoutSeconds *float64          `json:"timeout_seconds"`
	APIKeys        map[string]string `json:"api_keys"`
}
