// ABOUTME: Shared API response models
// ABOUTME: Error and health payloads returned by every endpoint

package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse reports service status
type HealthResponse struct {
	Status       string `json:"status"`
	StoreDriver  string `json:"store_driver"`
	Projects     int    `json:"projects"`
	CacheEntries int    `json:"cache_entries"`
	SwitchModel  string `json:"switch_model"`
}
