package dto

// HealthResponse is the body of the probe endpoints. Checks maps a
// dependency name to "ok" or "unreachable".
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
