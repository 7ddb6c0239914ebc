package api

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status string `json:"status"`
}
