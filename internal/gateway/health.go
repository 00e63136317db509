package gateway

import (
	"net/http"
)

// AppName is reported by the info route.
const AppName = "tgrelay"

// InfoResponse is the JSON response for GET /.
type InfoResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Endpoints   int      `json:"endpoints"`
	Formatters  []string `json:"formatters"`
	Health      string   `json:"health"`
}

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status     string   `json:"status"`
	Endpoints  int      `json:"endpoints"`
	Formatters []string `json:"formatters"`
}

func (g *Gateway) formatterNames() []string {
	if g.formatters == nil {
		return []string{}
	}
	return g.formatters
}

// handleInfo returns an http.HandlerFunc for GET /.
func (g *Gateway) handleInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, InfoResponse{
			Name:        AppName,
			Version:     g.version,
			Description: "Telegram notification relay",
			Status:      "healthy",
			Endpoints:   len(g.cfg.Endpoints),
			Formatters:  g.formatterNames(),
			Health:      "/health",
		})
	}
}

// handleHealth returns an http.HandlerFunc for GET /health.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:     "healthy",
			Endpoints:  len(g.cfg.Endpoints),
			Formatters: g.formatterNames(),
		})
	}
}
