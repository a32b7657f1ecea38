package chi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	healthuc "github.com/peroute/hackwest-project/internal/usecase/health"
	"github.com/peroute/hackwest-project/internal/version"
)

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "University Resources API",
		"version": version.Version,
		"endpoints": map[string]string{
			"resources": APIPrefix + "/resources/",
			"ask":       APIPrefix + "/ask/",
			"users":     APIPrefix + "/users/",
			"search":    APIPrefix + "/search/",
			"analytics": APIPrefix + "/analytics/",
			"upload":    APIPrefix + "/upload/",
		},
	})
}

// HealthCheck handles GET /health. Only a store outage turns the response into a 503;
// an unreachable AI collaborator degrades answers but not availability.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Checks[healthuc.ComponentDatabase] == healthuc.CheckError ||
		report.Checks[healthuc.ComponentDocStore] == healthuc.CheckError {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status":  report.Status,
		"checks":  report.Checks,
		"version": version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
