package chi

import (
	"net/http"
	"time"

	"github.com/peroute/hackwest-project/internal/domain/searchlog"
)

// RecordSearch handles POST /analytics/search-log.
func (s *Server) RecordSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchLogRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e := searchlog.Event{
		Query:        req.Query,
		ResultsCount: req.ResultsCount,
		UserID:       req.UserID,
		SearchType:   req.SearchType,
	}
	if req.ResponseTimeMs != nil {
		e.ResponseTimeMs = *req.ResponseTimeMs
	}

	saved, err := s.analytics.RecordSearch(r.Context(), e)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchLogResponse{
		ID:             saved.ID,
		Query:          saved.Query,
		ResultsCount:   saved.ResultsCount,
		UserID:         saved.UserID,
		SearchType:     saved.SearchType,
		ResponseTimeMs: saved.ResponseTimeMs,
		CreatedAt:      saved.CreatedAt.UTC(),
	})
}

// SearchStats handles GET /analytics/search-stats.
func (s *Server) SearchStats(w http.ResponseWriter, r *http.Request) {
	days, ok := queryInt(w, r, "days", 0)
	if !ok {
		return
	}
	st, err := s.analytics.SearchStats(r.Context(), days)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	types := make([]TypeCount, len(st.SearchTypes))
	for i, e := range st.SearchTypes {
		types[i] = TypeCount{Type: e.Label, Count: e.Count}
	}
	top := make([]QueryCount, len(st.TopQueries))
	for i, e := range st.TopQueries {
		top[i] = QueryCount{Query: e.Label, Count: e.Count}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period_days":              st.PeriodDays,
		"total_searches":           st.TotalSearches,
		"average_response_time_ms": st.AvgResponseTimeMs,
		"active_users":             st.ActiveUsers,
		"search_types":             types,
		"top_queries":              top,
	})
}

// UserActivity handles GET /analytics/user-activity/{user_id}.
func (s *Server) UserActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt64(w, r, "user_id")
	if !ok {
		return
	}
	days, ok := queryInt(w, r, "days", 0)
	if !ok {
		return
	}

	a, err := s.analytics.UserActivity(r.Context(), userID, days)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	recent := make([]RecentSearchItem, len(a.RecentSearches))
	for i, rs := range a.RecentSearches {
		recent[i] = RecentSearchItem{
			Query:        rs.Query,
			SearchType:   rs.SearchType,
			ResultsCount: rs.ResultsCount,
			CreatedAt:    rs.CreatedAt.UTC(),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":         a.UserID,
		"period_days":     a.PeriodDays,
		"searches":        a.TotalSearches,
		"questions":       a.TotalQuestions,
		"recent_searches": recent,
	})
}

// SystemHealth handles GET /analytics/system-health.
func (s *Server) SystemHealth(w http.ResponseWriter, r *http.Request) {
	h, err := s.analytics.SystemHealth(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"database_stats": map[string]int{
			"total_users":          h.TotalUsers,
			"total_resources":      h.TotalResources,
			"total_questions":      h.TotalQuestions,
			"total_search_logs":    h.TotalSearchLogs,
			"recent_activity_24h":  h.RecentSearches24h,
			"recent_questions_24h": h.RecentQuestions24h,
		},
		"timestamp": time.Now().UTC(),
	})
}

// SearchTrends handles GET /analytics/search-trends.
func (s *Server) SearchTrends(w http.ResponseWriter, r *http.Request) {
	days, ok := queryInt(w, r, "days", 0)
	if !ok {
		return
	}
	tr, err := s.analytics.SearchTrends(r.Context(), days)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	daily := make([]DateCount, len(tr.Daily))
	for i, d := range tr.Daily {
		daily[i] = DateCount{Date: d.Label, Count: d.Count}
	}
	byType := make([]DateTypeCount, len(tr.DailyByType))
	for i, d := range tr.DailyByType {
		byType[i] = DateTypeCount{Date: d.Date, SearchType: d.SearchType, Count: d.Count}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period_days":        tr.PeriodDays,
		"daily_searches":     daily,
		"search_type_trends": byType,
	})
}
