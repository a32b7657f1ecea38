package chi

import (
	"net/http"

	askuc "github.com/peroute/hackwest-project/internal/usecase/ask"
)

// Ask handles POST /ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ans, err := s.ask.Handle(r.Context(), askuc.Request{
		Question:   req.Question,
		UserID:     req.UserID,
		SearchType: req.SearchType,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{
		Question:          ans.Question,
		Answer:            ans.Answer,
		RelevantResources: scoredToDTO(ans.Resources),
		UserID:            ans.UserID,
		Timestamp:         ans.Timestamp.UTC(),
	})
}

// AskHistory handles GET /ask/history/{user_id}.
func (s *Server) AskHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt64(w, r, "user_id")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	turns, err := s.analytics.History(r.Context(), userID, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, historyToDTO(turns))
}

// AskOverview handles GET /ask/stats/overview.
func (s *Server) AskOverview(w http.ResponseWriter, r *http.Request) {
	o, err := s.analytics.QAOverview(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_questions":          o.TotalQuestions,
		"total_searches":           o.TotalSearches,
		"average_response_time_ms": o.AvgResponseTimeMs,
		"recent_questions_24h":     o.RecentQuestions24h,
	})
}
