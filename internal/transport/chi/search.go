package chi

import (
	"net/http"

	"github.com/peroute/hackwest-project/internal/domain/resource"
	"github.com/peroute/hackwest-project/internal/domain/searchlog"
)

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, "")
}

// SemanticSearch handles POST /search/semantic.
func (s *Server) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, searchlog.TypeSemantic)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, forcedType string) {
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	limit := defaultSearchLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	threshold := defaultScoreThreshold
	if req.ScoreThreshold != nil {
		threshold = *req.ScoreThreshold
	}
	if !validSearchWindow(w, limit, threshold) {
		return
	}

	searchType := forcedType
	if searchType == "" {
		searchType = req.SearchType
	}
	if searchType == "" {
		searchType = searchlog.TypeSemantic
	}

	found, err := s.catalog.Search(r.Context(), req.Query, limit, threshold)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results := scoredToDTO(found)
	writeJSON(w, http.StatusOK, SearchResponse{
		Query:        req.Query,
		Results:      results,
		TotalResults: len(results),
		SearchType:   searchType,
	})
}

// SearchStatus handles GET /search/status.
func (s *Server) SearchStatus(w http.ResponseWriter, r *http.Request) {
	total, err := s.catalog.Count(r.Context(), resource.Filter{})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "operational",
		"total_resources": total,
		"search_types":    []string{searchlog.TypeSemantic, searchlog.TypeKeyword},
		"features": []string{
			"Lexical relevance scoring",
			"Category and key term boosting",
			"Substring fallback",
		},
	})
}
