package chi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/peroute/hackwest-project/internal/domain/resource"
)

// Defaults of the query-string semantic search.
const (
	defaultSearchLimit    = 5
	defaultScoreThreshold = 0.7
	maxSearchLimit        = 100
)

// CreateResource handles POST /resources.
func (s *Server) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req ResourceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.catalog.Create(r.Context(), req.params())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", APIPrefix+"/resources/"+res.ID())
	writeJSON(w, http.StatusCreated, resourceToDTO(&res))
}

// ListResources handles GET /resources.
func (s *Server) ListResources(w http.ResponseWriter, r *http.Request) {
	skip, ok := queryInt(w, r, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}
	f := resource.Filter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	rs, err := s.catalog.List(r.Context(), f, skip, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if total, err := s.catalog.Count(r.Context(), f); err == nil {
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
	}

	items := make([]ResourceResponse, len(rs))
	for i := range rs {
		items[i] = resourceToDTO(&rs[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// GetResource handles GET /resources/{id}.
func (s *Server) GetResource(w http.ResponseWriter, r *http.Request) {
	res, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resourceToDTO(&res))
}

// UpdateResource handles PUT /resources/{id}.
func (s *Server) UpdateResource(w http.ResponseWriter, r *http.Request) {
	var req ResourceUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.catalog.Update(r.Context(), chi.URLParam(r, "id"), req.fields())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resourceToDTO(&res))
}

// DeleteResource handles DELETE /resources/{id}.
func (s *Server) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.catalog.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":     "Resource deleted successfully",
		"resource_id": id,
	})
}

// BatchCreateResources handles POST /resources/batch.
func (s *Server) BatchCreateResources(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Resources) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "resources must not be empty")
		return
	}

	params := make([]resource.Params, len(req.Resources))
	for i, item := range req.Resources {
		params[i] = item.params()
	}

	writeJSON(w, http.StatusOK, batchToDTO(s.catalog.BatchCreate(r.Context(), params)))
}

// SemanticSearchResources handles GET /resources/search/semantic.
func (s *Server) SemanticSearchResources(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	limit, ok := queryInt(w, r, "limit", defaultSearchLimit)
	if !ok {
		return
	}
	threshold, ok := queryFloat(w, r, "score_threshold", defaultScoreThreshold)
	if !ok {
		return
	}
	if !validSearchWindow(w, limit, threshold) {
		return
	}

	found, err := s.catalog.Search(r.Context(), query, limit, threshold)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	results := scoredToDTO(found)
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

func validSearchWindow(w http.ResponseWriter, limit int, threshold float64) bool {
	if limit < 1 || limit > maxSearchLimit {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"limit must be between 1 and "+strconv.Itoa(maxSearchLimit))
		return false
	}
	if threshold < 0 || threshold > 1 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "score_threshold must be between 0 and 1")
		return false
	}
	return true
}
