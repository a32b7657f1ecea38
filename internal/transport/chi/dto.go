package chi

import (
	"strconv"
	"time"

	dombatch "github.com/peroute/hackwest-project/internal/domain/batch"
	"github.com/peroute/hackwest-project/internal/domain/candidate"
	"github.com/peroute/hackwest-project/internal/domain/conversation"
	"github.com/peroute/hackwest-project/internal/domain/resource"
	"github.com/peroute/hackwest-project/internal/domain/resource/patch"
	domuser "github.com/peroute/hackwest-project/internal/domain/user"
	cataloguc "github.com/peroute/hackwest-project/internal/usecase/catalog"
	useruc "github.com/peroute/hackwest-project/internal/usecase/user"
)

// --- Ask ---

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question   string `json:"question"`
	UserID     *int64 `json:"user_id"`
	SearchType string `json:"search_type"`
}

// AskResponse is the answer to one question.
type AskResponse struct {
	Question          string         `json:"question"`
	Answer            string         `json:"answer"`
	RelevantResources []SearchResult `json:"relevant_resources"`
	UserID            *int64         `json:"user_id"`
	Timestamp         time.Time      `json:"timestamp"`
}

// HistoryItem is one past turn.
type HistoryItem struct {
	ID              int64     `json:"id"`
	Question        string    `json:"question"`
	Answer          string    `json:"answer"`
	SimilarityScore *string   `json:"similarity_score"`
	CreatedAt       time.Time `json:"created_at"`
}

func historyToDTO(turns []conversation.Turn) []HistoryItem {
	out := make([]HistoryItem, len(turns))
	for i, t := range turns {
		var score *string
		if t.TopScore != nil {
			s := strconv.FormatFloat(*t.TopScore, 'f', -1, 64)
			score = &s
		}
		out[i] = HistoryItem{
			ID:              t.ID,
			Question:        t.Question,
			Answer:          t.Answer,
			SimilarityScore: score,
			CreatedAt:       t.CreatedAt.UTC(),
		}
	}
	return out
}

// --- Resources ---

// ResourceRequest is the body of POST /resources and one item of a batch.
type ResourceRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	IsPublic    *bool    `json:"is_public"`
	OwnerID     *int64   `json:"owner_id"`
}

func (r ResourceRequest) params() resource.Params {
	public := true
	if r.IsPublic != nil {
		public = *r.IsPublic
	}
	return resource.Params{
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		Category:    r.Category,
		Tags:        r.Tags,
		OwnerID:     r.OwnerID,
		Public:      public,
	}
}

// ResourceUpdateRequest is the body of PUT /resources/{id}. Absent fields are unchanged.
type ResourceUpdateRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	URL         *string   `json:"url"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
	IsPublic    *bool     `json:"is_public"`
}

func (r ResourceUpdateRequest) fields() patch.Fields {
	return patch.Fields{
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		Category:    r.Category,
		Tags:        r.Tags,
		Public:      r.IsPublic,
	}
}

// ResourceResponse is a stored catalog resource.
type ResourceResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	IsPublic    bool      `json:"is_public"`
	OwnerID     *int64    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func resourceToDTO(r *resource.Resource) ResourceResponse {
	tags := r.Tags()
	if tags == nil {
		tags = []string{}
	}
	return ResourceResponse{
		ID:          r.ID(),
		Title:       r.Title(),
		Description: r.Description(),
		URL:         r.URL(),
		Category:    r.Category(),
		Tags:        tags,
		IsPublic:    r.IsPublic(),
		OwnerID:     r.OwnerID(),
		CreatedAt:   r.CreatedAt().UTC(),
		UpdatedAt:   r.UpdatedAt().UTC(),
	}
}

// BatchRequest is the body of POST /resources/batch.
type BatchRequest struct {
	Resources []ResourceRequest `json:"resources"`
}

// BatchItem is the outcome of one batch entry.
type BatchItem struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// BatchResponse summarizes a batch create.
type BatchResponse struct {
	Created int         `json:"created"`
	Failed  int         `json:"failed"`
	Errors  []string    `json:"errors"`
	Items   []BatchItem `json:"items"`
}

func batchToDTO(results []dombatch.Result) BatchResponse {
	resp := BatchResponse{Errors: []string{}, Items: make([]BatchItem, len(results))}
	resp.Created, resp.Failed = dombatch.Summary(results)
	for i, res := range results {
		item := BatchItem{
			Index:  res.Index(),
			ID:     res.ID(),
			Title:  res.Title(),
			Status: string(res.Status()),
		}
		if res.Err() != nil {
			item.Error = safeMessage(res.Err())
			resp.Errors = append(resp.Errors, "Failed to create resource "+strconv.Quote(res.Title())+": "+item.Error)
		}
		resp.Items[i] = item
	}
	return resp
}

// --- Search ---

// SearchRequest is the body of POST /search and POST /search/semantic.
type SearchRequest struct {
	Query          string   `json:"query"`
	Limit          *int     `json:"limit"`
	ScoreThreshold *float64 `json:"score_threshold"`
	SearchType     string   `json:"search_type"`
}

// SearchResult is one ranked resource.
type SearchResult struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	URL             string   `json:"url"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags"`
	SimilarityScore float64  `json:"similarity_score"`
	OwnerID         *int64   `json:"owner_id"`
}

// SearchResponse is a ranked result list.
type SearchResponse struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
	SearchType   string         `json:"search_type"`
}

func scoredToDTO(cs []candidate.Scored) []SearchResult {
	out := make([]SearchResult, len(cs))
	for i, c := range cs {
		r := c.Resource()
		tags := r.Tags()
		if tags == nil {
			tags = []string{}
		}
		out[i] = SearchResult{
			ID:              r.ID(),
			Title:           r.Title(),
			Description:     r.Description(),
			URL:             r.URL(),
			Category:        r.Category(),
			Tags:            tags,
			SimilarityScore: c.Similarity(),
			OwnerID:         r.OwnerID(),
		}
	}
	return out
}

// --- Users ---

// UserCreateRequest is the body of POST /users.
type UserCreateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsActive *bool  `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}

func (r UserCreateRequest) account() useruc.NewAccount {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return useruc.NewAccount{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		Active:   active,
		Admin:    r.IsAdmin,
	}
}

// UserUpdateRequest is the body of PUT /users/{id}.
type UserUpdateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  *bool   `json:"is_admin"`
}

func (r UserUpdateRequest) update() domuser.Update {
	return domuser.Update{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		Active:   r.IsActive,
		Admin:    r.IsAdmin,
	}
}

// UserResponse is an account without its password hash.
type UserResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	IsActive  bool       `json:"is_active"`
	IsAdmin   bool       `json:"is_admin"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func userToDTO(u *domuser.User) UserResponse {
	var updated *time.Time
	if u.UpdatedAt() != nil {
		t := u.UpdatedAt().UTC()
		updated = &t
	}
	return UserResponse{
		ID:        u.ID(),
		Username:  u.Username(),
		Email:     u.Email(),
		IsActive:  u.IsActive(),
		IsAdmin:   u.IsAdmin(),
		CreatedAt: u.CreatedAt().UTC(),
		UpdatedAt: updated,
	}
}

// --- Analytics ---

// SearchLogRequest is the body of POST /analytics/search-log.
type SearchLogRequest struct {
	Query          string `json:"query"`
	ResultsCount   int    `json:"results_count"`
	UserID         *int64 `json:"user_id"`
	SearchType     string `json:"search_type"`
	ResponseTimeMs *int64 `json:"response_time_ms"`
}

// SearchLogResponse is a stored search event.
type SearchLogResponse struct {
	ID             int64     `json:"id"`
	Query          string    `json:"query"`
	ResultsCount   int       `json:"results_count"`
	UserID         *int64    `json:"user_id"`
	SearchType     string    `json:"search_type"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// TypeCount is one search type bucket.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// QueryCount is one top query.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// DateCount is one day bucket.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DateTypeCount is one day and type bucket.
type DateTypeCount struct {
	Date       string `json:"date"`
	SearchType string `json:"search_type"`
	Count      int    `json:"count"`
}

// RecentSearchItem is one row of a user's recent searches.
type RecentSearchItem struct {
	Query        string    `json:"query"`
	SearchType   string    `json:"search_type"`
	ResultsCount int       `json:"results_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// --- Upload ---

// UploadResponse reports a bulk import.
type UploadResponse struct {
	Message         string           `json:"message"`
	TotalProcessed  int              `json:"total_processed"`
	TotalCategories int              `json:"total_categories"`
	Successful      int              `json:"successful"`
	Failed          int              `json:"failed"`
	Details         []CategoryDetail `json:"details"`
}

// CategoryDetail is the import outcome of one category.
type CategoryDetail struct {
	Category   string   `json:"category"`
	Processed  int      `json:"processed"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

func importToDTO(rep cataloguc.ImportReport) UploadResponse {
	details := make([]CategoryDetail, len(rep.Details))
	for i, d := range rep.Details {
		errs := d.Errors
		if errs == nil {
			errs = []string{}
		}
		details[i] = CategoryDetail{
			Category:   d.Category,
			Processed:  d.Processed,
			Successful: d.Successful,
			Failed:     d.Failed,
			Errors:     errs,
		}
	}
	return UploadResponse{
		Message:         "Resources uploaded successfully",
		TotalProcessed:  rep.TotalProcessed,
		TotalCategories: rep.TotalCategories,
		Successful:      rep.Successful,
		Failed:          rep.Failed,
		Details:         details,
	}
}
