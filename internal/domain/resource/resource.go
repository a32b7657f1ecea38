package resource

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field length limits enforced at persistence time.
const (
	MaxTitleLen    = 500
	MaxURLLen      = 2048
	MaxCategoryLen = 100
	MaxTags        = 50
)

// Params carries the caller-supplied fields of a new resource.
type Params struct {
	Title       string
	Description string
	URL         string
	Category    string
	Tags        []string
	OwnerID     *int64
	Public      bool
}

// Resource is the catalog document aggregate (immutable value object).
type Resource struct {
	id          string
	title       string
	description string
	url         string
	category    string
	tags        []string
	ownerID     *int64
	public      bool
	embedding   []float32
	createdAt   time.Time
	updatedAt   time.Time
}

// New validates and creates a Resource with a fresh UUID.
// Title and URL are required; surrounding whitespace is trimmed from every text field.
func New(p Params) (Resource, error) {
	title := strings.TrimSpace(p.Title)
	url := strings.TrimSpace(p.URL)
	category := strings.TrimSpace(p.Category)

	if err := validate(title, url, category, p.Tags); err != nil {
		return Resource{}, err
	}

	now := time.Now().UTC()
	return Resource{
		id:          uuid.NewString(),
		title:       title,
		description: strings.TrimSpace(p.Description),
		url:         url,
		category:    category,
		tags:        cloneTags(p.Tags),
		ownerID:     p.OwnerID,
		public:      p.Public,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct creates a Resource without validation (storage hydration).
func Reconstruct(
	id string, p Params, embedding []float32, createdAt, updatedAt time.Time,
) Resource {
	return Resource{
		id:          id,
		title:       p.Title,
		description: p.Description,
		url:         p.URL,
		category:    p.Category,
		tags:        p.Tags,
		ownerID:     p.OwnerID,
		public:      p.Public,
		embedding:   embedding,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func validate(title, url, category string, tags []string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("title too long (max %d)", MaxTitleLen)
	}
	if url == "" {
		return fmt.Errorf("url is required")
	}
	if len(url) > MaxURLLen {
		return fmt.Errorf("url too long (max %d)", MaxURLLen)
	}
	if len(category) > MaxCategoryLen {
		return fmt.Errorf("category too long (max %d)", MaxCategoryLen)
	}
	if len(tags) > MaxTags {
		return fmt.Errorf("too many tags (max %d)", MaxTags)
	}
	return nil
}

// ID returns the resource identifier.
func (r *Resource) ID() string { return r.id }

// Title returns the resource title.
func (r *Resource) Title() string { return r.title }

// Description returns the resource description (may be empty).
func (r *Resource) Description() string { return r.description }

// URL returns the resource link.
func (r *Resource) URL() string { return r.url }

// Category returns the resource category (may be empty).
func (r *Resource) Category() string { return r.category }

// Tags returns the ordered tag list.
func (r *Resource) Tags() []string { return r.tags }

// OwnerID returns the owning user id, or nil.
func (r *Resource) OwnerID() *int64 { return r.ownerID }

// IsPublic reports the visibility flag.
func (r *Resource) IsPublic() bool { return r.public }

// Embedding returns the stored vector.
func (r *Resource) Embedding() []float32 { return r.embedding }

// CreatedAt returns the creation time.
func (r *Resource) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last modification time.
func (r *Resource) UpdatedAt() time.Time { return r.updatedAt }

// EmbeddingText is the text the embedding is derived from.
func (r *Resource) EmbeddingText() string {
	return EmbeddingText(r.title, r.description)
}

// SetEmbedding sets the vector in place (mutation).
func (r *Resource) SetEmbedding(v []float32) { r.embedding = v }

// EmbeddingText joins title and description the way stored embeddings are computed.
func EmbeddingText(title, description string) string {
	return title + " " + description
}

func cloneTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
