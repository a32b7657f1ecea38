package patch

import (
	"fmt"
	"strings"
)

// Patch is a partial resource update. Nil fields are unchanged.
type Patch struct {
	title       *string
	description *string
	url         *string
	category    *string
	tags        []string
	hasTags     bool
	public      *bool
}

// Fields carries the optional values of an update request.
type Fields struct {
	Title       *string
	Description *string
	URL         *string
	Category    *string
	Tags        *[]string
	Public      *bool
}

// New validates and creates a Patch. At least one field must be provided.
// Title and URL, when present, cannot be blank.
func New(f Fields) (Patch, error) {
	if f.Title == nil && f.Description == nil && f.URL == nil &&
		f.Category == nil && f.Tags == nil && f.Public == nil {
		return Patch{}, fmt.Errorf("at least one field must be provided")
	}
	if f.Title != nil && strings.TrimSpace(*f.Title) == "" {
		return Patch{}, fmt.Errorf("title cannot be empty")
	}
	if f.URL != nil && strings.TrimSpace(*f.URL) == "" {
		return Patch{}, fmt.Errorf("url cannot be empty")
	}

	p := Patch{
		title:       trimmed(f.Title),
		description: trimmed(f.Description),
		url:         trimmed(f.URL),
		category:    trimmed(f.Category),
		public:      f.Public,
	}
	if f.Tags != nil {
		p.hasTags = true
		p.tags = append([]string{}, *f.Tags...)
	}
	return p, nil
}

// Title returns the new title, or nil if unchanged.
func (p Patch) Title() *string { return p.title }

// Description returns the new description, or nil if unchanged.
func (p Patch) Description() *string { return p.description }

// URL returns the new url, or nil if unchanged.
func (p Patch) URL() *string { return p.url }

// Category returns the new category, or nil if unchanged.
func (p Patch) Category() *string { return p.category }

// Tags returns the replacement tag list and whether tags are being replaced.
func (p Patch) Tags() ([]string, bool) { return p.tags, p.hasTags }

// Public returns the new visibility flag, or nil if unchanged.
func (p Patch) Public() *bool { return p.public }

// TouchesEmbeddingText reports whether the patch changes title or description.
func (p Patch) TouchesEmbeddingText() bool {
	return p.title != nil || p.description != nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
