package resource

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"strconv"
	"time"

	domres "github.com/peroute/hackwest-project/internal/domain/resource"
)

// Hash field names of a stored resource.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldURL         = "url"
	fieldCategory    = "category"
	fieldTags        = "tags"
	fieldOwnerID     = "owner_id"
	fieldPublic      = "is_public"
	fieldEmbedding   = "embedding"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
)

// buildHashFields converts a domain Resource into a flat map[string]string for HSET.
func buildHashFields(r *domres.Resource) map[string]string {
	tags, _ := json.Marshal(nonNilTags(r.Tags()))

	owner := ""
	if r.OwnerID() != nil {
		owner = strconv.FormatInt(*r.OwnerID(), 10)
	}
	public := "0"
	if r.IsPublic() {
		public = "1"
	}

	return map[string]string{
		fieldTitle:       r.Title(),
		fieldDescription: r.Description(),
		fieldURL:         r.URL(),
		fieldCategory:    r.Category(),
		fieldTags:        string(tags),
		fieldOwnerID:     owner,
		fieldPublic:      public,
		fieldEmbedding:   vectorToBytes(r.Embedding()),
		fieldCreatedAt:   strconv.FormatInt(r.CreatedAt().UnixMilli(), 10),
		fieldUpdatedAt:   strconv.FormatInt(r.UpdatedAt().UnixMilli(), 10),
	}
}

// parseHashFields converts a flat hash map back into a domain Resource.
func parseHashFields(id string, m map[string]string) domres.Resource {
	var tags []string
	if raw := m[fieldTags]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &tags)
	}

	var owner *int64
	if raw := m[fieldOwnerID]; raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			owner = &v
		}
	}

	return domres.Reconstruct(id, domres.Params{
		Title:       m[fieldTitle],
		Description: m[fieldDescription],
		URL:         m[fieldURL],
		Category:    m[fieldCategory],
		Tags:        nonNilTags(tags),
		OwnerID:     owner,
		Public:      m[fieldPublic] != "0",
	}, bytesToVector(m[fieldEmbedding]), parseMillis(m[fieldCreatedAt]), parseMillis(m[fieldUpdatedAt]))
}

func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
