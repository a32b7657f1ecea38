package embedding

import "crypto/md5" //nolint:gosec // not used for security

// Digest is the deterministic pseudo-embedding: dims values digest[i%16]/255 over the MD5 of text.
// Empty text yields the zero vector.
func Digest(text string, dims int) []float32 {
	vec := make([]float32, dims)
	if text == "" {
		return vec
	}
	sum := md5.Sum([]byte(text)) //nolint:gosec
	for i := range vec {
		vec[i] = float32(sum[i%len(sum)]) / 255
	}
	return vec
}
