package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TextKeyMinLen is the normalized length at which candidate text is trusted
// enough to fingerprint; anything shorter falls back to the image reference.
const TextKeyMinLen = 30

const (
	fnvOffset uint32 = 2166136261
	fnvPrime  uint32 = 16777619
)

// Hash is the content fingerprint digest: FNV-1a style 32-bit mixing under
// unsigned wraparound, base-36 encoded. Deterministic within a process;
// collisions are tolerated as a minor cache-correctness risk.
func Hash(s string) string {
	h := fnvOffset
	for _, r := range s {
		h ^= uint32(r)
		h *= fnvPrime
	}
	return strconv.FormatUint(uint64(h), 36)
}

// Key derives the dedup fingerprint for one post's content: a text key when
// the normalized candidate is long enough, otherwise an image key. Equal
// semantic content yields equal keys regardless of whitespace run-length.
func Key(candidateText, imageURL string) string {
	norm := strings.Join(strings.Fields(candidateText), " ")
	if utf8.RuneCountInString(norm) >= TextKeyMinLen {
		return "text:" + Hash(norm)
	}
	if imageURL == "" {
		imageURL = "none"
	}
	return "img:" + imageURL
}

// PageKey generates the fetched-page cache key for a URL
func PageKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "verilens:page:v1:" + hex.EncodeToString(sum[:])
}
