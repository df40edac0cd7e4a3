package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// TruncateText bounds s to max characters. Model context limits are counted
// in characters by the prompt builders, not bytes.
func TruncateText(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// DedupKey derives the idempotency key for a record: a hash of its identity
// parts plus the start of the time bucket the record falls into. The unique
// index on this key is the storage-layer backstop behind the recency
// pre-check, so two overlapping runs cannot double-insert inside one bucket.
func DedupKey(at time.Time, window time.Duration, parts ...string) string {
	bucket := at.UTC().Truncate(window)
	payload := strings.Join(parts, "|") + "|" + bucket.Format(time.RFC3339)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
