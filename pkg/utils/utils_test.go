package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{name: "shorter than max", s: "hello", max: 10, want: "hello"},
		{name: "exactly max", s: "hello", max: 5, want: "hello"},
		{name: "longer than max", s: "hello world", max: 5, want: "hello"},
		{name: "zero max keeps all", s: "hello", max: 0, want: "hello"},
		{name: "multibyte runes", s: "héllo wörld", max: 6, want: "héllo "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateText(tt.s, tt.max))
		})
	}
}

func TestDedupKey(t *testing.T) {
	window := 24 * time.Hour
	base := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("same bucket yields same key", func(t *testing.T) {
		a := DedupKey(base, window, "Morgan Stanley", "AI Buildout")
		b := DedupKey(base.Add(5*time.Hour), window, "Morgan Stanley", "AI Buildout")
		assert.Equal(t, a, b)
	})

	t.Run("next bucket yields different key", func(t *testing.T) {
		a := DedupKey(base, window, "Morgan Stanley", "AI Buildout")
		b := DedupKey(base.Add(24*time.Hour), window, "Morgan Stanley", "AI Buildout")
		assert.NotEqual(t, a, b)
	})

	t.Run("different identity parts yield different keys", func(t *testing.T) {
		a := DedupKey(base, window, "Morgan Stanley", "AI Buildout")
		b := DedupKey(base, window, "BlackRock", "AI Buildout")
		assert.NotEqual(t, a, b)
	})

	t.Run("timezone does not matter", func(t *testing.T) {
		jakarta := time.FixedZone("WIB", 7*3600)
		a := DedupKey(base, window, "x")
		b := DedupKey(base.In(jakarta), window, "x")
		assert.Equal(t, a, b)
	})
}
