package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		maxSize int
		want    string
	}{
		{"short", `{"a":1}`, 100, `{"a":1}`},
		{"exact length", "12345", 5, "12345"},
		{"one over", "123456", 5, "12345...(truncated)"},
		{"default for zero", "hello", 0, "hello"},
		{"default for negative", "hello", -1, "hello"},
		{"empty", "", 10, ""},
		{"keeps runes whole", "aéb", 2, "a...(truncated)"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TruncateBody(tt.data, tt.maxSize))
		})
	}
}

func TestTruncateBody_DefaultMaxSize(t *testing.T) {
	t.Parallel()

	data := strings.Repeat("x", MaxLogBodySize+100)
	got := TruncateBody(data, 0)
	assert.Len(t, got, MaxLogBodySize+len(truncatedSuffix))
	assert.True(t, strings.HasSuffix(got, truncatedSuffix))

	exact := data[:MaxLogBodySize]
	assert.Equal(t, exact, TruncateBody(exact, 0))
}

func TestTruncateBody_ValidUTF8(t *testing.T) {
	t.Parallel()

	data := strings.Repeat("ü", 50)
	for size := 1; size < 20; size++ {
		assert.True(t, utf8.ValidString(TruncateBody(data, size)), "size %d", size)
	}
}
