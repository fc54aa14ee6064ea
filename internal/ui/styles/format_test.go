package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"tiny width", "hello", 2, ".."},
		{"zero width", "hello", 0, ""},
		{"negative width", "hello", -1, ""},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateString(tt.input, tt.maxWidth))
		})
	}
}

func TestTruncateString_Wide(t *testing.T) {
	// Double-width runes count by display width, not rune count
	got := TruncateString("薬局薬局薬局", 7)
	assert.LessOrEqual(t, len([]rune(got)), 5)
	assert.Contains(t, got, "...")
}
