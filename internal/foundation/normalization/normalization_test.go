package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type policy string

func TestNormalizer(t *testing.T) {
	n := NewNormalizer(map[string]policy{
		"throw": "throw",
		"error": "throw",
		"warn":  "warn",
	})

	v, ok := n.Lookup("  ERROR ")
	assert.True(t, ok)
	assert.Equal(t, policy("throw"), v)

	assert.Equal(t, policy(""), n.Normalize("explode"))

	_, err := n.NormalizeWithError("explode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[error throw warn]")

	keys := n.ValidKeys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"error", "throw", "warn"}, n.ValidKeys())
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"EPA and WPA", "epa-and-wpa"},
		{"College Football", "college-football"},
		{"NFL", "nfl"},
		{"Café Über-Stats!", "cafe-uber-stats"},
		{"  --intro--  ", "intro"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}
