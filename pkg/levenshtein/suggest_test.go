package levenshtein_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/tsfix/pkg/levenshtein"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s1     string
		s2     string
		wanted int
	}{
		{"", "a", 1},
		{"a", "", 1},
		{"a", "a", 0},
		{"ab", "aaa", 2},
		{"kitten", "sitting", 3},
		{"sitting", "kitten", 3},
		{"Fön", "Föm", 1},
		{"αβγ", "αβδ", 1},
		{"insert", "inser", 1},
		{strings.Repeat("a", 100), strings.Repeat("a", 99) + "b", 1},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.wanted, levenshtein.Distance(tc.s1, tc.s2), "Distance(%q, %q)", tc.s1, tc.s2)
	}
}

func TestClosest(t *testing.T) {
	t.Parallel()

	names := []string{"catch-binding", "loose-types", "unused-imports", "unused-vars"}

	got, ok := levenshtein.Closest("catch-bindng", names, 3)
	assert.True(t, ok)
	assert.Equal(t, "catch-binding", got)

	got, ok = levenshtein.Closest("unused-var", names, 3)
	assert.True(t, ok)
	assert.Equal(t, "unused-vars", got)

	_, ok = levenshtein.Closest("semicolons", names, 3)
	assert.False(t, ok)

	_, ok = levenshtein.Closest("x", nil, 3)
	assert.False(t, ok)
}
