// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lumina/pkg/slug"
)

/*
TestSlug_From covers the normalization pipeline on realistic album names.
*/
func TestSlug_From(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Portraits", "portraits"},
		{"spaces", "Summer Trip 2026", "summer-trip-2026"},
		{"diacritics", "Sesión de Otoño", "sesion-de-otono"},
		{"punctuation_runs", "B&W -- Street!!", "b-w-street"},
		{"leading_trailing", "  ~Weddings~  ", "weddings"},
		{"empty", "", ""},
		{"symbols_only", "???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestSlug_FromWithLimit checks truncation and the empty-slug fallback.
*/
func TestSlug_FromWithLimit(t *testing.T) {
	// Fallback when the input slugs to nothing
	assert.Equal(t, "album", slug.FromWithLimit("!!!", 80, "album"))

	// Truncation respects the byte limit and never ends in a hyphen
	long := strings.Repeat("aventura ", 20)
	got := slug.FromWithLimit(long, 80, "album")
	assert.LessOrEqual(t, len(got), 80)
	assert.False(t, strings.HasSuffix(got, "-"))
}
