package album

import (
	"time"

	"github.com/taibuivan/lumina/pkg/slice"
)

// Album is a named, ordered, user-curated subset of gallery images with its
// own display rank and optional explicit cover.
type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Campaign    string `json:"campaign"`

	// Images is the ordered membership list (stored filenames, no duplicates).
	Images []string `json:"images"`

	// Order is the album's display rank within the portfolio.
	Order int `json:"order"`

	// CoverImage is an optional explicit album cover ("" when unset).
	CoverImage string `json:"coverImage"`

	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasImage reports whether filename is currently a member.
func (a *Album) HasImage(filename string) bool {
	return slice.Contains(a.Images, filename)
}
