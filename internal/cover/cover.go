package cover

import "time"

// HeroConfig is the landing-page hero block.
//
// HeroImage tracks the cover selection: whenever the cover set changes, the
// hero image is forced to the new cover (or cleared when the cover empties).
// Title and Subtitle are free-form and survive cover changes.
type HeroConfig struct {
	HeroImage string    `json:"heroImage"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	UpdatedAt time.Time `json:"updatedAt"`
}
