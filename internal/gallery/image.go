package gallery

import "time"

// Image is one gallery photograph as the API serves it.
type Image struct {
	Filename    string    `json:"filename"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Meta is the editable part of an image, stored separately from the blob
// in the key-value layer (one document keyed by filename).
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
