package gallery

import (
	"sort"
	"time"

	"github.com/taibuivan/lumina/internal/album"
)

// OrderEntry pins one filename to an explicit display rank.
type OrderEntry struct {
	Filename string `json:"filename"`
	Order    int    `json:"order"`
}

// Order is the persisted manual override of the gallery sequence. It is a
// sparse partial order: images it omits fall back to the computed sequence.
type Order struct {
	Entries   []OrderEntry `json:"order"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

/*
ComputeDisplayOrder produces the canonical gallery sequence.

Description: Pure function, deterministic for identical inputs. The
sequence is built in two passes.

Pass one partitions the input into three runs, each keeping its original
relative order:

 1. Cover-category images always rank first: members of the cover set,
    plus the hero image. The hero usually mirrors the cover, but it can
    be set independently while the cover slot is empty, and it ranks
    first all the same.
 2. Album images, annotated with the owning album's display rank and
    stable-sorted by it. An image appearing in several albums takes the
    rank of the first matching album in iteration order; this tie-break is
    deliberate and relied upon by the admin preview.
 3. Unassigned images last.

Pass two applies the manual order as a refinement: images it names are
emitted first in entry-rank order, then every image it omits follows in
pass-one order. Omission can never drop an image, so a manual order
persisted before an upload still shows the new image. Entries naming
absent filenames are ignored. Duplicate filenames in the input are kept
as-is.

Parameters:
  - images: []Image (raw listing order)
  - albums: []album.Album
  - coverImages: []string (the current cover set)
  - heroImage: string (the hero image, "" when unset)
  - manual: []OrderEntry (optional, may be nil)

Returns:
  - []Image: The display sequence, a permutation of images
*/
func ComputeDisplayOrder(images []Image, albums []album.Album, coverImages []string, heroImage string, manual []OrderEntry) []Image {

	if len(images) == 0 {
		return []Image{}
	}

	coverSet := make(map[string]bool, len(coverImages)+1)
	for _, filename := range coverImages {
		coverSet[filename] = true
	}
	if heroImage != "" {
		coverSet[heroImage] = true
	}

	// 1. Partition
	type rankedImage struct {
		image Image
		rank  int
	}

	var (
		covers      []Image
		albumImages []rankedImage
		unassigned  []Image
	)

	for _, image := range images {
		if coverSet[image.Filename] {
			covers = append(covers, image)
			continue
		}

		rank, assigned := albumRank(albums, image.Filename)
		if assigned {
			albumImages = append(albumImages, rankedImage{image: image, rank: rank})
			continue
		}

		unassigned = append(unassigned, image)
	}

	// 2. Stable sort by album rank
	sort.SliceStable(albumImages, func(i, j int) bool {
		return albumImages[i].rank < albumImages[j].rank
	})

	// 3. Concatenate
	base := make([]Image, 0, len(images))
	base = append(base, covers...)
	for _, ranked := range albumImages {
		base = append(base, ranked.image)
	}
	base = append(base, unassigned...)

	if len(manual) == 0 {
		return base
	}

	// 4. Manual refinement
	return applyManualOrder(base, manual)
}

// albumRank returns the display rank of the first album containing the
// filename.
func albumRank(albums []album.Album, filename string) (int, bool) {
	for _, candidate := range albums {
		if candidate.HasImage(filename) {
			return candidate.Order, true
		}
	}
	return 0, false
}

// applyManualOrder emits the images named by the manual order first (by
// entry rank), then everything else in base order. Duplicate filenames
// consume base occurrences left to right, one per entry.
func applyManualOrder(base []Image, manual []OrderEntry) []Image {

	entries := make([]OrderEntry, len(manual))
	copy(entries, manual)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})

	used := make([]bool, len(base))
	result := make([]Image, 0, len(base))

	for _, entry := range entries {
		for index, image := range base {
			if !used[index] && image.Filename == entry.Filename {
				used[index] = true
				result = append(result, image)
				break
			}
		}
	}

	for index, image := range base {
		if !used[index] {
			result = append(result, image)
		}
	}

	return result
}
