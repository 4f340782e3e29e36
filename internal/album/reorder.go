package album

import (
	"encoding/json"

	"github.com/taibuivan/lumina/internal/platform/validate"
)

// The admin panel has shipped several shapes for the reorder payload over
// time ({"albumsOrder": [...]}, {"albumIds": [...]}, {"order": [...]}, or a
// bare array), with elements that are either id strings or {id: ...}
// objects. All of them are normalized here, at the boundary, into one
// canonical []string so the service operation stays strongly typed.

// reorderIDKeys are the wrapper fields probed in priority order.
var reorderIDKeys = []string{"albumsOrder", "albumIds", "order"}

/*
NormalizeReorderPayload converts any accepted reorder body into an ordered
id list.

Parameters:
  - raw: []byte (the request body)

Returns:
  - []string: Album ids in requested display order
  - error: VALIDATION_ERROR when no accepted shape matches
*/
func NormalizeReorderPayload(raw []byte) ([]string, error) {

	// 1. Bare array form
	if ids, ok := decodeIDList(raw); ok {
		return ids, nil
	}

	// 2. Wrapped object forms
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err == nil {
		for _, key := range reorderIDKeys {
			inner, present := wrapper[key]
			if !present {
				continue
			}
			if ids, ok := decodeIDList(inner); ok {
				return ids, nil
			}
		}
	}

	return nil, validate.RequiredError("albumsOrder", "Expected an ordered list of album ids")
}

// decodeIDList accepts ["id", ...] or [{"id": "..."}, ...].
func decodeIDList(raw []byte) ([]string, bool) {

	// Plain string elements
	var ids []string
	if err := json.Unmarshal(raw, &ids); err == nil {
		return ids, true
	}

	// Object elements carrying an id field
	var objects []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &objects); err == nil {
		ids = make([]string, 0, len(objects))
		for _, object := range objects {
			if object.ID != "" {
				ids = append(ids, object.ID)
			}
		}
		return ids, true
	}

	return nil, false
}
