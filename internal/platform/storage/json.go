// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"encoding/json"
	"fmt"
)

// marshalJSON wraps json.Marshal with a storage-scoped error.
func marshalJSON(value interface{}) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to marshal document: %w", err)
	}
	return raw, nil
}

// unmarshalJSON wraps json.Unmarshal with a storage-scoped error.
func unmarshalJSON(raw []byte, target interface{}) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("storage: failed to unmarshal document: %w", err)
	}
	return nil
}
