package models

import (
	"encoding/json"
	"fmt"
)

// Document is a free-form record as posted by the client and stored in the
// database. Known fields are checked through the typed views below; every
// other field is persisted untouched.
type Document map[string]any

// Decode copies the document into a typed view.
func (d Document) Decode(v any) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return json.Unmarshal(data, v)
}

// Clone returns a shallow copy so callers can stamp server fields without
// touching the caller's map.
func (d Document) Clone() Document {
	out := make(Document, len(d)+2)
	for k, v := range d {
		out[k] = v
	}
	return out
}
