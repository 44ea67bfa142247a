package resume

import (
	"encoding/json"
	"fmt"
)

// protectedFields are never client-settable: they are assigned by the store
// on create and refreshed (updatedAt) on every mutation.
var protectedFields = []string{"id", "userId", "createdAt", "updatedAt"}

// StripIdentity removes server-assigned fields from a raw document payload.
func StripIdentity(doc map[string]json.RawMessage) {
	for _, f := range protectedFields {
		delete(doc, f)
	}
}

// Merge applies a partial update over a stored resume using shallow
// top-level semantics: every key in patch that matches a top-level document
// field overwrites that field wholesale, nested objects included. Updating
// personalInfo therefore requires sending the full nested object, not a
// field-level patch. Identity fields in the patch are ignored.
//
// A patch value that cannot unmarshal into the field's type fails the whole
// merge; nothing is partially applied.
func Merge(base Resume, patch map[string]json.RawMessage) (Resume, error) {
	raw, err := json.Marshal(base)
	if err != nil {
		return Resume{}, fmt.Errorf("failed to marshal stored resume: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Resume{}, fmt.Errorf("failed to decode stored resume: %w", err)
	}

	identity := make(map[string]json.RawMessage, len(protectedFields))
	for _, f := range protectedFields {
		if v, ok := doc[f]; ok {
			identity[f] = v
		}
	}

	for key, value := range patch {
		doc[key] = value
	}
	// Re-assert identity from the stored record.
	for f, v := range identity {
		doc[f] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return Resume{}, fmt.Errorf("failed to encode merged resume: %w", err)
	}

	var out Resume
	if err := json.Unmarshal(merged, &out); err != nil {
		return Resume{}, fmt.Errorf("invalid resume update: %w", err)
	}
	return out, nil
}
