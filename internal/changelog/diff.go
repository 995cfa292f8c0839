// Package changelog computes field-level diffs between two versions of a
// profile-like record. Comparison is order-insensitive for collection-valued
// fields so that reordering a list never shows up as a change.
package changelog

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// FieldChange holds the before/after values of a single field, as given by
// the caller (not normalized), for display purposes.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ChangeSet maps field names to their old/new values. It is stored as a JSON
// column on audit rows.
type ChangeSet map[string]FieldChange

// Value implements driver.Valuer.
func (c ChangeSet) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *ChangeSet) Scan(value any) error {
	if value == nil {
		*c = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return errors.New("changelog: unsupported ChangeSet source type")
	}
}

// Diff compares the tracked fields of two records and returns the fields
// whose normalized values differ. A field missing on either side compares as
// null; null and an empty list are distinct. The returned ChangeSet carries
// the original values, not the normalized ones.
func Diff(oldRec, newRec map[string]any, tracked []string) ChangeSet {
	changes := ChangeSet{}
	for _, field := range tracked {
		oldVal := oldRec[field]
		newVal := newRec[field]
		if canonical(oldVal) != canonical(newVal) {
			changes[field] = FieldChange{Old: oldVal, New: newVal}
		}
	}
	return changes
}

// Snapshot converts a struct into its JSON field map so it can be diffed.
func Snapshot(record any) map[string]any {
	data, err := json.Marshal(record)
	if err != nil {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

// canonical renders a value into a normalized comparison key: a JSON
// round-trip (so int64(3) and float64(3) compare equal), with every array
// sorted by its elements' own canonical encodings and every object's keys
// sorted. Array order and key order therefore never affect the result.
func canonical(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	var plain any
	if err := json.Unmarshal(data, &plain); err != nil {
		return string(data)
	}
	return encode(normalize(plain))
}

func normalize(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalize(elem)
		}
		sort.Slice(out, func(i, j int) bool {
			return encode(out[i]) < encode(out[j])
		})
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = normalize(elem)
		}
		return out
	default:
		return v
	}
}

// encode relies on json.Marshal emitting map keys in sorted order.
func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
