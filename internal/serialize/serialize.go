// Package serialize converts record documents into JSON-safe values.
package serialize

import (
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the textual timestamp format used on the wire.
const TimeLayout = time.RFC3339Nano

// Timestamp formats t in UTC using TimeLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Value walks v and replaces row identifiers and timestamps with strings.
// Maps and slices are copied, never mutated. nil stays nil and values that
// are already plain pass through, so Value(Value(v)) equals Value(v).
func Value(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case uuid.UUID:
		return t.String()
	case *uuid.UUID:
		if t == nil {
			return nil
		}
		return t.String()
	case time.Time:
		return Timestamp(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		return Timestamp(*t)
	case *string:
		if t == nil {
			return nil
		}
		return *t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Value(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = Value(m)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Value(val)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	default:
		return v
	}
}

// Documenter is implemented by every persisted record.
type Documenter interface {
	Document() map[string]any
}

// Record serializes a single record.
func Record(r Documenter) map[string]any {
	return Value(r.Document()).(map[string]any)
}

// Records serializes a list of records, always returning a non-nil slice.
func Records[T Documenter](rs []T) []any {
	out := make([]any, 0, len(rs))
	for _, r := range rs {
		out = append(out, Record(r))
	}
	return out
}
