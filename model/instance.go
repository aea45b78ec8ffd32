package model

import (
	"time"

	json "github.com/goccy/go-json"
)

// Instance is a validated record value. Scalars hold Go values (string,
// int64, float64, bool, Date, time.Time), enums hold EnumMember, nested
// records hold Instance and lists hold []any.
type Instance map[string]any

// Serialize returns a JSON-safe copy: nil values are dropped, dates become
// ISO-8601 strings and enum members their literal value.
func (in Instance) Serialize() map[string]any {
	if in == nil {
		return nil
	}
	out, _ := Plain(map[string]any(in)).(map[string]any)
	return out
}

// MarshalJSON encodes the serialized form.
func (in Instance) MarshalJSON() ([]byte, error) {
	return json.Marshal(in.Serialize())
}

// Plain converts validated values into JSON-safe structures recursively.
// Values of unknown types pass through unchanged.
func Plain(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Instance:
		return Plain(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			if vv == nil {
				continue
			}
			out[k] = Plain(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = Plain(vv)
		}
		return out
	case []Instance:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = Plain(vv)
		}
		return out
	case EnumMember:
		return t.Value
	case Date:
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}

// Date is a calendar date without a time of day.
type Date struct{ time.Time }

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string { return d.Format(dateLayout) }

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }
