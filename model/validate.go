package model

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/i18n"
)

// New validates data against r with a background context.
func (r *Record) New(data map[string]any) (Instance, error) {
	return r.Parse(context.Background(), data)
}

// Parse validates v against r and returns the coerced Instance. Failures are
// reported as lif.Issues with JSON Pointer paths. Scalars are coerced
// leniently: numeric strings become numbers, integral floats become ints and
// enum members match by literal or member name.
func (r *Record) Parse(ctx context.Context, v any) (Instance, error) {
	out, iss := r.parse(ctx, v)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (r *Record) parse(ctx context.Context, v any) (Instance, lif.Issues) {
	src, ok := asMap(v)
	if !ok {
		return nil, lif.Issues{invalidType("/", "object")}
	}
	out := make(Instance, len(src))
	var iss lif.Issues
	for _, f := range r.Fields {
		val, exists := src[f.Name]
		if !exists || val == nil {
			if !f.Optional {
				iss = lif.AppendIssues(iss, lif.IssueAt(lif.Root().Field(f.Name),
					lif.CodeRequired, i18n.T(lif.CodeRequired, nil), "required field missing"))
				if lif.IsFailFast(ctx) {
					return nil, iss
				}
			}
			continue
		}
		parsed, i2 := f.Type.parse(ctx, val)
		if len(i2) > 0 {
			iss = lif.AppendIssues(iss, i2.Rebase(lif.Root().Field(f.Name).Pointer())...)
			if lif.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[f.Name] = parsed
	}
	iss = append(iss, r.collectUnknown(src, out)...)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// collectUnknown rejects undeclared keys, or copies them through unchanged
// when the record allows extra fields.
func (r *Record) collectUnknown(src map[string]any, out Instance) lif.Issues {
	var uks []string
	for k := range src {
		if _, known := r.index[k]; !known {
			uks = append(uks, k)
		}
	}
	sort.Strings(uks)
	var iss lif.Issues
	for _, k := range uks {
		switch r.Unknown() {
		case lif.UnknownPassthrough:
			out[k] = src[k]
		default:
			iss = lif.AppendIssues(iss, lif.IssueAt(lif.Root().Field(k),
				lif.CodeUnknownKey, i18n.T(lif.CodeUnknownKey, map[string]string{"key": k}), ""))
		}
	}
	return iss
}

func (t FieldType) parse(ctx context.Context, v any) (any, lif.Issues) {
	if !t.List {
		return t.parseElem(ctx, v)
	}
	items, ok := asList(v)
	if !ok {
		return nil, lif.Issues{invalidType("/", "list of "+t.elemName())}
	}
	out := make([]any, 0, len(items))
	var iss lif.Issues
	for i, it := range items {
		base := lif.Root().Index(i).Pointer()
		if it == nil {
			if t.Nullable {
				out = append(out, nil)
				continue
			}
			iss = lif.AppendIssues(iss, invalidType(base, t.elemName()))
			continue
		}
		pv, i2 := t.parseElem(ctx, it)
		if len(i2) > 0 {
			iss = lif.AppendIssues(iss, i2.Rebase(base)...)
			if lif.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out = append(out, pv)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (t FieldType) elemName() string {
	e := t
	e.List = false
	return e.String()
}

func (t FieldType) parseElem(ctx context.Context, v any) (any, lif.Issues) {
	switch t.Kind {
	case KindRecord:
		return t.Record.parse(ctx, v)
	case KindEnum:
		m, ok := t.Enum.Lookup(v)
		if !ok {
			vals := make([]string, len(t.Enum.Members))
			for i, m := range t.Enum.Members {
				vals[i] = fmt.Sprint(m.Value)
			}
			list := "[" + strings.Join(vals, ", ") + "]"
			return nil, lif.Issues{{
				Path:    "/",
				Code:    lif.CodeInvalidEnum,
				Message: i18n.T(lif.CodeInvalidEnum, map[string]string{"values": list}),
				Hint:    list,
			}}
		}
		return m, nil
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, lif.Issues{invalidType("/", "string")}
	case KindInt:
		if n, ok := toInt(v); ok {
			return n, nil
		}
		return nil, lif.Issues{invalidType("/", "int")}
	case KindFloat:
		if f, ok := toFloat(v); ok {
			return f, nil
		}
		return nil, lif.Issues{invalidType("/", "float")}
	case KindBool:
		if b, ok := toBool(v); ok {
			return b, nil
		}
		return nil, lif.Issues{invalidType("/", "bool")}
	case KindDate:
		return parseDate(v)
	case KindDateTime:
		return parseDateTime(v)
	}
	return v, nil
}

func invalidType(path, expected string) lif.Issue {
	return lif.Issue{
		Path:    path,
		Code:    lif.CodeInvalidType,
		Message: i18n.T(lif.CodeInvalidType, map[string]string{"expected": expected}),
		Hint:    "expected " + expected,
	}
}

func invalidFormat(format string, cause error) lif.Issues {
	return lif.Issues{{
		Path:    "/",
		Code:    lif.CodeInvalidFormat,
		Message: i18n.T(lif.CodeInvalidFormat, map[string]string{"format": format}),
		Hint:    format,
		Cause:   cause,
	}}
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case Instance:
		return t, true
	case map[string]any:
		return t, true
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []Instance:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	}
	return nil, false
}

func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		// 1<<63 itself is out of range
		if t == math.Trunc(t) && t >= math.MinInt64 && t < 1<<63 {
			return int64(t), true
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		if f, err := t.Float64(); err == nil {
			return toInt(f)
		}
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case int:
		if t == 0 || t == 1 {
			return t == 1, true
		}
	case int64:
		if t == 0 || t == 1 {
			return t == 1, true
		}
	case float64:
		if t == 0 || t == 1 {
			return t == 1, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "on", "1":
			return true, true
		case "false", "no", "n", "off", "0":
			return false, true
		}
	}
	return false, false
}

const dateLayout = "2006-01-02"

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseDate(v any) (any, lif.Issues) {
	switch t := v.(type) {
	case Date:
		return t, nil
	case time.Time:
		return DateOf(t), nil
	case string:
		d, err := time.Parse(dateLayout, strings.TrimSpace(t))
		if err != nil {
			return nil, invalidFormat("date", err)
		}
		return DateOf(d), nil
	}
	return nil, lif.Issues{invalidType("/", "date")}
}

func parseDateTime(v any) (any, lif.Issues) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case Date:
		return t.Time, nil
	case string:
		s := strings.TrimSpace(t)
		var lastErr error
		for _, layout := range dateTimeLayouts {
			tm, err := time.Parse(layout, s)
			if err == nil {
				return tm, nil
			}
			lastErr = err
		}
		return nil, invalidFormat("datetime", lastErr)
	}
	return nil, lif.Issues{invalidType("/", "datetime")}
}
