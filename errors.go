package lif

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes reported by record validation.
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeParseError    = "parse_error"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /name/0/firstName).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: expected type, format name, allowed values.
	Cause   error  // Optional: underlying error.
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /age
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Hint != "" {
			fmt.Fprintf(b, " (%s)", it.Hint)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Rebase prefixes every issue path with base, which must itself be a JSON
// Pointer such as "/name" or "/contact/2".
func (iss Issues) Rebase(base string) Issues {
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// ConfigError reports a schema-build time misconfiguration: the fields imply
// several roots, a policy produced no type for the configured root, or the
// configured root is missing from the document.
type ConfigError struct {
	Root      string
	Msg       string
	Available []string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("config")
	if e.Root != "" {
		fmt.Fprintf(&b, " (root %q)", e.Root)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if len(e.Available) > 0 {
		fmt.Fprintf(&b, "; available: [%s]", strings.Join(e.Available, ", "))
	}
	return b.String()
}

// SourceError reports that a schema provider could not supply the document.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("schema source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// BackendError reports a failed query or update call. Status is zero when the
// request never produced an HTTP response.
type BackendError struct {
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend %s %s: status %d: %v", e.Op, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("backend %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Extensions exposes the issues to GraphQL error formatting so clients get
// the structured list next to the summary message.
func (iss Issues) Extensions() map[string]any {
	out := make([]map[string]any, 0, len(iss))
	for _, it := range iss {
		e := map[string]any{"path": it.Path, "code": it.Code}
		if it.Message != "" {
			e["message"] = it.Message
		}
		if it.Hint != "" {
			e["hint"] = it.Hint
		}
		out = append(out, e)
	}
	return map[string]any{"code": "VALIDATION_FAILED", "issues": out}
}

// Extensions reports the failing operation and upstream status.
func (e *BackendError) Extensions() map[string]any {
	ext := map[string]any{"code": "BACKEND_ERROR", "operation": e.Op}
	if e.Status != 0 {
		ext["status"] = e.Status
	}
	return ext
}
