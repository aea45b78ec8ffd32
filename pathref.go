package lif

import (
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths segment by segment. The zero value is the
// document root.
type PathRef struct {
	parts []string
}

// Root returns the root path.
func Root() PathRef { return PathRef{} }

// Field appends an object key, escaping '~' and '/' per RFC 6901.
func (p PathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return PathRef{parts: append(append([]string(nil), p.parts...), esc)}
}

// Index appends an array position.
func (p PathRef) Index(i int) PathRef {
	return PathRef{parts: append(append([]string(nil), p.parts...), strconv.Itoa(i))}
}

// Pointer renders the path; the root is "/".
func (p PathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

func (p PathRef) String() string { return p.Pointer() }
