package model

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// EnumMember is one symbolic member of an Enum. Value is the original literal.
type EnumMember struct {
	Name  string
	Value any
}

// Enum is a synthesized enumeration. Enums are interned by EnumCache and
// compared by pointer.
type Enum struct {
	Name    string
	Members []EnumMember
}

// Lookup finds the member whose literal value or symbolic name matches v.
// Values are compared in their string form, so 1 and "1" match the same member.
func (e *Enum) Lookup(v any) (EnumMember, bool) {
	if m, ok := v.(EnumMember); ok {
		v = m.Value
	}
	s := fmt.Sprint(v)
	for _, m := range e.Members {
		if fmt.Sprint(m.Value) == s {
			return m, true
		}
	}
	for _, m := range e.Members {
		if m.Name == s {
			return m, true
		}
	}
	return EnumMember{}, false
}

// Values returns the member literals in declaration order.
func (e *Enum) Values() []any {
	out := make([]any, len(e.Members))
	for i, m := range e.Members {
		out[i] = m.Value
	}
	return out
}

func (e *Enum) String() string { return e.Name }

var nonWordRun = regexp.MustCompile(`\W+`)

// MemberName derives a symbolic member name from a literal: upper-cased, each
// run of non-word characters replaced by one underscore, and an underscore
// prefixed when the result starts with a digit.
//
//	MemberName("non-binary") == "NON_BINARY"
//	MemberName("2nd")        == "_2ND"
func MemberName(v any) string {
	s := nonWordRun.ReplaceAllString(strings.ToUpper(fmt.Sprint(v)), "_")
	if s == "" {
		return "EMPTY"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

// EnumKey is the cache identity of an enumeration: the name followed by the
// sorted string forms of its values.
func EnumKey(name string, values []any) string {
	ss := make([]string, len(values))
	for i, v := range values {
		ss[i] = fmt.Sprint(v)
	}
	sort.Strings(ss)
	return name + "_" + strings.Join(ss, "_")
}

// EnumCache interns Enums by EnumKey. It only grows and is safe for
// concurrent use.
type EnumCache struct {
	mu    sync.Mutex
	enums map[string]*Enum
	log   *zap.Logger
}

// NewEnumCache returns an empty cache. A nil logger disables logging.
func NewEnumCache(log *zap.Logger) *EnumCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &EnumCache{enums: map[string]*Enum{}, log: log}
}

// Make returns the Enum for (name, values), synthesizing it on first use.
// Equal keys always yield the same *Enum.
func (c *EnumCache) Make(name string, values []any) *Enum {
	key := EnumKey(name, values)
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.enums[key]; ok {
		return e
	}
	e := &Enum{Name: name}
	seen := map[string]int{}
	for _, v := range values {
		mn := MemberName(v)
		if n := seen[mn]; n > 0 {
			seen[mn] = n + 1
			alt := fmt.Sprintf("%s_%d", mn, n+1)
			c.log.Warn("enum member name collision",
				zap.String("enum", name), zap.Any("value", v), zap.String("member", alt))
			mn = alt
		} else {
			seen[mn] = 1
		}
		e.Members = append(e.Members, EnumMember{Name: mn, Value: v})
	}
	c.enums[key] = e
	return e
}

// Len reports the number of interned enums.
func (c *EnumCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.enums)
}
