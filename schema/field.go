package schema

import (
	"fmt"

	lif "github.com/LIF-Initiative/lif-core"
)

// DefaultDataType is assumed for fields that declare no DataType.
const DefaultDataType = "xsd:string"

// Attribute names as they appear after camelCase re-keying. Compiler policies
// select participating fields by one of these names.
const (
	AttrQueryable  = "xQueryable"
	AttrMutable    = "xMutable"
	AttrDataType   = "dataType"
	AttrRequired   = "required"
	AttrArray      = "array"
	AttrUniqueName = "uniqueName"
	AttrEnum       = "enum"
	AttrType       = "type"
	AttrBranch     = "branch"
	AttrLeaf       = "leaf"
)

// Field is one node of the flattened schema tree. Fields are created once per
// extraction and never mutated afterwards.
type Field struct {
	// JSONPath is the dotted, camelCase path from the tree root
	// (person.name.firstName). The empty string denotes the document root.
	JSONPath    string
	Description string
	Attributes  Attributes
}

// Attributes is the recognized attribute bag of a Field.
type Attributes struct {
	Queryable  bool
	Mutable    bool
	DataType   string
	Required   string
	Array      string // "Yes" or "No"
	UniqueName string
	Enum       []any
	Type       string
	Branch     bool
	Leaf       bool
}

// IsArray reports whether the field is array-valued.
func (a Attributes) IsArray() bool { return lif.Truthy(a.Array) }

// HasEnum reports whether the field declares a non-empty enumeration.
func (a Attributes) HasEnum() bool { return len(a.Enum) > 0 }

// Has reports whether the attribute carries a value. Derived attributes
// (array, branch, leaf, dataType) always do.
func (a Attributes) Has(name string) bool {
	switch name {
	case AttrArray, AttrBranch, AttrLeaf, AttrDataType:
		return true
	case AttrQueryable:
		return a.Queryable
	case AttrMutable:
		return a.Mutable
	case AttrRequired:
		return a.Required != ""
	case AttrUniqueName:
		return a.UniqueName != ""
	case AttrEnum:
		return len(a.Enum) > 0
	case AttrType:
		return a.Type != ""
	}
	return false
}

// Get returns the attribute value by its camelCase name.
func (a Attributes) Get(name string) (any, bool) {
	if !a.Has(name) {
		return nil, false
	}
	switch name {
	case AttrQueryable:
		return a.Queryable, true
	case AttrMutable:
		return a.Mutable, true
	case AttrDataType:
		return a.DataType, true
	case AttrRequired:
		return a.Required, true
	case AttrArray:
		return a.Array, true
	case AttrUniqueName:
		return a.UniqueName, true
	case AttrEnum:
		return a.Enum, true
	case AttrType:
		return a.Type, true
	case AttrBranch:
		return a.Branch, true
	case AttrLeaf:
		return a.Leaf, true
	}
	return nil, false
}

// Flag reports whether the named attribute is present and truthy.
func (a Attributes) Flag(name string) bool {
	v, ok := a.Get(name)
	return ok && lif.Truthy(v)
}

func (f Field) String() string {
	kind := "leaf"
	if f.Attributes.Branch {
		kind = "branch"
	}
	return fmt.Sprintf("%s (%s, array=%s)", f.JSONPath, kind, f.Attributes.Array)
}

func yesNo(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
