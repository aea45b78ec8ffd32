package model

import (
	"fmt"
	"strings"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/schema"
)

// Kind is the value kind of a record field.
type Kind int

const (
	KindString Kind = iota
	KindFloat
	KindInt
	KindBool
	KindDate
	KindDateTime
	KindEnum
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// dataTypes maps XML-Schema datatypes to field kinds. Unlisted types are strings.
var dataTypes = map[string]Kind{
	"xsd:string":   KindString,
	"xsd:decimal":  KindFloat,
	"xsd:integer":  KindInt,
	"xsd:boolean":  KindBool,
	"xsd:date":     KindDate,
	"xsd:dateTime": KindDateTime,
	"xsd:datetime": KindDateTime,
	"xsd:anyURI":   KindString,
}

// KindOf maps a DataType attribute to a scalar Kind.
func KindOf(dataType string) Kind {
	if k, ok := dataTypes[dataType]; ok {
		return k
	}
	return KindString
}

// FieldType describes the value of a field. When List is set the value is a
// list of the element kind; Nullable then allows null elements.
type FieldType struct {
	Kind     Kind
	Enum     *Enum
	Record   *Record
	List     bool
	Nullable bool
}

func (t FieldType) String() string {
	var elem string
	switch t.Kind {
	case KindEnum:
		elem = t.Enum.Name
	case KindRecord:
		elem = t.Record.Name
	default:
		elem = t.Kind.String()
	}
	if !t.List {
		return elem
	}
	if t.Nullable {
		return "[" + elem + "?]"
	}
	return "[" + elem + "]"
}

// Field is one named slot on a Record.
type Field struct {
	Name        string
	Type        FieldType
	Optional    bool
	Description string
}

// Record is a compiled object descriptor. Records are immutable once their
// Set is returned from Compile.
type Record struct {
	Name        string // PascalCase type name carrying the policy suffix
	Key         string // identity key within the Set
	Path        string // dotted path from the root, "" for the wrapper
	Description string
	Fields      []Field
	AllowExtra  bool
	Wrapper     bool

	index map[string]int
}

// Field returns the field named name.
func (r *Record) Field(name string) (Field, bool) {
	i, ok := r.index[name]
	if !ok {
		return Field{}, false
	}
	return r.Fields[i], true
}

// Unknown is the unknown-key policy implied by AllowExtra.
func (r *Record) Unknown() lif.UnknownPolicy {
	if r.AllowExtra {
		return lif.UnknownPassthrough
	}
	return lif.UnknownStrict
}

func (r *Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s{", r.Name)
	for i, f := range r.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		if f.Optional {
			b.WriteString("?")
		}
		b.WriteString(": ")
		b.WriteString(f.Type.String())
	}
	b.WriteString("}")
	return b.String()
}

func (r *Record) addField(f Field) {
	if r.index == nil {
		r.index = map[string]int{}
	}
	r.index[f.Name] = len(r.Fields)
	r.Fields = append(r.Fields, f)
}

// Policy selects participating fields and the optionality and extensibility
// of the records compiled from them.
type Policy struct {
	Name        string
	Flag        string // attribute that must be truthy; empty selects all fields
	AllOptional bool
	AllowExtra  bool
	Suffix      string
	Doc         string
}

// Default policies. Filter records are strict and required; mutation and
// full records make every field optional.
var (
	FilterPolicy = Policy{
		Name:   "filter",
		Flag:   schema.AttrQueryable,
		Suffix: "Filter",
		Doc:    "Filter data model",
	}
	MutationPolicy = Policy{
		Name:        "mutation",
		Flag:        schema.AttrMutable,
		AllOptional: true,
		Suffix:      "Mutation",
		Doc:         "Mutation data model",
	}
	FullPolicy = Policy{
		Name:        "full",
		AllOptional: true,
		Suffix:      "Type",
		Doc:         "Full data model",
	}
)

// WrapperKey is the Set key of the synthetic wrapper around root.
func WrapperKey(root string) string { return strings.ToLower(root) + "_wrapper" }
