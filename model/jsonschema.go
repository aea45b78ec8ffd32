package model

import (
	"sort"

	js "github.com/LIF-Initiative/lif-core/jsonschema"
)

// JSONSchema exports r, nested records inlined, as a JSON Schema document.
func (r *Record) JSONSchema() *js.Schema {
	s := r.objectSchema()
	s.SchemaURI = js.Draft
	return s
}

func (r *Record) objectSchema() *js.Schema {
	props := make(map[string]*js.Schema, len(r.Fields))
	var req []string
	for _, f := range r.Fields {
		ps := f.Type.jsonSchema()
		if f.Description != "" {
			ps.Description = f.Description
		}
		props[f.Name] = ps
		if !f.Optional {
			req = append(req, f.Name)
		}
	}
	sort.Strings(req)
	var additional any = false
	if r.AllowExtra {
		additional = true
	}
	return &js.Schema{
		Title:                r.Name,
		Description:          r.Description,
		Type:                 "object",
		Properties:           props,
		Required:             req,
		AdditionalProperties: additional,
	}
}

func (t FieldType) jsonSchema() *js.Schema {
	elem := t.elemSchema()
	if !t.List {
		return elem
	}
	return &js.Schema{Type: "array", Items: elem}
}

func (t FieldType) elemSchema() *js.Schema {
	switch t.Kind {
	case KindRecord:
		return t.Record.objectSchema()
	case KindEnum:
		return &js.Schema{Title: t.Enum.Name, Enum: t.Enum.Values()}
	case KindInt:
		return &js.Schema{Type: "integer"}
	case KindFloat:
		return &js.Schema{Type: "number"}
	case KindBool:
		return &js.Schema{Type: "boolean"}
	case KindDate:
		return &js.Schema{Type: "string", Format: "date"}
	case KindDateTime:
		return &js.Schema{Type: "string", Format: "date-time"}
	default:
		return &js.Schema{Type: "string"}
	}
}
