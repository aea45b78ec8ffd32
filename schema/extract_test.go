package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LIF-Initiative/lif-core/schema"
)

func paths(fs []schema.Field) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.JSONPath)
	}
	return out
}

func TestExtract_NonMapYieldsNothing(t *testing.T) {
	assert.Empty(t, schema.Extract(nil, ""))
	assert.Empty(t, schema.Extract("string", "x"))
	assert.Empty(t, schema.Extract([]any{map[string]any{}}, "x"))
}

func TestExtract_PropertiesAndCamelPaths(t *testing.T) {
	node := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"first_name": map[string]any{"type": "string", "x-queryable": true},
			"Last-Name":  map[string]any{"type": "string"},
		},
	}
	fs := schema.Extract(node, "Person")
	require.Equal(t, []string{"person", "person.lastName", "person.firstName"}, paths(fs))

	root := fs[0]
	assert.True(t, root.Attributes.Branch)
	assert.False(t, root.Attributes.Leaf)
	assert.Equal(t, "No", root.Attributes.Array)

	first := fs[2]
	assert.True(t, first.Attributes.Leaf)
	assert.True(t, first.Attributes.Queryable)
	assert.True(t, first.Attributes.Flag(schema.AttrQueryable))
	assert.False(t, first.Attributes.Flag(schema.AttrMutable))
	assert.Equal(t, schema.DefaultDataType, first.Attributes.DataType)
	assert.Equal(t, "string", first.Attributes.Type)
}

func TestExtract_ItemsShareThePathPrefix(t *testing.T) {
	node := map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{"type": "string"},
			},
		},
	}
	fs := schema.Extract(node, "address")
	require.Equal(t, []string{"address", "address", "address.city"}, paths(fs))
	assert.Equal(t, "Yes", fs[0].Attributes.Array)
	assert.True(t, fs[0].Attributes.Branch)
	assert.Equal(t, "No", fs[1].Attributes.Array)
}

func TestExtract_TupleItems(t *testing.T) {
	node := map[string]any{
		"items": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "integer"},
		},
	}
	fs := schema.Extract(node, "pair")
	require.Len(t, fs, 3)
	assert.True(t, fs[0].Attributes.Branch)
	assert.Equal(t, "Yes", fs[0].Attributes.Array)
	assert.Equal(t, "integer", fs[2].Attributes.Type)
}

func TestExtract_ArrayOverrideAndAttributes(t *testing.T) {
	node := map[string]any{
		"type":        "array",
		"Array":       "No",
		"DataType":    "xsd:integer",
		"Required":    true,
		"UniqueName":  "Person.Codes",
		"enum":        []any{"a", "b"},
		"description": "lower",
		"Description": "Upper",
	}
	fs := schema.Extract(node, "codes")
	require.Len(t, fs, 1)
	a := fs[0].Attributes
	assert.Equal(t, "No", a.Array)
	assert.False(t, a.IsArray())
	assert.Equal(t, "xsd:integer", a.DataType)
	assert.Equal(t, "Yes", a.Required)
	assert.Equal(t, "Person.Codes", a.UniqueName)
	assert.Equal(t, []any{"a", "b"}, a.Enum)
	assert.True(t, a.HasEnum())
	assert.Equal(t, "Upper", fs[0].Description)
	assert.True(t, a.Has(schema.AttrUniqueName))
	assert.False(t, a.Has(schema.AttrQueryable))
}

func TestExtract_TypeFallsBackToDataType(t *testing.T) {
	fs := schema.Extract(map[string]any{"DataType": "xsd:date"}, "d")
	require.Len(t, fs, 1)
	assert.Equal(t, "xsd:date", fs[0].Attributes.Type)
	assert.Equal(t, "lower", schema.Extract(map[string]any{"description": "lower"}, "d")[0].Description)
}

func TestExtract_EmptyPropertiesIsLeaf(t *testing.T) {
	fs := schema.Extract(map[string]any{"type": "object", "properties": map[string]any{}}, "")
	require.Len(t, fs, 1)
	assert.Equal(t, "", fs[0].JSONPath)
	assert.True(t, fs[0].Attributes.Leaf)
}
