package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/model"
	"github.com/LIF-Initiative/lif-core/schema"
)

func leaf(path, dataType string, queryable, mutable bool) schema.Field {
	return schema.Field{
		JSONPath: path,
		Attributes: schema.Attributes{
			Queryable: queryable,
			Mutable:   mutable,
			DataType:  dataType,
			Array:     "No",
			Leaf:      true,
		},
	}
}

// personDoc exercises nesting, arrays, enums and a filtered-out branch.
var personDoc = map[string]any{
	"components": map[string]any{"schemas": map[string]any{
		"Person": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{
					"type":        "array",
					"x-queryable": true,
					"x-mutable":   true,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"firstName": map[string]any{"type": "string", "x-queryable": true, "x-mutable": true},
							"lastName":  map[string]any{"type": "string", "x-mutable": true},
						},
					},
				},
				"age":      map[string]any{"type": "integer", "DataType": "xsd:integer", "x-queryable": true},
				"birth":    map[string]any{"type": "string", "DataType": "xsd:date"},
				"gender":   map[string]any{"type": "string", "enum": []any{"Female", "Male"}, "x-queryable": true, "x-mutable": true},
				"nickname": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"contact": map[string]any{
					"type":       "object",
					"UniqueName": "Person.Contact",
					"properties": map[string]any{
						"address": map[string]any{
							"type":       "object",
							"properties": map[string]any{"city": map[string]any{"type": "string"}},
						},
					},
				},
			},
		},
	}},
}

func personFields(t *testing.T) []schema.Field {
	t.Helper()
	fs, _, err := schema.Load(personDoc, "Person")
	require.NoError(t, err)
	return fs
}

func TestCompile_EndToEndFilter(t *testing.T) {
	fields := []schema.Field{
		leaf("person.name", "xsd:string", true, false),
		leaf("person.age", "xsd:integer", true, false),
	}
	set, err := model.NewCompiler().Compile(fields, model.FilterPolicy)
	require.NoError(t, err)
	assert.Equal(t, []string{"person", "person_wrapper"}, set.Keys())

	person, ok := set.Get("person")
	require.True(t, ok)
	assert.Equal(t, "PersonFilter", person.Name)

	inst, err := person.New(map[string]any{"name": "Ann", "age": 5})
	require.NoError(t, err)
	assert.Equal(t, "Ann", inst["name"])
	assert.Equal(t, int64(5), inst["age"])

	_, err = person.New(map[string]any{"name": "Ann", "age": "not-a-number"})
	iss, ok := lif.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, lif.CodeInvalidType, iss[0].Code)
	assert.Equal(t, "/age", iss[0].Path)
}

func TestCompile_EmptySelection(t *testing.T) {
	set, err := model.NewCompiler().Compile([]schema.Field{leaf("person.name", "", false, false)}, model.FilterPolicy)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	_, ok := set.RootRecord()
	assert.False(t, ok)

	set, err = model.NewCompiler().Compile(nil, model.FullPolicy)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestCompile_MultipleRootsIsConfigError(t *testing.T) {
	fields := []schema.Field{
		leaf("person.name", "xsd:string", true, false),
		leaf("course.title", "xsd:string", true, false),
	}
	_, err := model.NewCompiler().Compile(fields, model.FilterPolicy)
	var ce *lif.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"person", "course"}, ce.Available)
	assert.Contains(t, err.Error(), "person.name")
	assert.Contains(t, err.Error(), "course.title")
}

func TestCompile_OptionalityPolicy(t *testing.T) {
	fields := personFields(t)
	c := model.NewCompiler()

	opt := model.Policy{Name: "o", AllOptional: true, Suffix: "Type"}
	set, err := c.Compile(fields, opt)
	require.NoError(t, err)
	root, _ := set.RootRecord()
	_, err = root.New(map[string]any{})
	assert.NoError(t, err)

	req := model.Policy{Name: "r", Suffix: "Type"}
	set, err = c.Compile(fields, req)
	require.NoError(t, err)
	root, _ = set.RootRecord()
	_, err = root.New(map[string]any{})
	iss, ok := lif.AsIssues(err)
	require.True(t, ok)
	for _, it := range iss {
		assert.Equal(t, lif.CodeRequired, it.Code)
	}
	assert.Len(t, iss, len(root.Fields))
}

func TestCompile_ExtensibilityPolicy(t *testing.T) {
	fields := personFields(t)
	c := model.NewCompiler()

	open, err := c.Compile(fields, model.Policy{AllOptional: true, AllowExtra: true})
	require.NoError(t, err)
	root, _ := open.RootRecord()
	inst, err := root.New(map[string]any{"shoeSize": 42})
	require.NoError(t, err)
	assert.Equal(t, 42, inst["shoeSize"])

	closed, err := c.Compile(fields, model.Policy{AllOptional: true})
	require.NoError(t, err)
	root, _ = closed.RootRecord()
	_, err = root.New(map[string]any{"shoeSize": 42})
	iss, ok := lif.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, lif.CodeUnknownKey, iss[0].Code)
	assert.Equal(t, "/shoeSize", iss[0].Path)
}

func TestCompile_ArrayWrapping(t *testing.T) {
	set, err := model.NewCompiler().Compile(personFields(t), model.FullPolicy)
	require.NoError(t, err)
	root, _ := set.RootRecord()

	nick, ok := root.Field("nickname")
	require.True(t, ok)
	assert.True(t, nick.Type.List)
	assert.True(t, nick.Type.Nullable)
	assert.Equal(t, model.KindString, nick.Type.Kind)

	name, ok := root.Field("name")
	require.True(t, ok)
	assert.True(t, name.Type.List)
	assert.Equal(t, model.KindRecord, name.Type.Kind)
	assert.Equal(t, "NameType", name.Type.Record.Name)

	contact, ok := root.Field("contact")
	require.True(t, ok)
	assert.False(t, contact.Type.List)
	assert.Equal(t, "ContactType", contact.Type.Record.Name)

	age, _ := root.Field("age")
	assert.Equal(t, model.KindInt, age.Type.Kind)
	birth, _ := root.Field("birth")
	assert.Equal(t, model.KindDate, birth.Type.Kind)
}

func TestCompile_WrapperAndIdentity(t *testing.T) {
	set, err := model.NewCompiler().Compile(personFields(t), model.FullPolicy)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"name", "contact.address", "Person.Contact", "person", "person_wrapper"},
		set.Keys())

	addr, ok := set.Get("contact.address")
	require.True(t, ok)
	assert.Equal(t, "ContactAddressType", addr.Name)
	assert.Equal(t, "person.contact.address", addr.Path)

	w, ok := set.Wrapper()
	require.True(t, ok)
	assert.True(t, w.Wrapper)
	assert.Equal(t, "person_wrapper", w.Key)
	require.Len(t, w.Fields, 1)
	assert.Equal(t, "person", w.Fields[0].Name)
	assert.True(t, w.Fields[0].Type.List)

	root, _ := set.RootRecord()
	assert.Same(t, root, w.Fields[0].Type.Record)
	assert.NotEqual(t, w.Key, root.Key)
}

func TestCompile_FilterSelectsQueryableOnly(t *testing.T) {
	set, err := model.NewCompiler().Compile(personFields(t), model.FilterPolicy)
	require.NoError(t, err)
	root, _ := set.RootRecord()

	var names []string
	for _, f := range root.Fields {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"age", "gender", "name"}, names)

	name, _ := root.Field("name")
	assert.Len(t, name.Type.Record.Fields, 1)
	assert.Equal(t, "firstName", name.Type.Record.Fields[0].Name)
	assert.False(t, name.Optional)
}

func TestCompile_FilteredOutArrayBranchIsDropped(t *testing.T) {
	doc := map[string]any{"components": map[string]any{"schemas": map[string]any{
		"Person": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{"type": "string", "x-queryable": true},
				"name": map[string]any{
					"type":        "array",
					"x-queryable": true,
					"items": map[string]any{
						"type":       "object",
						"properties": map[string]any{"firstName": map[string]any{"type": "string"}},
					},
				},
				"contact": map[string]any{
					"type":        "object",
					"x-queryable": true,
					"properties":  map[string]any{"email": map[string]any{"type": "string"}},
				},
			},
		},
	}}}
	fs, _, err := schema.Load(doc, "Person")
	require.NoError(t, err)

	set, err := model.NewCompiler().Compile(fs, model.FilterPolicy)
	require.NoError(t, err)
	root, ok := set.RootRecord()
	require.True(t, ok)
	require.Len(t, root.Fields, 1)
	assert.Equal(t, "id", root.Fields[0].Name)
	_, ok = root.Field("name")
	assert.False(t, ok)

	full, err := model.NewCompiler().Compile(fs, model.FullPolicy)
	require.NoError(t, err)
	froot, _ := full.RootRecord()
	name, ok := froot.Field("name")
	require.True(t, ok)
	assert.Equal(t, model.KindRecord, name.Type.Kind)
	assert.True(t, name.Type.List)
}

func TestCompile_EnumsSharedAcrossPolicies(t *testing.T) {
	c := model.NewCompiler()
	sets, err := c.CompileAll(personFields(t), model.DefaultPolicies())
	require.NoError(t, err)

	get := func(s *model.Set) *model.Enum {
		root, ok := s.RootRecord()
		require.True(t, ok)
		f, ok := root.Field("gender")
		require.True(t, ok)
		require.Equal(t, model.KindEnum, f.Type.Kind)
		return f.Type.Enum
	}
	e := get(sets.Filter)
	assert.Equal(t, "Gender", e.Name)
	assert.Same(t, e, get(sets.Mutation))
	assert.Same(t, e, get(sets.Full))
	assert.Equal(t, 1, c.Enums().Len())
}

func TestCompileAll_CombinesErrors(t *testing.T) {
	fields := []schema.Field{
		leaf("person.name", "xsd:string", true, true),
		leaf("course.title", "xsd:string", true, true),
	}
	_, err := model.NewCompiler().CompileAll(fields, model.DefaultPolicies())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xQueryable")
	assert.Contains(t, err.Error(), "xMutable")
	assert.Contains(t, err.Error(), "selected")
}

func TestCompile_SuffixNotDoubled(t *testing.T) {
	fields := []schema.Field{leaf("personType.name", "xsd:string", true, true)}
	set, err := model.NewCompiler().Compile(fields, model.FullPolicy)
	require.NoError(t, err)
	root, _ := set.RootRecord()
	assert.Equal(t, "PersonType", root.Name)
}
