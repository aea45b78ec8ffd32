package gql_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/backend"
	"github.com/LIF-Initiative/lif-core/gql"
	"github.com/LIF-Initiative/lif-core/model"
	"github.com/LIF-Initiative/lif-core/schema"
)

func compile(t *testing.T, fields []schema.Field, p model.Policy) *model.Set {
	t.Helper()
	set, err := model.NewCompiler().Compile(fields, p)
	require.NoError(t, err)
	return set
}

func TestRegistry_OutputTypes(t *testing.T) {
	fields := []schema.Field{
		field("person.name.firstName", "xsd:string", true, true),
		field("person.age", "xsd:integer", true, true),
	}
	reg := gql.NewRegistry("Person")
	require.NoError(t, reg.ProjectOutputs(compile(t, fields, model.FullPolicy)))

	// the wrapper record is never projected
	assert.Equal(t, []string{"Name", "Person"}, reg.OutputNames())

	person, ok := reg.Output("Person")
	require.True(t, ok)
	fs := person.Fields()
	assert.Equal(t, "Int", fs["age"].Type.String())
	assert.Equal(t, "Name", fs["name"].Type.String())
}

func TestRegistry_InputNamesStripRoot(t *testing.T) {
	fields := []schema.Field{
		field("person.name.firstName", "xsd:string", true, true),
		field("person.contact.address.city", "xsd:string", true, true),
	}
	reg := gql.NewRegistry("Person")
	require.NoError(t, reg.ProjectInputs(compile(t, fields, model.FilterPolicy), gql.SuffixFilterInput))
	assert.Equal(t, []string{
		"ContactAddressFilterInput",
		"ContactFilterInput",
		"NameFilterInput",
		"PersonFilterInput",
	}, reg.InputNames())
}

func TestRegistry_EnumProjectedOnce(t *testing.T) {
	fields := []schema.Field{
		field("person.gender", "xsd:string", true, true, "Female", "Male"),
		field("person.partner.gender", "xsd:string", true, true, "Male", "Female"),
	}
	comp := model.NewCompiler()
	full, err := comp.Compile(fields, model.FullPolicy)
	require.NoError(t, err)
	filter, err := comp.Compile(fields, model.FilterPolicy)
	require.NoError(t, err)

	reg := gql.NewRegistry("Person")
	require.NoError(t, reg.ProjectOutputs(full))
	require.NoError(t, reg.ProjectInputs(filter, gql.SuffixFilterInput))

	enums := 0
	for _, typ := range reg.Types() {
		if typ.Name() == "Gender" {
			enums++
		}
	}
	assert.Equal(t, 1, enums)
}

func TestRegistry_EnumNameTakenByRecord(t *testing.T) {
	fields := []schema.Field{
		field("person.status", "xsd:string", true, true, "Active"),
		field("person.info.code", "xsd:string", true, true),
		{JSONPath: "person.info", Attributes: schema.Attributes{Branch: true, Type: "object", UniqueName: "Status"}},
	}
	reg := gql.NewRegistry("Person")
	require.NoError(t, reg.ProjectOutputs(compile(t, fields, model.FullPolicy)))

	names := map[string]bool{}
	for _, typ := range reg.Types() {
		names[typ.Name()] = true
	}
	assert.True(t, names["Status"])
	assert.True(t, names["PersonTypeStatus"])
}

func TestRegistry_CollisionWarnsOrFails(t *testing.T) {
	// two differently shaped records share the identity "Info"
	fields := []schema.Field{
		field("person.home.info.city", "xsd:string", true, true),
		field("person.work.info.company", "xsd:string", true, true),
		{JSONPath: "person.home.info", Attributes: schema.Attributes{Branch: true, Type: "object", UniqueName: "Info"}},
		{JSONPath: "person.work.info", Attributes: schema.Attributes{Branch: true, Type: "object", UniqueName: "Info"}},
	}

	core, logs := observer.New(zap.WarnLevel)
	lenient := gql.NewRegistry("Person", gql.WithRegistryLogger(zap.New(core)))
	require.NoError(t, lenient.ProjectOutputs(compile(t, fields, model.FullPolicy)))
	assert.Contains(t, lenient.OutputNames(), "Info")
	assert.Equal(t, 1, logs.FilterMessage("projected type name collision, keeping first").Len())

	strict := gql.NewRegistry("Person", gql.WithStrict(true))
	err := strict.ProjectOutputs(compile(t, fields, model.FullPolicy))
	var ce *lif.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Msg, "Info")
}

func TestRegistry_RootsMissing(t *testing.T) {
	reg := gql.NewRegistry("Person")
	_, err := reg.Roots()
	var ce *lif.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Person", ce.Root)
}

func TestRegistry_ReservedNamesRenamed(t *testing.T) {
	fields := []schema.Field{
		field("person.date", "xsd:string", true, true, "Past", "Future"),
		field("person.string", "xsd:string", true, true, "A", "B"),
		field("person.birthDate", "xsd:date", true, true),
		field("person.query.text", "xsd:string", true, true),
	}
	core, logs := observer.New(zap.WarnLevel)
	s, err := gql.BuildSchema(gql.Config{Root: "Person", Fields: fields, Backend: backend.Funcs{}, Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Equal(t, "Query", s.QueryType().Name())
	assert.Equal(t, []string{"Person", "QueryObject"}, s.Registry.OutputNames())
	assert.Equal(t, "Date", s.Type("Date").Name())

	person := s.Types.Output.Fields()
	assert.Equal(t, "PersonTypeDate", person["date"].Type.Name())
	assert.Equal(t, "PersonTypeString", person["string"].Type.Name())
	assert.Equal(t, "Date", person["birthDate"].Type.Name())
	assert.Equal(t, "QueryObject", person["query"].Type.Name())
	assert.Equal(t, 1, logs.FilterMessage("record name is reserved, renamed").Len())
}
