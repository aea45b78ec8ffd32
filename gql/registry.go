package gql

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/internal/strcase"
	"github.com/LIF-Initiative/lif-core/model"
)

// Registry holds the graphql types projected from compiled records. One
// Registry serves one root entity and one schema build.
type Registry struct {
	root   string
	strict bool
	log    *zap.Logger

	outputs   map[string]*graphql.Object
	outputSrc map[string]*model.Record
	inputs    map[string]*graphql.InputObject
	inputSrc  map[string]*model.Record
	enums     map[*model.Enum]*graphql.Enum
	taken     map[string]bool
	order     []graphql.Type
}

// reservedNames are the operation roots and the scalars every schema
// carries. Projected types never take them.
var reservedNames = []string{
	"Query", "Mutation", "Subscription",
	"String", "Int", "Float", "Boolean", "ID",
	"Date", "DateTime",
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStrict makes structurally different records that project to the same
// type name an error instead of a logged warning.
func WithStrict(strict bool) RegistryOption {
	return func(r *Registry) { r.strict = strict }
}

// WithRegistryLogger sets the logger used for collision warnings.
func WithRegistryLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns an empty registry for root ("Person").
func NewRegistry(root string, opts ...RegistryOption) *Registry {
	r := &Registry{
		root:      root,
		log:       zap.NewNop(),
		outputs:   map[string]*graphql.Object{},
		outputSrc: map[string]*model.Record{},
		inputs:    map[string]*graphql.InputObject{},
		inputSrc:  map[string]*model.Record{},
		enums:     map[*model.Enum]*graphql.Enum{},
		taken:     map[string]bool{},
	}
	for _, n := range reservedNames {
		r.taken[n] = true
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// outputName is the read type name for a record key. A name reserved by the
// schema itself gets an "Object" suffix.
func (r *Registry) outputName(key string) string {
	name := OutputTypeName(key)
	for _, n := range reservedNames {
		if n == name {
			return name + "Object"
		}
	}
	return name
}

// ProjectOutputs registers a read type for every non-wrapper record in set.
func (r *Registry) ProjectOutputs(set *model.Set) error {
	for _, rec := range set.Records() {
		if !rec.Wrapper {
			r.taken[r.outputName(rec.Key)] = true
		}
	}
	for _, rec := range set.Records() {
		if rec.Wrapper {
			continue
		}
		if _, err := r.object(rec); err != nil {
			return err
		}
	}
	return nil
}

// ProjectInputs registers an input type for every non-wrapper record in set,
// named with UniqueTypeName and suffix.
func (r *Registry) ProjectInputs(set *model.Set, suffix string) error {
	for _, rec := range set.Records() {
		if !rec.Wrapper {
			r.taken[r.inputName(rec, suffix)] = true
		}
	}
	for _, rec := range set.Records() {
		if rec.Wrapper {
			continue
		}
		if _, err := r.input(rec, suffix); err != nil {
			return err
		}
	}
	return nil
}

// Output returns the read type registered under name.
func (r *Registry) Output(name string) (*graphql.Object, bool) {
	o, ok := r.outputs[name]
	return o, ok
}

// Input returns the input type registered under name.
func (r *Registry) Input(name string) (*graphql.InputObject, bool) {
	in, ok := r.inputs[name]
	return in, ok
}

// OutputNames lists registered read type names, sorted.
func (r *Registry) OutputNames() []string { return sortedKeys(r.outputs) }

// InputNames lists registered input type names, sorted.
func (r *Registry) InputNames() []string { return sortedKeys(r.inputs) }

// Types returns every projected type in creation order.
func (r *Registry) Types() []graphql.Type { return append([]graphql.Type(nil), r.order...) }

// RootTypes are the three canonical types of the root entity.
type RootTypes struct {
	Output   *graphql.Object
	Filter   *graphql.InputObject
	Mutation *graphql.InputObject
}

// Roots locates the root entity's read, filter and mutation types.
func (r *Registry) Roots() (RootTypes, error) {
	rootName := strcase.PascalFromString(r.root)
	outName := r.outputName(r.root)
	out, ok := r.outputs[outName]
	if !ok {
		return RootTypes{}, &lif.ConfigError{Root: r.root, Msg: fmt.Sprintf("no read type %q", outName), Available: r.OutputNames()}
	}
	fname := UniqueTypeName(rootName, SuffixFilterInput, r.root)
	filter, ok := r.inputs[fname]
	if !ok {
		return RootTypes{}, &lif.ConfigError{Root: r.root, Msg: fmt.Sprintf("no filter input %q", fname), Available: r.InputNames()}
	}
	mname := UniqueTypeName(rootName, SuffixMutationInput, r.root)
	mutation, ok := r.inputs[mname]
	if !ok {
		return RootTypes{}, &lif.ConfigError{Root: r.root, Msg: fmt.Sprintf("no mutation input %q", mname), Available: r.InputNames()}
	}
	return RootTypes{Output: out, Filter: filter, Mutation: mutation}, nil
}

func (r *Registry) object(rec *model.Record) (*graphql.Object, error) {
	name := r.outputName(rec.Key)
	if o, ok := r.outputs[name]; ok {
		return o, r.collision(name, r.outputSrc[name], rec)
	}
	if name != OutputTypeName(rec.Key) {
		r.log.Warn("record name is reserved, renamed",
			zap.String("path", rec.Path), zap.String("name", name))
	}
	fields := graphql.Fields{}
	for _, f := range rec.Fields {
		t, err := r.outputType(rec, f)
		if err != nil {
			return nil, err
		}
		fields[f.Name] = &graphql.Field{
			Type:        t,
			Description: f.Description,
			Resolve:     resolveKey(f.Name),
		}
	}
	o := graphql.NewObject(graphql.ObjectConfig{
		Name:        name,
		Description: rec.Description,
		Fields:      fields,
	})
	r.outputs[name] = o
	r.outputSrc[name] = rec
	r.taken[name] = true
	r.order = append(r.order, o)
	return o, nil
}

func (r *Registry) input(rec *model.Record, suffix string) (*graphql.InputObject, error) {
	name := r.inputName(rec, suffix)
	if in, ok := r.inputs[name]; ok {
		return in, r.collision(name, r.inputSrc[name], rec)
	}
	fields := graphql.InputObjectConfigFieldMap{}
	for _, f := range rec.Fields {
		var elem graphql.Input
		switch f.Type.Kind {
		case model.KindRecord:
			nested, err := r.input(f.Type.Record, suffix)
			if err != nil {
				return nil, err
			}
			elem = nested
		case model.KindEnum:
			elem = r.enum(f.Type.Enum, rec.Name)
		default:
			elem = scalarFor(f.Type.Kind)
		}
		fields[f.Name] = &graphql.InputObjectFieldConfig{
			Type:        wrapInput(elem, f),
			Description: f.Description,
		}
	}
	in := graphql.NewInputObject(graphql.InputObjectConfig{
		Name:        name,
		Description: rec.Description,
		Fields:      fields,
	})
	r.inputs[name] = in
	r.inputSrc[name] = rec
	r.taken[name] = true
	r.order = append(r.order, in)
	return in, nil
}

func (r *Registry) outputType(parent *model.Record, f model.Field) (graphql.Output, error) {
	var elem graphql.Output
	switch f.Type.Kind {
	case model.KindRecord:
		o, err := r.object(f.Type.Record)
		if err != nil {
			return nil, err
		}
		elem = o
	case model.KindEnum:
		elem = r.enum(f.Type.Enum, parent.Name)
	default:
		elem = scalarFor(f.Type.Kind)
	}
	if f.Type.List {
		if !f.Type.Nullable {
			elem = graphql.NewNonNull(elem)
		}
		elem = graphql.NewList(elem)
	}
	if !f.Optional {
		elem = graphql.NewNonNull(elem)
	}
	return elem, nil
}

func (r *Registry) inputName(rec *model.Record, suffix string) string {
	return strcase.PascalFromString(UniqueTypeName(rec.Key, suffix, r.root))
}

func wrapInput(elem graphql.Input, f model.Field) graphql.Input {
	if f.Type.List {
		if !f.Type.Nullable {
			elem = graphql.NewNonNull(elem)
		}
		elem = graphql.NewList(elem)
	}
	if !f.Optional {
		elem = graphql.NewNonNull(elem)
	}
	return elem
}

// enum projects e once. A name already used by another type is prefixed
// with the owning record's name, then numbered.
func (r *Registry) enum(e *model.Enum, owner string) *graphql.Enum {
	if ge, ok := r.enums[e]; ok {
		return ge
	}
	name := e.Name
	if r.taken[name] {
		name = owner + e.Name
		for i := 2; r.taken[name]; i++ {
			name = owner + e.Name + strconv.Itoa(i)
		}
		r.log.Warn("enum name already taken, renamed",
			zap.String("enum", e.Name), zap.String("name", name))
	}
	values := graphql.EnumValueConfigMap{}
	for _, m := range e.Members {
		values[m.Name] = &graphql.EnumValueConfig{Value: m.Value}
	}
	ge := graphql.NewEnum(graphql.EnumConfig{Name: name, Values: values})
	r.enums[e] = ge
	r.taken[name] = true
	r.order = append(r.order, ge)
	return ge
}

// collision keeps the first projected type. Records of a different shape are
// reported, and rejected in strict mode.
func (r *Registry) collision(name string, first, later *model.Record) error {
	if first == later || sameShape(first, later) {
		return nil
	}
	if r.strict {
		return &lif.ConfigError{
			Root: r.root,
			Msg:  fmt.Sprintf("records %q and %q both project to type %s with different fields", first.Path, later.Path, name),
		}
	}
	r.log.Warn("projected type name collision, keeping first",
		zap.String("type", name), zap.String("kept", first.Path), zap.String("dropped", later.Path))
	return nil
}

func sameShape(a, b *model.Record) bool {
	if a == b {
		return true
	}
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i, fa := range a.Fields {
		fb := b.Fields[i]
		if fa.Name != fb.Name || fa.Optional != fb.Optional ||
			fa.Type.Kind != fb.Type.Kind || fa.Type.List != fb.Type.List || fa.Type.Nullable != fb.Type.Nullable {
			return false
		}
		switch fa.Type.Kind {
		case model.KindEnum:
			if fa.Type.Enum != fb.Type.Enum {
				return false
			}
		case model.KindRecord:
			if !sameShape(fa.Type.Record, fb.Type.Record) {
				return false
			}
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
