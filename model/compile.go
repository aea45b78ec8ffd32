package model

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/internal/strcase"
	"github.com/LIF-Initiative/lif-core/schema"
)

// Compiler turns flattened schema fields into record Sets. It owns the
// EnumCache shared by every Set it compiles; build one per schema load.
type Compiler struct {
	enums *EnumCache
	log   *zap.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for collision diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.log = l
		}
	}
}

// WithEnumCache shares an existing enum cache.
func WithEnumCache(ec *EnumCache) Option {
	return func(c *Compiler) {
		if ec != nil {
			c.enums = ec
		}
	}
}

// NewCompiler returns a Compiler with a fresh EnumCache.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	if c.enums == nil {
		c.enums = NewEnumCache(c.log)
	}
	return c
}

// Enums returns the compiler's enum cache.
func (c *Compiler) Enums() *EnumCache { return c.enums }

// Policies bundles the three policies compiled at startup.
type Policies struct {
	Filter   Policy
	Mutation Policy
	Full     Policy
}

// DefaultPolicies returns FilterPolicy, MutationPolicy and FullPolicy.
func DefaultPolicies() Policies {
	return Policies{Filter: FilterPolicy, Mutation: MutationPolicy, Full: FullPolicy}
}

// Sets holds one compiled Set per policy.
type Sets struct {
	Filter   *Set
	Mutation *Set
	Full     *Set
}

// CompileAll compiles fields under each policy. Errors from all three passes
// are combined.
func (c *Compiler) CompileAll(fields []schema.Field, ps Policies) (Sets, error) {
	var (
		out  Sets
		err  error
		errs error
	)
	out.Filter, err = c.Compile(fields, ps.Filter)
	errs = multierr.Append(errs, err)
	out.Mutation, err = c.Compile(fields, ps.Mutation)
	errs = multierr.Append(errs, err)
	out.Full, err = c.Compile(fields, ps.Full)
	errs = multierr.Append(errs, err)
	return out, errs
}

// node is one segment of the path tree rebuilt from the selected fields.
type node struct {
	seg      string
	children []*node
	byName   map[string]*node
	anchor   *anchor
}

func (n *node) child(seg string) *node {
	if c, ok := n.byName[seg]; ok {
		return c
	}
	if n.byName == nil {
		n.byName = map[string]*node{}
	}
	c := &node{seg: seg}
	n.byName[seg] = c
	n.children = append(n.children, c)
	return c
}

// anchor merges every selected field that shares one path, such as an array
// container and the schema of its items.
type anchor struct {
	attrs       schema.Attributes
	description string
	array       bool
	object      bool
}

func (n *node) merge(f schema.Field) {
	a := f.Attributes
	if n.anchor == nil {
		n.anchor = &anchor{attrs: a, description: f.Description, array: a.IsArray(), object: isObject(a)}
		return
	}
	cur := n.anchor
	cur.array = cur.array || a.IsArray()
	if !cur.attrs.HasEnum() && a.HasEnum() {
		cur.attrs.Enum = a.Enum
	}
	if cur.attrs.DataType == schema.DefaultDataType && a.DataType != schema.DefaultDataType {
		cur.attrs.DataType = a.DataType
	}
	if cur.attrs.UniqueName == "" {
		cur.attrs.UniqueName = a.UniqueName
	}
	if cur.description == "" {
		cur.description = f.Description
	}
	cur.object = cur.object || isObject(a)
}

func isObject(a schema.Attributes) bool { return a.Branch && a.Type == "object" }

// Compile builds the record Set for one policy. Fields are filtered by the
// policy flag and regrouped by dotted path; every selected path must share a
// single top-level segment. No participating fields yields an empty Set.
func (c *Compiler) Compile(fields []schema.Field, p Policy) (*Set, error) {
	tree := &node{}
	firstPath := map[string]string{}
	// containers holds every path with descendants before filtering.
	containers := map[string]bool{}
	for _, f := range fields {
		if f.JSONPath == "" {
			continue
		}
		parts := strings.Split(f.JSONPath, ".")
		for i := 1; i < len(parts); i++ {
			containers[strings.Join(parts[:i], ".")] = true
		}
		if p.Flag != "" && !f.Attributes.Flag(p.Flag) {
			continue
		}
		n := tree
		for _, part := range parts {
			n = n.child(part)
		}
		n.merge(f)
		if _, ok := firstPath[parts[0]]; !ok {
			firstPath[parts[0]] = f.JSONPath
		}
	}
	if len(tree.children) == 0 {
		return newSet("", p), nil
	}
	if len(tree.children) > 1 {
		roots := make([]string, 0, len(tree.children))
		conflicts := make([]string, 0, len(tree.children))
		for _, r := range tree.children {
			roots = append(roots, r.seg)
			conflicts = append(conflicts, fmt.Sprintf("%s (%s)", r.seg, firstPath[r.seg]))
		}
		return nil, &lif.ConfigError{
			Msg:       fmt.Sprintf("%s fields must share a single root, found %s", selectionLabel(p), strings.Join(conflicts, ", ")),
			Available: roots,
		}
	}

	root := tree.children[0]
	b := &builder{c: c, p: p, set: newSet(root.seg, p), containers: containers}
	rec := b.build(root, []string{root.seg})
	if rec == nil {
		return newSet("", p), nil
	}
	rec.Key = root.seg
	b.set.add(rec)

	w := &Record{
		Name:        b.typeName(strcase.ToPascal(root.seg) + "Wrapper"),
		Key:         WrapperKey(root.seg),
		Description: fmt.Sprintf("Top-level wrapper with `%s` field.", root.seg),
		AllowExtra:  p.AllowExtra,
		Wrapper:     true,
	}
	w.addField(Field{
		Name:     root.seg,
		Type:     FieldType{Kind: KindRecord, Record: rec, List: true, Nullable: p.AllOptional},
		Optional: p.AllOptional,
	})
	b.set.add(w)
	return b.set, nil
}

func selectionLabel(p Policy) string {
	if p.Flag == "" {
		return "selected"
	}
	return p.Flag
}

type builder struct {
	c          *Compiler
	p          Policy
	set        *Set
	containers map[string]bool
}

func (b *builder) typeName(base string) string {
	if b.p.Suffix != "" && !strings.HasSuffix(base, b.p.Suffix) {
		return base + b.p.Suffix
	}
	return base
}

// build compiles the record for n, registering nested records in the Set.
// It returns nil when no field survives.
func (b *builder) build(n *node, path []string) *Record {
	stripped := path[1:]
	base := strcase.ToPascal(stripped...)
	if len(stripped) == 0 || base == "" {
		base = strcase.ToPascal(path[0])
	}
	rec := &Record{
		Name:       b.typeName(base),
		Path:       strings.Join(path, "."),
		AllowExtra: b.p.AllowExtra,
	}
	if n.anchor != nil {
		rec.Description = n.anchor.description
	}
	if rec.Description == "" {
		rec.Description = fmt.Sprintf("%s for `%s`.", b.p.Doc, rec.Name)
	}

	for _, ch := range n.children {
		chPath := append(append([]string(nil), path...), ch.seg)
		if len(ch.children) == 0 {
			if b.containers[strings.Join(chPath, ".")] {
				// every descendant was filtered out
				continue
			}
			if f, ok := b.leaf(ch); ok {
				rec.addField(f)
			}
			continue
		}
		nested := b.build(ch, chPath)
		if nested == nil {
			continue
		}
		isArray := ch.anchor != nil && ch.anchor.array
		f := Field{
			Name:     ch.seg,
			Type:     FieldType{Kind: KindRecord, Record: nested, List: isArray, Nullable: isArray && b.p.AllOptional},
			Optional: b.p.AllOptional,
		}
		if ch.anchor != nil {
			f.Description = ch.anchor.description
		}
		rec.addField(f)
	}
	if len(rec.Fields) == 0 {
		return nil
	}

	if len(stripped) > 0 {
		rec.Key = b.identity(n, stripped, rec.Name)
		if rec.Key == b.set.Root || rec.Key == WrapperKey(b.set.Root) {
			b.c.log.Warn("nested record identity shadows the root, using type name",
				zap.String("path", rec.Path), zap.String("key", rec.Key))
			rec.Key = rec.Name
		}
		if !b.set.add(rec) {
			b.c.log.Debug("record identity already registered, keeping first",
				zap.String("policy", b.p.Name), zap.String("key", rec.Key), zap.String("path", rec.Path))
		}
	}
	return rec
}

func (b *builder) identity(n *node, stripped []string, name string) string {
	if n.anchor != nil && n.anchor.attrs.UniqueName != "" {
		return n.anchor.attrs.UniqueName
	}
	if k := strings.Join(stripped, "."); k != "" {
		return k
	}
	return name
}

// leaf compiles a childless node into a field. A selected object whose
// properties were all filtered out contributes nothing; an array whose item
// schema was not selected compiles as a list of scalars.
func (b *builder) leaf(n *node) (Field, bool) {
	if n.anchor == nil || n.anchor.object {
		return Field{}, false
	}
	a := n.anchor.attrs
	ft := FieldType{Kind: KindOf(a.DataType)}
	if a.HasEnum() {
		ft = FieldType{Kind: KindEnum, Enum: b.c.enums.Make(strcase.ToPascal(n.seg), a.Enum)}
	}
	ft.List = n.anchor.array
	ft.Nullable = ft.List && b.p.AllOptional
	return Field{
		Name:        n.seg,
		Type:        ft,
		Optional:    b.p.AllOptional,
		Description: n.anchor.description,
	}, true
}
