package gql

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/backend"
	"github.com/LIF-Initiative/lif-core/internal/strcase"
	"github.com/LIF-Initiative/lif-core/model"
	"github.com/LIF-Initiative/lif-core/schema"
)

// Config describes one schema build.
type Config struct {
	Root     string // root entity, for example "Person"
	Fields   []schema.Field
	Backend  backend.Backend
	Policies model.Policies // zero value selects model.DefaultPolicies
	Compiler *model.Compiler
	Logger   *zap.Logger
	// Strict fails the build when two structurally different records
	// project to the same type name.
	Strict bool
}

// Schema is the executable schema plus the artifacts it was built from.
type Schema struct {
	graphql.Schema

	Root       string
	Operations Operations
	Sets       model.Sets
	Registry   *Registry
	Types      RootTypes
}

// BuildSchema compiles cfg.Fields under the three policies, projects them
// and mounts the query (single and list lookup) and mutation (update) roots
// against cfg.Backend.
func BuildSchema(cfg Config) (*Schema, error) {
	if cfg.Root == "" {
		return nil, &lif.ConfigError{Msg: "root entity name is empty"}
	}
	if cfg.Backend == nil {
		return nil, &lif.ConfigError{Root: cfg.Root, Msg: "backend is nil"}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	comp := cfg.Compiler
	if comp == nil {
		comp = model.NewCompiler(model.WithLogger(log))
	}
	ps := cfg.Policies
	if ps == (model.Policies{}) {
		ps = model.DefaultPolicies()
	}

	sets, err := comp.CompileAll(cfg.Fields, ps)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry(cfg.Root, WithStrict(cfg.Strict), WithRegistryLogger(log))
	if err := reg.ProjectOutputs(sets.Full); err != nil {
		return nil, err
	}
	if err := reg.ProjectInputs(sets.Filter, SuffixFilterInput); err != nil {
		return nil, err
	}
	if err := reg.ProjectInputs(sets.Mutation, SuffixMutationInput); err != nil {
		return nil, err
	}
	roots, err := reg.Roots()
	if err != nil {
		return nil, err
	}

	rs := &resolvers{
		be:       cfg.Backend,
		log:      log,
		seg:      strcase.LowerFirst(cfg.Root),
		ops:      OperationNames(cfg.Root),
		full:     mustRoot(sets.Full),
		filter:   mustRoot(sets.Filter),
		mutation: mustRoot(sets.Mutation),
	}
	filterArg := &graphql.ArgumentConfig{Type: graphql.NewNonNull(roots.Filter)}
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			rs.ops.List: &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(roots.Output))),
				Args:    graphql.FieldConfigArgument{"filter": filterArg},
				Resolve: rs.list,
			},
			rs.ops.Single: &graphql.Field{
				Type:    roots.Output,
				Args:    graphql.FieldConfigArgument{"filter": filterArg},
				Resolve: rs.single,
			},
		},
	})
	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			rs.ops.Update: &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(roots.Output))),
				Args: graphql.FieldConfigArgument{
					"filter": filterArg,
					"input":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(roots.Mutation)},
				},
				Resolve: rs.update,
			},
		},
	})
	gs, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
		Types:    reg.Types(),
	})
	if err != nil {
		return nil, fmt.Errorf("gql: build schema: %w", err)
	}
	log.Info("graphql schema built",
		zap.String("root", cfg.Root),
		zap.Int("types", len(reg.Types())),
		zap.Int("full_records", sets.Full.Len()),
		zap.Int("filter_records", sets.Filter.Len()),
		zap.Int("mutation_records", sets.Mutation.Len()))
	return &Schema{
		Schema:     gs,
		Root:       cfg.Root,
		Operations: rs.ops,
		Sets:       sets,
		Registry:   reg,
		Types:      roots,
	}, nil
}

// mustRoot is only called after Roots succeeded, which implies every set has
// a root record.
func mustRoot(s *model.Set) *model.Record {
	r, _ := s.RootRecord()
	return r
}

type resolvers struct {
	be                     backend.Backend
	log                    *zap.Logger
	seg                    string
	ops                    Operations
	full, filter, mutation *model.Record
}

func (rs *resolvers) list(p graphql.ResolveParams) (any, error) {
	return rs.query(p)
}

func (rs *resolvers) single(p graphql.ResolveParams) (any, error) {
	out, err := rs.query(p)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

func (rs *resolvers) query(p graphql.ResolveParams) ([]any, error) {
	ctx := contextOf(p)
	filter, err := validated(ctx, rs.filter, p.Args["filter"])
	if err != nil {
		return nil, err
	}
	selected := SelectedPaths(p.Info.FieldASTs, p.Info.Fragments, rs.seg)
	raws, err := rs.be.Query(ctx, filter, selected)
	if err != nil {
		return nil, err
	}
	return rs.toFull(ctx, raws)
}

func (rs *resolvers) update(p graphql.ResolveParams) (any, error) {
	ctx := contextOf(p)
	filter, err := validated(ctx, rs.filter, p.Args["filter"])
	if err != nil {
		return nil, err
	}
	input, err := validated(ctx, rs.mutation, p.Args["input"])
	if err != nil {
		return nil, err
	}
	selected := SelectedPaths(p.Info.FieldASTs, p.Info.Fragments, rs.seg)
	raws, err := rs.be.Update(ctx, filter, input, selected)
	if err != nil {
		return nil, err
	}
	return rs.toFull(ctx, raws)
}

// toFull validates backend records against the full root record, keeping
// backend order.
func (rs *resolvers) toFull(ctx context.Context, raws []map[string]any) ([]any, error) {
	out := make([]any, 0, len(raws))
	for i, raw := range raws {
		inst, err := rs.full.Parse(ctx, raw)
		if err != nil {
			rs.log.Warn("backend record failed validation", zap.Int("index", i), zap.Error(err))
			return nil, fmt.Errorf("backend record %d: %w", i, err)
		}
		out = append(out, inst)
	}
	return out, nil
}

// validated normalizes an argument and checks it against rec before any
// backend call. A missing argument yields nil.
func validated(ctx context.Context, rec *model.Record, arg any) (map[string]any, error) {
	if arg == nil {
		return nil, nil
	}
	inst, err := rec.Parse(ctx, Normalize(arg))
	if err != nil {
		return nil, err
	}
	return inst.Serialize(), nil
}

func contextOf(p graphql.ResolveParams) context.Context {
	if p.Context != nil {
		return p.Context
	}
	return context.Background()
}
