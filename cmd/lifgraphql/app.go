package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/LIF-Initiative/lif-core/backend"
	"github.com/LIF-Initiative/lif-core/config"
	"github.com/LIF-Initiative/lif-core/gql"
	"github.com/LIF-Initiative/lif-core/internal/logging"
	"github.com/LIF-Initiative/lif-core/schema"
	"github.com/LIF-Initiative/lif-core/source"
)

type app struct {
	cfg     *config.Config
	log     *zap.Logger
	closers []func() error
}

// newApp loads configuration. Offline commands pass validate=false since
// they never reach the query planner.
func newApp(opts *globalOptions, validate bool) (*app, error) {
	load := config.Read
	if validate {
		load = config.Load
	}
	cfg, err := load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log}, nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c()
	}
	_ = a.log.Sync()
}

func (a *app) registry() *source.Registry {
	return source.NewRegistry(a.cfg.MDR.APIURL, a.cfg.MDR.DataModelID, a.cfg.MDR.AuthToken,
		source.WithRegistryLogger(a.log))
}

// provider wires the configured schema source: the file alone when use_file
// is set, otherwise the registry (cached when Redis is configured) with the
// file as fallback.
func (a *app) provider() source.Provider {
	if a.cfg.OpenAPI.UseFile {
		return source.NewFile(a.cfg.OpenAPI.File)
	}
	var primary source.Provider = a.registry()
	if addr := a.cfg.Cache.RedisAddr; addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		a.closers = append(a.closers, client.Close)
		primary = source.NewCached(primary, source.NewRedisCache(client, ""), a.cfg.MDR.DataModelID, a.cfg.Cache.TTL, a.log)
	}
	var secondary source.Provider
	if a.cfg.OpenAPI.File != "" {
		secondary = source.NewFile(a.cfg.OpenAPI.File)
	}
	return source.NewFallback(primary, secondary, a.log)
}

func (a *app) fields(ctx context.Context) ([]schema.Field, error) {
	p := a.provider()
	fields, diag, err := source.Fields(ctx, p, a.cfg.RootTypeName)
	if err != nil {
		return nil, err
	}
	if diag != nil {
		for _, w := range diag.Warnings() {
			a.log.Warn("schema document", zap.String("warning", w))
		}
	}
	a.log.Info("schema fields loaded",
		zap.String("source", p.Name()),
		zap.String("root", a.cfg.RootTypeName),
		zap.Int("fields", len(fields)))
	return fields, nil
}

func (a *app) buildSchema(ctx context.Context, be backend.Backend) (*gql.Schema, error) {
	fields, err := a.fields(ctx)
	if err != nil {
		return nil, err
	}
	return gql.BuildSchema(gql.Config{
		Root:     a.cfg.RootTypeName,
		Fields:   fields,
		Backend:  be,
		Policies: a.cfg.ModelPolicies(),
		Logger:   a.log,
		Strict:   a.cfg.GraphQL.Strict,
	})
}
