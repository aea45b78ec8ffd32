package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LIF-Initiative/lif-core/backend"
	"github.com/LIF-Initiative/lif-core/gql"
	"github.com/LIF-Initiative/lif-core/internal/server"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var graphiql bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated GraphQL API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, true)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			be := backend.NewHTTP(a.cfg.QueryURL(), a.cfg.UpdateURL(), a.cfg.RootTypeName,
				backend.WithTimeout(a.cfg.QueryPlanner.Timeout),
				backend.WithLogger(a.log))
			s, err := a.buildSchema(ctx, be)
			if err != nil {
				return err
			}
			if a.cfg.GraphQL.DumpSchema {
				if err := writeSDL(a.cfg.GraphQL.DumpPath, s); err != nil {
					return err
				}
				a.log.Info("wrote schema", zap.String("path", a.cfg.GraphQL.DumpPath))
			}
			a.log.Info("graphql api ready",
				zap.String("root", s.Root),
				zap.String("query", a.cfg.QueryURL()),
				zap.String("update", a.cfg.UpdateURL()),
				zap.String("path", a.cfg.Server.Path))

			h := server.New(s, server.Options{Path: a.cfg.Server.Path, Logger: a.log, GraphiQL: graphiql})
			return server.Run(ctx, a.cfg.Server.Addr, h, a.log)
		},
	}
	cmd.Flags().BoolVar(&graphiql, "graphiql", false, "serve the GraphiQL IDE on GET requests")
	return cmd
}

func writeSDL(path string, s *gql.Schema) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(gql.PrintSchema(s.Schema)), 0o644)
}
