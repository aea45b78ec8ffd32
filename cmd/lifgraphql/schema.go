package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LIF-Initiative/lif-core/backend"
	"github.com/LIF-Initiative/lif-core/gql"
	"github.com/LIF-Initiative/lif-core/source"
)

// offlineBackend backs schemas built for tooling; it is never called.
var offlineBackend = backend.Funcs{}

func newSchemaCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Work with the schema document and the generated GraphQL schema",
	}
	cmd.AddCommand(newSchemaDumpCmd(opts), newSchemaPullCmd(opts))
	return cmd
}

func newSchemaDumpCmd(opts *globalOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the generated GraphQL schema as SDL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, false)
			if err != nil {
				return err
			}
			defer a.close()
			s, err := a.buildSchema(cmd.Context(), offlineBackend)
			if err != nil {
				return err
			}
			if out != "" {
				return writeSDL(out, s)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), gql.PrintSchema(s.Schema))
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write SDL to this file instead of stdout")
	return cmd
}

func newSchemaPullCmd(opts *globalOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download the data model from the MDR into a local snapshot file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, false)
			if err != nil {
				return err
			}
			defer a.close()
			if out == "" {
				out = a.cfg.OpenAPI.File
			}
			if out == "" {
				return fmt.Errorf("no output path: pass --output or set openapi.file")
			}
			body, err := a.registry().Fetch(cmd.Context())
			if err != nil {
				return err
			}
			if err := source.WriteSnapshot(cmd.Context(), out, body); err != nil {
				return err
			}
			a.log.Info("schema snapshot written", zap.String("path", out), zap.Int("bytes", len(body)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "snapshot path (default: openapi.file)")
	return cmd
}
