package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/model"
	"github.com/LIF-Initiative/lif-core/schema"
)

type inspectOptions struct {
	raw        bool
	jsonSchema bool
	policy     string
	validate   string
}

func newInspectCmd(opts *globalOptions) *cobra.Command {
	o := &inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show extracted fields and compiled records for the configured root",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, false)
			if err != nil {
				return err
			}
			defer a.close()
			fields, err := a.fields(cmd.Context())
			if err != nil {
				return err
			}
			return runInspect(cmd.OutOrStdout(), fields, a.cfg.ModelPolicies(), o)
		},
	}
	cmd.Flags().BoolVar(&o.raw, "raw", false, "dump the extracted fields verbatim")
	cmd.Flags().BoolVar(&o.jsonSchema, "json-schema", false, "print the JSON Schema of the root record of --policy")
	cmd.Flags().StringVar(&o.policy, "policy", "", "limit output to one policy (filter, mutation, full)")
	cmd.Flags().StringVar(&o.validate, "validate", "", "validate a backend response envelope (JSON file) against the full records")
	return cmd
}

func runInspect(w io.Writer, fields []schema.Field, ps model.Policies, o *inspectOptions) error {
	if o.raw {
		spew.Fdump(w, fields)
		return nil
	}
	sets, err := model.NewCompiler().CompileAll(fields, ps)
	if err != nil {
		return err
	}
	if o.validate != "" {
		return validateEnvelope(w, sets.Full, o.validate)
	}

	selected := map[string]*model.Set{"filter": sets.Filter, "mutation": sets.Mutation, "full": sets.Full}
	order := []string{"filter", "mutation", "full"}
	if o.policy != "" {
		if _, ok := selected[o.policy]; !ok {
			return fmt.Errorf("unknown policy %q: want filter, mutation or full", o.policy)
		}
		order = []string{o.policy}
	}

	if o.jsonSchema {
		if len(order) != 1 {
			return fmt.Errorf("--json-schema needs --policy")
		}
		rec, ok := selected[order[0]].RootRecord()
		if !ok {
			return fmt.Errorf("policy %s produced no root record", order[0])
		}
		b, err := json.MarshalIndent(rec.JSONSchema(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	heading := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)
	heading.Fprintf(w, "Fields (%d)\n", len(fields))
	for _, f := range fields {
		if f.JSONPath == "" {
			continue
		}
		fmt.Fprintf(w, "  %s\n", f)
	}
	for _, name := range order {
		set := selected[name]
		fmt.Fprintln(w)
		heading.Fprintf(w, "%s records (%d)\n", strings.ToUpper(name[:1])+name[1:], set.Len())
		for _, rec := range set.Records() {
			fmt.Fprintf(w, "  %s ", rec)
			dim.Fprintf(w, "key=%s extra=%s\n", rec.Key, rec.Unknown())
		}
	}
	return nil
}

// validateEnvelope checks a planner response of the form {"<root>": [...]}
// against the full wrapper record.
func validateEnvelope(w io.Writer, full *model.Set, path string) error {
	wrapper, ok := full.Wrapper()
	if !ok {
		return fmt.Errorf("no full records compiled")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var env map[string]any
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err := wrapper.New(env); err != nil {
		if iss, ok := lif.AsIssues(err); ok {
			bad := color.New(color.FgRed)
			for _, it := range iss {
				bad.Fprintf(w, "%s %s", it.Code, it.Path)
				fmt.Fprintf(w, " %s\n", it.Message)
			}
		}
		return fmt.Errorf("%s: envelope is invalid", path)
	}
	color.New(color.FgGreen).Fprintf(w, "%s: valid\n", path)
	return nil
}
