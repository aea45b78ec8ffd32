package gql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/graphql-go/graphql"
)

var builtinScalars = map[string]bool{
	"String": true, "Int": true, "Float": true, "Boolean": true, "ID": true,
}

// PrintSchema renders s as SDL. Types are ordered by kind (scalars, enums,
// inputs, objects) and then by name; introspection types are omitted.
func PrintSchema(s graphql.Schema) string {
	tm := s.TypeMap()
	names := make([]string, 0, len(tm))
	for name := range tm {
		if strings.HasPrefix(name, "__") || builtinScalars[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := kindRank(tm[names[i]]), kindRank(tm[names[j]])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})

	var b strings.Builder
	b.WriteString("schema {\n")
	if q := s.QueryType(); q != nil {
		fmt.Fprintf(&b, "  query: %s\n", q.Name())
	}
	if m := s.MutationType(); m != nil {
		fmt.Fprintf(&b, "  mutation: %s\n", m.Name())
	}
	b.WriteString("}\n")
	for _, name := range names {
		b.WriteString("\n")
		printType(&b, tm[name])
	}
	return b.String()
}

func kindRank(t graphql.Type) int {
	switch t.(type) {
	case *graphql.Scalar:
		return 0
	case *graphql.Enum:
		return 1
	case *graphql.InputObject:
		return 2
	default:
		return 3
	}
}

func printType(b *strings.Builder, t graphql.Type) {
	printDescription(b, "", t.Description())
	switch tt := t.(type) {
	case *graphql.Scalar:
		fmt.Fprintf(b, "scalar %s\n", tt.Name())
	case *graphql.Enum:
		fmt.Fprintf(b, "enum %s {\n", tt.Name())
		vals := append([]*graphql.EnumValueDefinition(nil), tt.Values()...)
		sort.Slice(vals, func(i, j int) bool { return vals[i].Name < vals[j].Name })
		for _, v := range vals {
			fmt.Fprintf(b, "  %s\n", v.Name)
		}
		b.WriteString("}\n")
	case *graphql.InputObject:
		fmt.Fprintf(b, "input %s {\n", tt.Name())
		fields := tt.Fields()
		for _, name := range sortedKeys(fields) {
			f := fields[name]
			printDescription(b, "  ", f.Description())
			fmt.Fprintf(b, "  %s: %s\n", name, f.Type.String())
		}
		b.WriteString("}\n")
	case *graphql.Object:
		fmt.Fprintf(b, "type %s {\n", tt.Name())
		fields := tt.Fields()
		for _, name := range sortedKeys(fields) {
			f := fields[name]
			printDescription(b, "  ", f.Description)
			fmt.Fprintf(b, "  %s%s: %s\n", name, printArgs(f.Args), f.Type.String())
		}
		b.WriteString("}\n")
	}
}

func printArgs(args []*graphql.Argument) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, a.Name()+": "+a.Type.String())
	}
	sort.Strings(parts)
	return "(" + strings.Join(parts, ", ") + ")"
}

func printDescription(b *strings.Builder, indent, desc string) {
	if desc == "" {
		return
	}
	// block strings take backslashes and quotes literally
	if !strings.ContainsAny(desc, "\n\"\\") {
		fmt.Fprintf(b, "%s\"%s\"\n", indent, desc)
		return
	}
	fmt.Fprintf(b, "%s\"\"\"\n", indent)
	for _, line := range strings.Split(desc, "\n") {
		fmt.Fprintf(b, "%s%s\n", indent, strings.ReplaceAll(line, `"""`, `\"""`))
	}
	fmt.Fprintf(b, "%s\"\"\"\n", indent)
}
