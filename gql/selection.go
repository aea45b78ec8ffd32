package gql

import (
	"sort"
	"strings"

	"github.com/graphql-go/graphql/language/ast"
)

// SelectedPaths returns the dotted paths requested beneath fields, each
// prefixed with prefix. Fragment spreads and inline fragments contribute
// their selections at the position where they appear; __typename is skipped.
// The result is sorted and free of duplicates.
//
// For { a { b } c ...F } with fragment F { d } and no prefix the result is
// [a a.b c d].
func SelectedPaths(fields []*ast.Field, fragments map[string]ast.Definition, prefix ...string) []string {
	seen := map[string]struct{}{}
	for _, f := range fields {
		if f == nil {
			continue
		}
		collect(f.SelectionSet, fragments, prefix, seen, map[string]bool{})
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func collect(set *ast.SelectionSet, fragments map[string]ast.Definition, prefix []string, seen map[string]struct{}, active map[string]bool) {
	if set == nil {
		return
	}
	for _, sel := range set.Selections {
		switch s := sel.(type) {
		case *ast.Field:
			name := s.Name.Value
			if name == "__typename" {
				continue
			}
			path := append(append(make([]string, 0, len(prefix)+1), prefix...), name)
			seen[strings.Join(path, ".")] = struct{}{}
			collect(s.SelectionSet, fragments, path, seen, active)
		case *ast.InlineFragment:
			collect(s.SelectionSet, fragments, prefix, seen, active)
		case *ast.FragmentSpread:
			name := s.Name.Value
			frag, ok := fragments[name].(*ast.FragmentDefinition)
			if !ok || active[name] {
				continue
			}
			active[name] = true
			collect(frag.SelectionSet, fragments, prefix, seen, active)
			delete(active, name)
		}
	}
}
