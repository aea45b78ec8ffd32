package gql

import (
	"strings"

	"github.com/LIF-Initiative/lif-core/internal/strcase"
)

// Input type suffixes.
const (
	SuffixFilterInput   = "FilterInput"
	SuffixMutationInput = "MutationInput"
)

// UniqueTypeName derives an input type name from a record identity: the
// identity is split on non-word runs, a leading part equal to the root is
// dropped and the suffix appended. An identity that is only the root yields
// "<Root><Suffix>".
//
//	UniqueTypeName("person", "FilterInput", "Person")          == "PersonFilterInput"
//	UniqueTypeName("Person.Name", "FilterInput", "Person")     == "NameFilterInput"
//	UniqueTypeName("contact.address", "MutationInput", "Person") == "ContactAddressMutationInput"
func UniqueTypeName(name, suffix, root string) string {
	parts := strcase.SplitWords(name)
	rootName := strcase.PascalFromString(root)
	if len(parts) > 0 && strcase.PascalFromString(parts[0]) == rootName {
		parts = parts[1:]
	}
	if len(parts) == 0 {
		parts = []string{rootName}
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strcase.PascalFromString(p))
	}
	b.WriteString(strcase.UpperFirst(suffix))
	return b.String()
}

// OutputTypeName is the read type name of a record identity.
func OutputTypeName(key string) string { return strcase.PascalFromString(key) }

// Operations names the operation fields mounted for a root entity.
type Operations struct {
	Single string `json:"single"` // person
	List   string `json:"list"`   // persons
	Update string `json:"update"` // updatePerson
}

// OperationNames derives the operation names for root ("Person").
func OperationNames(root string) Operations {
	single := strcase.LowerFirst(root)
	return Operations{
		Single: single,
		List:   strcase.Plural(single),
		Update: "update" + strcase.UpperFirst(root),
	}
}
