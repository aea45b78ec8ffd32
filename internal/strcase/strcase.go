// Package strcase converts identifiers between the casings used by schema
// documents (snake, kebab, Pascal) and the camelCase used for field paths.
package strcase

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	camelSeparators = regexp.MustCompile(`[_\-\s]+([a-zA-Z])`)
	wordBoundary1   = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	wordBoundary2   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	wordSeparators  = regexp.MustCompile(`[_\-\s]+`)
	letterRuns      = regexp.MustCompile(`[A-Za-z][a-z]*`)
	nonWord         = regexp.MustCompile(`[^A-Za-z0-9_]+`)
)

// ToCamel converts s to lower camelCase: separator runs (underscore, dash,
// whitespace) followed by a letter collapse into that letter upper-cased, and
// the first character is lower-cased. Everything else is left untouched.
//
//	ToCamel("hello_world") == "helloWorld"
//	ToCamel("HelloWorld")  == "helloWorld"
//	ToCamel("x-queryable") == "xQueryable"
func ToCamel(s string) string {
	s = camelSeparators.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[len(m)-1:])
	})
	if s == "" {
		return s
	}
	return lowerFirst(s)
}

// CamelPath applies ToCamel to every segment of a dotted path.
func CamelPath(path string) string {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		parts[i] = ToCamel(p)
	}
	return strings.Join(parts, ".")
}

// ToPascal joins parts into PascalCase. Each part is split at case boundaries
// and separators; all-uppercase words (acronyms) are kept, other words are
// capitalized with the remainder lower-cased. Empty parts are skipped.
//
//	ToPascal("hello_world")      == "HelloWorld"
//	ToPascal("hello", "world")   == "HelloWorld"
//	ToPascal("identifierType")   == "IdentifierType"
//	ToPascal("HTTP_server")      == "HTTPServer"
func ToPascal(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		s := wordBoundary1.ReplaceAllString(part, "${1}_${2}")
		s = wordBoundary2.ReplaceAllString(s, "${1}_${2}")
		for _, w := range wordSeparators.Split(s, -1) {
			if w == "" {
				continue
			}
			if isUpper(w) {
				b.WriteString(w)
				continue
			}
			b.WriteString(capitalize(w))
		}
	}
	return b.String()
}

// PascalFromString extracts letter runs (an optional leading capital followed
// by lower-case letters) and capitalizes each. Digits and punctuation are
// dropped, so dotted identity keys become flat type names.
//
//	PascalFromString("person_name")    == "PersonName"
//	PascalFromString("name.firstName") == "NameFirstName"
func PascalFromString(s string) string {
	var b strings.Builder
	for _, w := range letterRuns.FindAllString(s, -1) {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// ToSnake converts CamelCase or PascalCase to snake_case.
func ToSnake(name string) string {
	s := wordBoundary1.ReplaceAllString(name, "${1}_${2}")
	s = wordBoundary2.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// SplitWords splits s on every run of non-word characters, dropping empties.
func SplitWords(s string) []string {
	var out []string
	for _, p := range nonWord.Split(s, -1) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UpperFirst upper-cases the first rune of s.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return lowerFirst(s)
}

// Plural applies English pluralization good enough for entity names:
// person -> persons, category -> categories, address -> addresses.
func Plural(s string) string {
	switch {
	case s == "":
		return s
	case strings.HasSuffix(s, "y") && len(s) > 1 && !strings.ContainsRune("aeiou", rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"), strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	default:
		return s + "s"
	}
}

func lowerFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func capitalize(w string) string {
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// isUpper reports at least one cased rune and no lower-case ones.
func isUpper(w string) bool {
	cased := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
