// Package i18n renders human messages for validation issue codes.
package i18n

import (
	"fmt"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in English dictionary.
type dictTranslator struct{}

func (dictTranslator) Message(code string, data map[string]string) string {
	switch code {
	case "invalid_type":
		if exp := data["expected"]; exp != "" {
			return fmt.Sprintf("invalid type, expected %s", exp)
		}
		return "invalid type"
	case "required":
		return "required field missing"
	case "unknown_key":
		if k := data["key"]; k != "" {
			return fmt.Sprintf("unknown field %q", k)
		}
		return "unknown field"
	case "invalid_enum":
		if vs := data["values"]; vs != "" {
			return fmt.Sprintf("value is not one of %s", vs)
		}
		return "value is not a permitted enumeration member"
	case "invalid_format":
		if f := data["format"]; f != "" {
			return fmt.Sprintf("invalid %s format", f)
		}
		return "invalid format"
	case "parse_error":
		return "parse error"
	}
	return code
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{}
)

// SetTranslator replaces the Translator implementation. nil restores the
// built-in dictionary.
func SetTranslator(tr Translator) {
	mu.Lock()
	defer mu.Unlock()
	if tr == nil {
		currentTranslator = dictTranslator{}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
