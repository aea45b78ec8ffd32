package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LIF-Initiative/lif-core/i18n"
)

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestTranslator_DefaultMessages(t *testing.T) {
	assert.Equal(t, "invalid type, expected int", i18n.T("invalid_type", map[string]string{"expected": "int"}))
	assert.Equal(t, "unknown field \"nick\"", i18n.T("unknown_key", map[string]string{"key": "nick"}))
	assert.Equal(t, "required field missing", i18n.T("required", nil))
	assert.Equal(t, "something_else", i18n.T("something_else", nil))
}

func TestTranslator_Replace(t *testing.T) {
	i18n.SetTranslator(upper{})
	defer i18n.SetTranslator(nil)
	assert.Equal(t, "X:required", i18n.T("required", nil))
}
