package gql_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LIF-Initiative/lif-core/gql"
	"github.com/LIF-Initiative/lif-core/model"
)

type serialized struct{}

func (serialized) Serialize() map[string]any {
	return map[string]any{"when": time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func TestNormalize(t *testing.T) {
	birth := model.DateOf(time.Date(1984, 2, 29, 0, 0, 0, 0, time.UTC))
	in := model.Instance{
		"birthDate": birth,
		"gender":    model.EnumMember{Name: "FEMALE", Value: "Female"},
		"name":      []any{model.Instance{"firstName": "Ann", "nick": nil}},
		"age":       nil,
	}
	assert.Equal(t, map[string]any{
		"birthDate": "1984-02-29",
		"gender":    "Female",
		"name":      []any{map[string]any{"firstName": "Ann"}},
	}, gql.Normalize(in))

	assert.Equal(t, map[string]any{"when": "2024-01-02T03:04:05Z"}, gql.Normalize(serialized{}))
	assert.Equal(t, map[string]any{"a": "1984-02-29"}, gql.Normalize(map[string]any{"a": birth}))
	assert.Nil(t, gql.Normalize(nil))
	assert.Equal(t, 7, gql.Normalize(7))
}
