package gql

import (
	"github.com/graphql-go/graphql"

	"github.com/LIF-Initiative/lif-core/model"
)

// resolveKey reads one key from a validated Instance or plain map source.
func resolveKey(key string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		var v any
		switch src := p.Source.(type) {
		case model.Instance:
			v = src[key]
		case map[string]any:
			v = src[key]
		default:
			return nil, nil
		}
		return outputValue(v), nil
	}
}

// outputValue unwraps enum members to their literal so graphql-go can match
// them against the projected enum values.
func outputValue(v any) any {
	switch t := v.(type) {
	case model.EnumMember:
		return t.Value
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = outputValue(e)
		}
		return out
	default:
		return v
	}
}

// Serializer is implemented by values that know their JSON-safe form, such
// as model.Instance.
type Serializer interface {
	Serialize() map[string]any
}

// Normalize converts an operation argument into a JSON-safe mapping. Values
// with a Serialize method use it; maps are converted recursively (dates to
// ISO-8601, enum members to literals, nils dropped); anything else passes
// through unchanged.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Serializer:
		return model.Plain(t.Serialize())
	case map[string]any:
		return model.Plain(t)
	default:
		return model.Plain(v)
	}
}
