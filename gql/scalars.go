package gql

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/LIF-Initiative/lif-core/model"
)

// Date is a calendar date scalar serialized as YYYY-MM-DD. Parsed input is
// handed to record validation as a string.
var Date = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Date",
	Description: "Calendar date in ISO-8601 form (YYYY-MM-DD).",
	Serialize: func(value any) any {
		switch v := value.(type) {
		case model.Date:
			return v.String()
		case *model.Date:
			if v == nil {
				return nil
			}
			return v.String()
		case time.Time:
			return model.DateOf(v).String()
		case string:
			return v
		}
		return nil
	},
	ParseValue: func(value any) any {
		switch v := value.(type) {
		case string:
			return v
		case time.Time:
			return model.DateOf(v).String()
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) any {
		if sv, ok := valueAST.(*ast.StringValue); ok {
			return sv.Value
		}
		return nil
	},
})

func scalarFor(k model.Kind) graphql.Type {
	switch k {
	case model.KindInt:
		return graphql.Int
	case model.KindFloat:
		return graphql.Float
	case model.KindBool:
		return graphql.Boolean
	case model.KindDate:
		return Date
	case model.KindDateTime:
		return graphql.DateTime
	default:
		return graphql.String
	}
}
