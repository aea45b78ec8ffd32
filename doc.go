// Package lif derives a queryable GraphQL API from a declarative OpenAPI /
// JSON-Schema document.
//
// The pipeline runs once at process start:
//
//   - schema: resolve $refs, locate the root entity, flatten the tree into Fields
//   - model: compile the fields into three record sets (filter, mutation, full)
//     with different optionality and unknown-key policies
//   - gql: project the records into graphql-go types and mount the read and
//     write operation roots against a backend
//
// At request time the selected field paths and the validated filter/mutation
// inputs are forwarded to the backend, and the returned raw records are
// validated against the full record before being handed back to GraphQL.
//
// Design policy:
//   - Keep only the shared error model in the root package; put the pipeline
//     stages in their own packages.
//   - Place the server under internal/ and the CLI under cmd/lifgraphql.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	fields, _, err := schema.LoadFile("openapi.json", "Person")
//	s, err := gql.BuildSchema(gql.Config{Root: "Person", Fields: fields, Backend: be})
//	res := graphql.Do(graphql.Params{Schema: s.Schema, RequestString: q})
package lif
