// Package gql projects compiled record Sets into graphql-go types and mounts
// the read and write operation roots for one root entity.
//
// Output (read) types are named after the full-policy record identity;
// input types carry a FilterInput or MutationInput suffix with a leading root
// segment stripped, so the root's own inputs are PersonFilterInput and
// PersonMutationInput. Wrapper records are never projected.
package gql
