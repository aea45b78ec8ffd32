// Package schema flattens an OpenAPI / JSON-Schema document into an ordered
// list of Fields addressed by dotted camelCase paths.
//
// Loading runs in three steps: local $refs are expanded (cycles are left
// unexpanded with a warning), the root entity is located under
// components.schemas or definitions, and the subtree is walked depth-first.
package schema
