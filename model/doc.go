// Package model compiles flattened schema fields into record descriptors.
//
// A Record is an explicit description of one nested object: its fields, their
// scalar, enum or nested-record types, optionality and whether unknown keys
// are accepted. The same field list is compiled once per Policy (filter,
// mutation, full); each compile yields a Set keyed by record identity plus a
// synthetic "<root>_wrapper" record whose single field is always a list.
//
// Records validate plain maps into Instances (Record.Parse) and Instances
// serialize back to JSON-safe maps (Instance.Serialize). Enumerations are
// interned in an EnumCache owned by the Compiler, so the three policies share
// one Enum per (name, value set).
package model
