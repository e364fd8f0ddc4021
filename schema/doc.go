// Package schema holds the in-memory JSON Schema document model.
//
// A [Schema] is an insertion-ordered keyword map with pointer identity.
// Identity matters: the resolver replaces a $ref with the very node it
// points at, so recursive schemas become pointer cycles, and every later
// stage keys its bookkeeping by *Schema. Keyword values are one of:
//
//   - *Schema for JSON objects
//   - []any for JSON arrays
//   - string, float64, bool or nil for scalars
//
// Each node also carries a parent link installed by the linker. The link is
// not a keyword: it is never serialized, compared or cloned.
package schema
