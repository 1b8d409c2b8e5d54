// Package query defines the engine-agnostic search expression tree for
// filing metadata.
//
// A Field names one metadata attribute and optionally carries a type hint.
// Field methods build comparison leaves; And, Or, and Not combine them into
// an immutable predicate tree. The tree contains no storage-engine syntax:
// the catalog compiles it into a parameterized query, so caller code never
// embeds SQL fragments.
//
// Operand order is preserved by all combinators so that compiled parameter
// lists are reproducible.
package query
