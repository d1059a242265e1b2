// Package predicate defines the closed AST for document filter predicates.
//
// A predicate is a boolean expression over the properties of a JSON-encoded
// document: comparisons, string matches, and AND/OR combinations. Callers
// build predicates with the fluent helpers (Field, At, Eq, ...) or construct
// the node structs directly; the querysql package translates the tree into a
// parameterized SQL fragment.
//
// All interfaces in this package are sealed with marker methods so that the
// compiler can type-switch exhaustively.
package predicate
