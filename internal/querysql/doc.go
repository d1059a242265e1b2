// Package querysql compiles predicate trees to parameterized SQLite WHERE
// fragments over JSON document bodies.
//
// Each Comparison or StringMatch leaf becomes either
//
//	json_extract(data, '$.Path') <op> @pN
//
// or, when the caller supplies a virtual-column snapshot with an exact
// match for the rendered path,
//
//	[column_name] <op> @pN
//
// AND/OR nodes are joined with uniform parenthesization. Compilation is
// synchronous, performs no I/O, and allocates only call-local state; it
// either fully succeeds or fails with a coded CompileError before any
// fragment is returned.
package querysql
