// Package store provides the SQLite-backed document store.
//
// Each collection is a table with a TEXT primary key and the JSON document
// body under the fixed "data" column. Declared virtual columns become
// SQLite generated columns (with an index each), which the query compiler
// targets instead of json_extract when a path matches.
//
// The store executes fragments produced by querysql verbatim; it never
// inspects document bodies itself beyond SQLite's json_valid check.
package store
