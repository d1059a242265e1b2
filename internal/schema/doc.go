// Package schema defines collection schemas: the set of virtual (generated)
// columns declared for a collection's JSON document bodies.
//
// Schemas are written as CUE files and parsed with the CUE Go API:
//
//	collection: orders: {
//	    columns: {
//	        name_vc: {path: "$.Name", type: "text"}
//	        age_vc:  {path: "$.Age",  type: "integer"}
//	    }
//	}
//
// A parsed Collection is turned into an immutable ColumnIndex snapshot that
// the SQL compiler consults to decide between a bracket-quoted column
// reference and a json_extract call. The store layer uses the same
// Collection to create the generated columns and their indexes.
package schema
