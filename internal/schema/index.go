package schema

import "golang.org/x/text/unicode/norm"

// ColumnIndex is an immutable snapshot mapping a rendered JSON path string
// to its declared virtual column.
//
// Lookup is a pure map access: case-sensitive, exact path-string match, no
// fuzzy fallback. Absence is not an error - it signals "use json_extract".
//
// The snapshot must not be mutated while a compilation is in progress;
// publish a fresh ColumnIndex instead of mutating one in place. Multiple
// compilations may share one snapshot concurrently.
type ColumnIndex struct {
	byPath map[string]VirtualColumn
}

// NewColumnIndex builds a snapshot from column declarations. Path keys are
// NFC-normalized to match the compiler's path rendering. Later duplicates
// of the same path win; Validate catches duplicates upstream.
func NewColumnIndex(cols []VirtualColumn) *ColumnIndex {
	byPath := make(map[string]VirtualColumn, len(cols))
	for _, col := range cols {
		byPath[norm.NFC.String(col.JSONPath)] = col
	}
	return &ColumnIndex{byPath: byPath}
}

// Lookup returns the virtual column declared for an exact path string.
func (ix *ColumnIndex) Lookup(path string) (VirtualColumn, bool) {
	if ix == nil {
		return VirtualColumn{}, false
	}
	col, ok := ix.byPath[path]
	return col, ok
}

// Len returns the number of declared columns.
func (ix *ColumnIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.byPath)
}
