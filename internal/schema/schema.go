package schema

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ColumnType is the storage type of a virtual column.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeInteger
	TypeReal
)

var columnTypeNames = map[ColumnType]string{
	TypeText: "text", TypeInteger: "integer", TypeReal: "real",
}

// String returns the schema-file spelling of the type.
func (t ColumnType) String() string {
	if s, ok := columnTypeNames[t]; ok {
		return s
	}
	return "ColumnType(?)"
}

// SQL returns the SQLite column type keyword.
func (t ColumnType) SQL() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// ParseColumnType parses a schema-file type name. Case-insensitive.
func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToLower(s) {
	case "text":
		return TypeText, nil
	case "integer", "int":
		return TypeInteger, nil
	case "real", "float":
		return TypeReal, nil
	default:
		return TypeText, fmt.Errorf("unknown column type %q (want text, integer or real)", s)
	}
}

// VirtualColumn declares a generated column computed from a document body
// at a fixed JSON path.
type VirtualColumn struct {
	// Column is the SQL column name. Named independently of the path.
	Column string

	// JSONPath is the extraction path, e.g. "$.Name" or "$.Tags[2]".
	// Stored NFC-normalized.
	JSONPath string

	// Type is the declared storage type.
	Type ColumnType
}

// Collection is a named document collection plus its declared virtual
// columns. Documents live in a table of the same name with the body under
// the fixed "data" column.
type Collection struct {
	Name    string
	Columns []VirtualColumn
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s is usable as a table or column name
// without quoting tricks. The store layer refuses anything else.
func ValidIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

// Validate checks structural rules: identifier-shaped names, well-formed
// paths, no duplicate column names or paths.
func (c Collection) Validate() error {
	if !identifierRe.MatchString(c.Name) {
		return fmt.Errorf("collection name %q is not a valid identifier", c.Name)
	}

	seenNames := make(map[string]bool, len(c.Columns))
	seenPaths := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		if !identifierRe.MatchString(col.Column) {
			return fmt.Errorf("collection %s: column name %q is not a valid identifier", c.Name, col.Column)
		}
		if seenNames[col.Column] {
			return fmt.Errorf("collection %s: duplicate column name %q", c.Name, col.Column)
		}
		seenNames[col.Column] = true

		if !strings.HasPrefix(col.JSONPath, "$.") || len(col.JSONPath) < 3 {
			return fmt.Errorf("collection %s: column %s: path %q must start with \"$.\"", c.Name, col.Column, col.JSONPath)
		}
		key := norm.NFC.String(col.JSONPath)
		if seenPaths[key] {
			return fmt.Errorf("collection %s: duplicate column path %q", c.Name, col.JSONPath)
		}
		seenPaths[key] = true
	}

	return nil
}

// Index returns the immutable lookup snapshot for this collection's columns.
func (c Collection) Index() *ColumnIndex {
	return NewColumnIndex(c.Columns)
}
