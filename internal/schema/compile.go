package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"golang.org/x/text/unicode/norm"
)

// CompileError reports a problem in a schema file.
type CompileError struct {
	Collection string
	Field      string
	Message    string
	Pos        token.Pos
}

func (e *CompileError) Error() string {
	where := e.Field
	if e.Collection != "" {
		where = e.Collection + "." + e.Field
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), where, e.Message)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// LoadFile parses one CUE schema file into its collection definitions.
func LoadFile(path string) ([]Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	return CompileCollections(v)
}

// LoadDir parses every *.cue file in a directory and returns the combined
// collection definitions, sorted by name. Collection names must be unique
// across files.
func LoadDir(dir string) ([]Collection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}

	var all []Collection
	seen := make(map[string]string) // collection name -> file
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		cols, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		for _, col := range cols {
			if prev, dup := seen[col.Name]; dup {
				return nil, fmt.Errorf("collection %q defined in both %s and %s", col.Name, prev, path)
			}
			seen[col.Name] = path
			all = append(all, col)
		}
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("no collection definitions found in %s", dir)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

// CompileCollections parses the "collection" struct of a CUE value into
// Collection definitions. Each collection is validated before return.
func CompileCollections(v cue.Value) ([]Collection, error) {
	root := v.LookupPath(cue.ParsePath("collection"))
	if !root.Exists() {
		return nil, &CompileError{
			Field:   "collection",
			Message: "no collection definitions found",
			Pos:     v.Pos(),
		}
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var collections []Collection
	for iter.Next() {
		col, err := compileCollection(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		if err := col.Validate(); err != nil {
			return nil, &CompileError{
				Collection: col.Name,
				Field:      "columns",
				Message:    err.Error(),
				Pos:        iter.Value().Pos(),
			}
		}
		collections = append(collections, col)
	}

	return collections, nil
}

// compileCollection parses one collection struct.
func compileCollection(name string, v cue.Value) (Collection, error) {
	col := Collection{Name: name}

	columnsVal := v.LookupPath(cue.ParsePath("columns"))
	if !columnsVal.Exists() {
		return col, nil // columns are optional - a collection may be pure json_extract
	}

	iter, err := columnsVal.Fields()
	if err != nil {
		return col, formatCUEError(err)
	}

	for iter.Next() {
		vc, err := compileColumn(name, iter.Label(), iter.Value())
		if err != nil {
			return col, err
		}
		col.Columns = append(col.Columns, vc)
	}

	return col, nil
}

// compileColumn parses one virtual-column declaration.
func compileColumn(collection, name string, v cue.Value) (VirtualColumn, error) {
	vc := VirtualColumn{Column: name}

	pathVal := v.LookupPath(cue.ParsePath("path"))
	if !pathVal.Exists() {
		return vc, &CompileError{
			Collection: collection,
			Field:      "columns." + name,
			Message:    "path is required",
			Pos:        v.Pos(),
		}
	}
	path, err := pathVal.String()
	if err != nil {
		return vc, formatCUEError(err)
	}
	vc.JSONPath = norm.NFC.String(path)

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return vc, &CompileError{
			Collection: collection,
			Field:      "columns." + name,
			Message:    "type is required",
			Pos:        v.Pos(),
		}
	}
	typeName, err := typeVal.String()
	if err != nil {
		return vc, formatCUEError(err)
	}
	vc.Type, err = ParseColumnType(typeName)
	if err != nil {
		return vc, &CompileError{
			Collection: collection,
			Field:      "columns." + name,
			Message:    err.Error(),
			Pos:        typeVal.Pos(),
		}
	}

	return vc, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
