package querysql

import (
	"fmt"

	"github.com/idotta/jsonb-store/internal/predicate"
)

// ResolvePath walks a member-access chain and produces the resolved JSON
// path. Exposed standalone for callers that need a path string without a
// full predicate, e.g. to name an index or declare a virtual column:
//
//	p, err := querysql.ResolvePath(predicate.Field("Tags").At(2).Expr())
//	// p.Render() == "$.Tags[2]"
//
// Fails with UNSUPPORTED_PATH when the chain is empty, starts with a
// subscript, or contains an unnamed member. Subscript operands that are not
// literal integers are passed through value extraction and the result is
// range-checked; anything that is not a non-negative integer fails with
// INVALID_ARRAY_INDEX.
func ResolvePath(expr predicate.PathExpr) (predicate.Path, error) {
	if len(expr) == 0 {
		return nil, &CompileError{
			Code:    ErrCodeUnsupportedPath,
			Message: "empty member-access chain",
		}
	}

	path := make(predicate.Path, 0, len(expr))
	for i, access := range expr {
		switch a := access.(type) {
		case predicate.PropertyAccess:
			if a.Name == "" {
				return nil, &CompileError{
					Code:    ErrCodeUnsupportedPath,
					Message: "member access without a name",
					Path:    path.Render(),
				}
			}
			path = append(path, predicate.Property(a.Name))

		case predicate.IndexAccess:
			if i == 0 {
				return nil, &CompileError{
					Code:    ErrCodeUnsupportedPath,
					Message: "subscript on the document root",
				}
			}
			idx, err := resolveIndex(a.Index, path)
			if err != nil {
				return nil, err
			}
			path = append(path, predicate.Index(idx))

		default:
			return nil, &CompileError{
				Code:    ErrCodeUnsupportedPath,
				Message: fmt.Sprintf("unsupported access type %T", access),
				Path:    path.Render(),
			}
		}
	}

	return path, nil
}

// resolveIndex evaluates a subscript operand to a non-negative integer.
// Literal integers short-circuit; everything else goes through the value
// extractor first.
func resolveIndex(op predicate.Operand, soFar predicate.Path) (int, error) {
	val, err := extractValue(op)
	if err != nil {
		return 0, err
	}

	idx, ok := asIndex(val)
	if !ok {
		return 0, &CompileError{
			Code:    ErrCodeInvalidArrayIndex,
			Message: fmt.Sprintf("array index is not an integer: %v (%T)", val, val),
			Path:    soFar.Render(),
		}
	}
	if idx < 0 {
		return 0, &CompileError{
			Code:    ErrCodeInvalidArrayIndex,
			Message: fmt.Sprintf("array index is negative: %d", idx),
			Path:    soFar.Render(),
		}
	}
	return idx, nil
}
