package querysql

import (
	"fmt"

	"github.com/idotta/jsonb-store/internal/predicate"
)

// extractValue evaluates the non-document side of a comparison (or an index
// subscript) to a concrete runtime value.
//
// The operand is classified before evaluation, cheapest tier first:
//
//   - Literal: returned directly.
//   - Captured: one CapturedValue lookup on the scope.
//   - Computed: the thunk is invoked. SLOW PATH - the only sub-operation of
//     compilation whose cost is not bounded by the size of the predicate
//     tree. Results are never cached.
func extractValue(op predicate.Operand) (any, error) {
	switch v := op.(type) {
	case predicate.Literal:
		return v.Value, nil
	case *predicate.Literal:
		return v.Value, nil

	case predicate.Captured:
		return extractCaptured(v)
	case *predicate.Captured:
		return extractCaptured(*v)

	case predicate.Computed:
		return extractComputed(v)
	case *predicate.Computed:
		return extractComputed(*v)

	case nil:
		return nil, &CompileError{
			Code:    ErrCodeUnresolvableValue,
			Message: "nil value operand",
		}
	default:
		return nil, &CompileError{
			Code:    ErrCodeUnresolvableValue,
			Message: "unsupported operand type",
		}
	}
}

func extractCaptured(c predicate.Captured) (any, error) {
	if c.Scope == nil {
		return nil, &CompileError{
			Code:    ErrCodeUnresolvableValue,
			Message: fmt.Sprintf("captured variable %q has no scope", c.Name),
		}
	}
	val, ok := c.Scope.CapturedValue(c.Name)
	if !ok {
		return nil, &CompileError{
			Code:    ErrCodeUnresolvableValue,
			Message: fmt.Sprintf("captured variable %q not found in scope", c.Name),
		}
	}
	return val, nil
}

func extractComputed(c predicate.Computed) (any, error) {
	if c.Eval == nil {
		return nil, &CompileError{
			Code:    ErrCodeUnresolvableValue,
			Message: "computed operand has no evaluator",
		}
	}
	val, err := c.Eval()
	if err != nil {
		return nil, &CompileError{
			Code:    ErrCodeUnresolvableValue,
			Message: "computed operand failed",
			Err:     err,
		}
	}
	return val, nil
}

// scalarKind classifies a runtime value for operator compatibility checks.
type scalarKind int

const (
	kindInvalid scalarKind = iota
	kindString
	kindNumber
	kindBool
)

// normalizeScalar converts an extracted value to a driver-friendly scalar:
// all integer widths become int64, float32 becomes float64. Returns
// kindInvalid for anything outside strings, numbers and booleans.
func normalizeScalar(v any) (any, scalarKind) {
	switch val := v.(type) {
	case string:
		return val, kindString
	case bool:
		return val, kindBool
	case int:
		return int64(val), kindNumber
	case int8:
		return int64(val), kindNumber
	case int16:
		return int64(val), kindNumber
	case int32:
		return int64(val), kindNumber
	case int64:
		return val, kindNumber
	case uint:
		return int64(val), kindNumber
	case uint8:
		return int64(val), kindNumber
	case uint16:
		return int64(val), kindNumber
	case uint32:
		return int64(val), kindNumber
	case uint64:
		return int64(val), kindNumber
	case float32:
		return float64(val), kindNumber
	case float64:
		return val, kindNumber
	default:
		return nil, kindInvalid
	}
}

// asIndex converts an extracted value to an array index.
// The second return reports whether the value was integral at all;
// negative indices are returned as-is for the caller to reject with a
// range message.
func asIndex(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	default:
		return 0, false
	}
}
