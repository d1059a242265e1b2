package querysql

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/idotta/jsonb-store/internal/predicate"
	"github.com/idotta/jsonb-store/internal/schema"
)

// Param is one named parameter binding of a compiled fragment.
type Param struct {
	Name  string // without the @ prefix
	Value any
}

// Fragment is the compiled output: WHERE-clause text plus its ordered
// parameter bindings, ready for verbatim embedding into a larger query.
//
// Parameter names are unique within one fragment and ordered by first
// occurrence during the left-to-right tree walk; len(Params) always equals
// the number of @pN placeholders in Text.
type Fragment struct {
	Text   string
	Params []Param
}

// NamedArgs returns the parameters as database/sql named arguments for
// execution against the store.
func (f Fragment) NamedArgs() []any {
	args := make([]any, len(f.Params))
	for i, p := range f.Params {
		args[i] = sql.Named(p.Name, p.Value)
	}
	return args
}

// Compiler translates predicate trees to parameterized SQLite WHERE
// fragments over JSON document bodies stored in the "data" column.
//
// A Compiler holds only the optional virtual-column snapshot; all per-call
// state is local to Compile, so one Compiler may be shared across
// goroutines as long as the snapshot is not mutated (publish a fresh
// *schema.ColumnIndex instead).
//
// CRITICAL: all values are parameterized, never interpolated. Only path
// strings and declared column names reach the SQL text.
type Compiler struct {
	columns *schema.ColumnIndex
}

// New creates a Compiler without virtual-column indirection: every leaf
// compiles to a json_extract call.
func New() *Compiler {
	return &Compiler{}
}

// NewWithColumns creates a Compiler that redirects leaves whose rendered
// path has a declared virtual column to a bracket-quoted column reference.
func NewWithColumns(columns *schema.ColumnIndex) *Compiler {
	return &Compiler{columns: columns}
}

// Compile translates a predicate tree without virtual-column indirection.
func Compile(p predicate.Node) (Fragment, error) {
	return New().Compile(p)
}

// CompileWithColumns translates a predicate tree consulting the given
// virtual-column snapshot at each leaf.
func CompileWithColumns(p predicate.Node, columns *schema.ColumnIndex) (Fragment, error) {
	return NewWithColumns(columns).Compile(p)
}

// Compile translates a predicate tree to a Fragment.
// Translation either fully succeeds or fails before any fragment is
// returned; there is no partial output.
func (c *Compiler) Compile(p predicate.Node) (Fragment, error) {
	if p == nil {
		return Fragment{}, fmt.Errorf("cannot compile nil predicate")
	}

	// Per-call state: parameter counter, growing text, bindings.
	w := &fragmentWriter{columns: c.columns}
	if err := w.writeNode(p); err != nil {
		return Fragment{}, err
	}
	return Fragment{Text: w.sb.String(), Params: w.params}, nil
}

// fragmentWriter accumulates one compilation's output. Parameter names are
// allocated p0, p1, ... in the order leaves are reached, which is the
// left-to-right source order of the tree.
type fragmentWriter struct {
	columns *schema.ColumnIndex
	sb      strings.Builder
	params  []Param
	next    int
}

// nextParam allocates the next collision-free parameter name and binds the
// value to it.
func (w *fragmentWriter) nextParam(value any) string {
	name := fmt.Sprintf("p%d", w.next)
	w.next++
	w.params = append(w.params, Param{Name: name, Value: value})
	return name
}

func (w *fragmentWriter) writeNode(p predicate.Node) error {
	switch node := p.(type) {
	case predicate.And:
		return w.writeBinary(node.Left, node.Right, " AND ")
	case *predicate.And:
		return w.writeBinary(node.Left, node.Right, " AND ")

	case predicate.Or:
		return w.writeBinary(node.Left, node.Right, " OR ")
	case *predicate.Or:
		return w.writeBinary(node.Left, node.Right, " OR ")

	case predicate.Comparison:
		return w.writeComparison(node)
	case *predicate.Comparison:
		return w.writeComparison(*node)

	case predicate.StringMatch:
		return w.writeStringMatch(node)
	case *predicate.StringMatch:
		return w.writeStringMatch(*node)

	default:
		return fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// writeBinary emits (<left><join><right>). Every binary logical node is
// parenthesized, nested or not, so operator precedence is independent of
// source tree shape.
func (w *fragmentWriter) writeBinary(left, right predicate.Node, join string) error {
	if left == nil || right == nil {
		return fmt.Errorf("binary predicate with nil operand")
	}

	w.sb.WriteByte('(')
	if err := w.writeNode(left); err != nil {
		return err
	}
	w.sb.WriteString(join)
	if err := w.writeNode(right); err != nil {
		return err
	}
	w.sb.WriteByte(')')
	return nil
}

// writeComparison emits "<lhs> <op> @pN" for one comparison leaf.
func (w *fragmentWriter) writeComparison(cmp predicate.Comparison) error {
	path, err := ResolvePath(cmp.Path)
	if err != nil {
		return err
	}
	pathStr := path.Render()

	opText, err := sqlOperator(cmp.Op)
	if err != nil {
		if ce, ok := err.(*CompileError); ok {
			ce.Path = pathStr
		}
		return err
	}

	raw, err := extractValue(cmp.Value)
	if err != nil {
		return err
	}
	value, kind := normalizeScalar(raw)
	if kind == kindInvalid {
		return &CompileError{
			Code:    ErrCodeUnsupportedOperator,
			Message: fmt.Sprintf("operator %s is not defined for value type %T", cmp.Op, raw),
			Path:    pathStr,
		}
	}
	if kind == kindBool && cmp.Op.Ordering() {
		return &CompileError{
			Code:    ErrCodeUnsupportedOperator,
			Message: fmt.Sprintf("ordering operator %s is not defined for booleans", cmp.Op),
			Path:    pathStr,
		}
	}

	name := w.nextParam(value)
	w.sb.WriteString(w.lhs(pathStr))
	w.sb.WriteByte(' ')
	w.sb.WriteString(opText)
	w.sb.WriteString(" @")
	w.sb.WriteString(name)
	return nil
}

// writeStringMatch emits "<lhs> LIKE @pN" with the pattern bound as the
// parameter value. Only the bound pattern differs by kind; literal % and _
// inside the searched value are not escaped (known limitation).
func (w *fragmentWriter) writeStringMatch(m predicate.StringMatch) error {
	path, err := ResolvePath(m.Path)
	if err != nil {
		return err
	}
	pathStr := path.Render()

	raw, err := extractValue(m.Value)
	if err != nil {
		return err
	}
	s, ok := raw.(string)
	if !ok {
		return &CompileError{
			Code:    ErrCodeUnsupportedOperator,
			Message: fmt.Sprintf("%s requires a string value, got %T", m.Kind, raw),
			Path:    pathStr,
		}
	}

	var pattern string
	switch m.Kind {
	case predicate.MatchContains:
		pattern = "%" + s + "%"
	case predicate.MatchStartsWith:
		pattern = s + "%"
	case predicate.MatchEndsWith:
		pattern = "%" + s
	default:
		return &CompileError{
			Code:    ErrCodeUnsupportedOperator,
			Message: fmt.Sprintf("unknown string match kind %d", int(m.Kind)),
			Path:    pathStr,
		}
	}

	name := w.nextParam(pattern)
	w.sb.WriteString(w.lhs(pathStr))
	w.sb.WriteString(" LIKE @")
	w.sb.WriteString(name)
	return nil
}

// lhs selects the left-hand side for a leaf: the declared virtual column
// when the snapshot has an exact match for the rendered path, otherwise a
// json_extract call against the document body column.
func (w *fragmentWriter) lhs(pathStr string) string {
	if col, ok := w.columns.Lookup(pathStr); ok {
		return "[" + col.Column + "]"
	}
	// Single quotes in property names are doubled so the path stays a
	// well-formed SQL string literal.
	return "json_extract(data, '" + strings.ReplaceAll(pathStr, "'", "''") + "')"
}

// sqlOperator maps a predicate operator to its SQL text.
func sqlOperator(op predicate.Operator) (string, error) {
	switch op {
	case predicate.OpEq:
		return "=", nil
	case predicate.OpNe:
		return "!=", nil
	case predicate.OpGt:
		return ">", nil
	case predicate.OpGe:
		return ">=", nil
	case predicate.OpLt:
		return "<", nil
	case predicate.OpLe:
		return "<=", nil
	default:
		return "", &CompileError{
			Code:    ErrCodeUnsupportedOperator,
			Message: fmt.Sprintf("unknown comparison operator %d", int(op)),
		}
	}
}
