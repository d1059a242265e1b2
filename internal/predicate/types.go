package predicate

// Node represents a boolean predicate over a document's properties.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the SQL compiler.
//
// Node types:
//   - Comparison: path <op> value
//   - And: left AND right
//   - Or: left OR right
//   - StringMatch: substring/prefix/suffix match on a string-valued path
type Node interface {
	predicateNode() // Marker method - seals interface to this package
}

// Operator identifies a comparison operator.
type Operator int

const (
	OpEq Operator = iota // ==
	OpNe                 // !=
	OpGt                 // >
	OpGe                 // >=
	OpLt                 // <
	OpLe                 // <=
)

var operatorNames = map[Operator]string{
	OpEq: "==", OpNe: "!=", OpGt: ">", OpGe: ">=", OpLt: "<", OpLe: "<=",
}

// String returns the operator as written in a source predicate.
func (op Operator) String() string {
	if s, ok := operatorNames[op]; ok {
		return s
	}
	return "Operator(?)"
}

// Ordering reports whether the operator imposes an order (<, <=, >, >=).
// Ordering operators are defined for strings and numbers but not booleans.
func (op Operator) Ordering() bool {
	switch op {
	case OpGt, OpGe, OpLt, OpLe:
		return true
	default:
		return false
	}
}

// MatchKind identifies a string-match operation.
type MatchKind int

const (
	MatchContains   MatchKind = iota // value occurs anywhere
	MatchStartsWith                  // value is a prefix
	MatchEndsWith                    // value is a suffix
)

var matchKindNames = map[MatchKind]string{
	MatchContains: "contains", MatchStartsWith: "startswith", MatchEndsWith: "endswith",
}

func (k MatchKind) String() string {
	if s, ok := matchKindNames[k]; ok {
		return s
	}
	return "MatchKind(?)"
}

// Comparison represents a path-operator-value leaf.
//
// Semantics:
//
//	<path> <op> <value>
//
// The value side is an Operand so that literals, captured variables and
// computed expressions are all representable without the compiler caring
// which it got.
//
// Example:
//
//	Comparison{
//	  Path:  Field("Age").Expr(),
//	  Op:    OpGt,
//	  Value: Literal{Value: 18},
//	}
type Comparison struct {
	Path  PathExpr // Member-access chain on the document
	Op    Operator // Comparison operator
	Value Operand  // Right-hand operand
}

func (Comparison) predicateNode() {}

// And represents a conjunction of two predicates.
//
// The compiler parenthesizes every And node so that operator precedence is
// independent of source tree shape.
type And struct {
	Left  Node
	Right Node
}

func (And) predicateNode() {}

// Or represents a disjunction of two predicates.
//
// Parenthesized uniformly, same as And.
type Or struct {
	Left  Node
	Right Node
}

func (Or) predicateNode() {}

// StringMatch represents a substring, prefix or suffix match on a
// string-valued path.
//
// Semantics by kind:
//
//	MatchContains:   <path> contains <value>
//	MatchStartsWith: <path> starts with <value>
//	MatchEndsWith:   <path> ends with <value>
//
// The compiler translates all three to a LIKE comparison; only the bound
// pattern differs. Literal LIKE wildcards (% and _) occurring inside the
// searched value are NOT escaped - a value of "50%" matches more than the
// three literal characters. Known limitation.
type StringMatch struct {
	Path  PathExpr  // Member-access chain on the document
	Kind  MatchKind // Contains, StartsWith or EndsWith
	Value Operand   // Searched value, must resolve to a string
}

func (StringMatch) predicateNode() {}
