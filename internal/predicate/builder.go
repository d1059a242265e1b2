package predicate

// PathBuilder accumulates a member-access chain and terminates it with a
// comparison or string match.
//
// Example:
//
//	predicate.Field("Age").Gt(18)
//	predicate.Field("Tags").At(2).Eq("red")
//	predicate.Field("Address").Prop("City").StartsWith("San")
//
// Comparison methods accept any value; a value that is not already an
// Operand is wrapped as a Literal.
type PathBuilder struct {
	expr PathExpr
}

// Field starts a path at a top-level document property.
func Field(name string) PathBuilder {
	return PathBuilder{expr: PathExpr{PropertyAccess{Name: name}}}
}

// Prop appends a nested property access.
func (b PathBuilder) Prop(name string) PathBuilder {
	return PathBuilder{expr: append(b.expr[:len(b.expr):len(b.expr)], PropertyAccess{Name: name})}
}

// At appends a literal array index.
func (b PathBuilder) At(i int) PathBuilder {
	return b.AtOperand(Literal{Value: i})
}

// AtOperand appends an array index whose value comes from an operand,
// e.g. a variable captured from the caller's scope. The operand must
// resolve to a non-negative integer at compile time.
func (b PathBuilder) AtOperand(idx Operand) PathBuilder {
	return PathBuilder{expr: append(b.expr[:len(b.expr):len(b.expr)], IndexAccess{Index: idx})}
}

// Expr returns the accumulated access chain.
func (b PathBuilder) Expr() PathExpr {
	return b.expr
}

// Eq terminates the path with an equality comparison.
func (b PathBuilder) Eq(v any) Node { return b.compare(OpEq, v) }

// Ne terminates the path with an inequality comparison.
func (b PathBuilder) Ne(v any) Node { return b.compare(OpNe, v) }

// Gt terminates the path with a greater-than comparison.
func (b PathBuilder) Gt(v any) Node { return b.compare(OpGt, v) }

// Ge terminates the path with a greater-or-equal comparison.
func (b PathBuilder) Ge(v any) Node { return b.compare(OpGe, v) }

// Lt terminates the path with a less-than comparison.
func (b PathBuilder) Lt(v any) Node { return b.compare(OpLt, v) }

// Le terminates the path with a less-or-equal comparison.
func (b PathBuilder) Le(v any) Node { return b.compare(OpLe, v) }

func (b PathBuilder) compare(op Operator, v any) Node {
	return Comparison{Path: b.expr, Op: op, Value: asOperand(v)}
}

// Contains terminates the path with a substring match.
// Literal % and _ in the searched value are not escaped.
func (b PathBuilder) Contains(v any) Node { return b.match(MatchContains, v) }

// StartsWith terminates the path with a prefix match.
// Literal % and _ in the searched value are not escaped.
func (b PathBuilder) StartsWith(v any) Node { return b.match(MatchStartsWith, v) }

// EndsWith terminates the path with a suffix match.
// Literal % and _ in the searched value are not escaped.
func (b PathBuilder) EndsWith(v any) Node { return b.match(MatchEndsWith, v) }

func (b PathBuilder) match(kind MatchKind, v any) Node {
	return StringMatch{Path: b.expr, Kind: kind, Value: asOperand(v)}
}

// Capture builds an operand that resolves a captured variable by name.
func Capture(scope CaptureScope, name string) Operand {
	return Captured{Scope: scope, Name: name}
}

func asOperand(v any) Operand {
	if op, ok := v.(Operand); ok {
		return op
	}
	return Literal{Value: v}
}
