package predicate

// Operand represents the value side of a comparison or an index subscript.
//
// This is a sealed interface - only Literal, Captured and Computed
// implement it. The three variants correspond to the three evaluation
// tiers of the value extractor, cheapest first:
//
//   - Literal: a constant known at predicate construction time.
//   - Captured: a variable captured from the caller's enclosing scope,
//     resolved by name through a CaptureScope.
//   - Computed: an arbitrary computed sub-expression, evaluated by invoking
//     a thunk. This is the slow path - see the Computed docs.
type Operand interface {
	valueOperand() // Marker method - seals interface to this package
}

// Literal is a constant operand. Extraction is a field read, zero overhead.
type Literal struct {
	Value any
}

func (Literal) valueOperand() {}

// Captured is a reference to a variable captured from an enclosing scope.
//
// Extraction is a single CapturedValue lookup on the scope - no dynamic
// code generation. If the scope does not know the name, compilation fails;
// a captured reference that cannot be produced by its scope is a
// programming error in the predicate.
type Captured struct {
	Scope CaptureScope
	Name  string
}

func (Captured) valueOperand() {}

// CaptureScope exposes captured variables by their declared name.
//
// Implementations must be pure lookups: no I/O, no reads from a different
// document. The second return value reports whether the name is known.
type CaptureScope interface {
	CapturedValue(name string) (any, bool)
}

// MapScope is a CaptureScope backed by a plain map.
type MapScope map[string]any

// CapturedValue implements CaptureScope.
func (m MapScope) CapturedValue(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Computed is a computed operand: method calls, arithmetic, anything that
// is neither a literal nor a plain captured variable.
//
// SLOW PATH: extraction invokes the thunk, whose cost is not bounded by the
// size of the predicate tree. Profiling of the source system put per-call
// dynamic evaluation at single-digit milliseconds - hold computed operands
// to sub-expressions that genuinely compute something, and prefer Literal
// or Captured wherever possible. The compiler never caches thunk results;
// caching was measured upstream as a net loss.
//
// The thunk must not perform I/O or read fields of a different document;
// return an error instead and compilation will fail with an
// UNRESOLVABLE_VALUE error.
type Computed struct {
	Eval func() (any, error)
}

func (Computed) valueOperand() {}
