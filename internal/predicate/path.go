package predicate

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Segment is one resolved step of a JSON path.
//
// This is a sealed interface - only Property and Index implement it.
type Segment interface {
	pathSegment() // Marker method - seals interface to this package
}

// Property addresses an object member by name.
type Property string

func (Property) pathSegment() {}

// Index addresses an array element by non-negative position.
type Index int

func (Index) pathSegment() {}

// Path is an ordered, non-empty sequence of resolved segments.
//
// A Path is a pure value: it holds no reference to the document or to the
// expression it was resolved from.
type Path []Segment

// Render returns the SQLite json_extract form of the path:
//
//	$.Name
//	$.Address.City
//	$.Tags[2]
//
// Property names are NFC-normalized so that the rendered string is
// byte-stable for virtual-column lookup regardless of how the caller's
// source text was encoded.
func (p Path) Render() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range p {
		switch s := seg.(type) {
		case Property:
			b.WriteByte('.')
			b.WriteString(norm.NFC.String(string(s)))
		case Index:
			fmt.Fprintf(&b, "[%d]", int(s))
		}
	}
	return b.String()
}

// Access is one unresolved step of a member-access chain.
//
// This is a sealed interface - only PropertyAccess and IndexAccess
// implement it. The difference from Segment: an IndexAccess carries an
// Operand that may still need value extraction (a captured variable or a
// computed expression), while an Index is always a resolved integer.
type Access interface {
	pathAccess() // Marker method - seals interface to this package
}

// PropertyAccess is a member access: x.Name.
type PropertyAccess struct {
	Name string
}

func (PropertyAccess) pathAccess() {}

// IndexAccess is a subscript access: x.Tags[i].
// The index operand must resolve to a non-negative integer.
type IndexAccess struct {
	Index Operand
}

func (IndexAccess) pathAccess() {}

// PathExpr is an ordered member-access chain rooted at the document,
// outermost access last. Built by the Field/Prop/At helpers in
// left-to-right source order.
type PathExpr []Access
