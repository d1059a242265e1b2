package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idotta/jsonb-store/internal/predicate"
	"github.com/idotta/jsonb-store/internal/querysql"
)

func TestParse_Comparison(t *testing.T) {
	node, err := Parse(`Age > 18`)
	require.NoError(t, err)

	cmp, ok := node.(predicate.Comparison)
	require.True(t, ok)
	assert.Equal(t, predicate.OpGt, cmp.Op)
	assert.Equal(t, predicate.Literal{Value: int64(18)}, cmp.Value)
	require.Len(t, cmp.Path, 1)
	assert.Equal(t, predicate.PropertyAccess{Name: "Age"}, cmp.Path[0])
}

func TestParse_ValueTypes(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  any
	}{
		{"string", `Name == "John"`, "John"},
		{"int", `Age == 30`, int64(30)},
		{"negative int", `Delta == -4`, int64(-4)},
		{"float", `Score == 4.5`, 4.5},
		{"true", `Active == true`, true},
		{"false", `Active == false`, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			node, err := Parse(tc.input)
			require.NoError(t, err)
			cmp, ok := node.(predicate.Comparison)
			require.True(t, ok)
			assert.Equal(t, predicate.Literal{Value: tc.want}, cmp.Value)
		})
	}
}

func TestParse_Precedence(t *testing.T) {
	// and binds tighter than or: a or b and c == Or(a, And(b, c)).
	node, err := Parse(`A == 1 or B == 2 and C == 3`)
	require.NoError(t, err)

	or, ok := node.(predicate.Or)
	require.True(t, ok)
	_, ok = or.Left.(predicate.Comparison)
	assert.True(t, ok)
	_, ok = or.Right.(predicate.And)
	assert.True(t, ok)
}

func TestParse_ParensOverridePrecedence(t *testing.T) {
	node, err := Parse(`(A == 1 or B == 2) and C == 3`)
	require.NoError(t, err)

	and, ok := node.(predicate.And)
	require.True(t, ok)
	_, ok = and.Left.(predicate.Or)
	assert.True(t, ok)
}

func TestParse_LeftAssociative(t *testing.T) {
	// a or b or c == Or(Or(a, b), c).
	node, err := Parse(`A == 1 or B == 2 or C == 3`)
	require.NoError(t, err)

	outer, ok := node.(predicate.Or)
	require.True(t, ok)
	_, ok = outer.Left.(predicate.Or)
	assert.True(t, ok)
	_, ok = outer.Right.(predicate.Comparison)
	assert.True(t, ok)
}

func TestParse_NestedPathAndSubscript(t *testing.T) {
	node, err := Parse(`Items[0].Sku == "A-1"`)
	require.NoError(t, err)

	cmp, ok := node.(predicate.Comparison)
	require.True(t, ok)
	require.Len(t, cmp.Path, 3)
	assert.Equal(t, predicate.PropertyAccess{Name: "Items"}, cmp.Path[0])
	idx, ok := cmp.Path[1].(predicate.IndexAccess)
	require.True(t, ok)
	assert.Equal(t, predicate.Literal{Value: 0}, idx.Index)
	assert.Equal(t, predicate.PropertyAccess{Name: "Sku"}, cmp.Path[2])
}

func TestParse_Methods(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		kind  predicate.MatchKind
	}{
		{"contains", `Name.contains("oh")`, predicate.MatchContains},
		{"startswith", `Name.startswith("Jo")`, predicate.MatchStartsWith},
		{"endswith", `Email.endswith("@example.com")`, predicate.MatchEndsWith},
		{"case-insensitive method", `Name.StartsWith("Jo")`, predicate.MatchStartsWith},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			node, err := Parse(tc.input)
			require.NoError(t, err)
			m, ok := node.(predicate.StringMatch)
			require.True(t, ok)
			assert.Equal(t, tc.kind, m.Kind)
		})
	}
}

func TestParse_MethodNameAsProperty(t *testing.T) {
	// "contains" without a following paren is an ordinary property.
	node, err := Parse(`Box.contains == true`)
	require.NoError(t, err)

	cmp, ok := node.(predicate.Comparison)
	require.True(t, ok)
	require.Len(t, cmp.Path, 2)
	assert.Equal(t, predicate.PropertyAccess{Name: "contains"}, cmp.Path[1])
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"missing value", `Age >`},
		{"missing operator", `Age 18`},
		{"unbalanced paren", `(Age > 18`},
		{"trailing garbage", `Age > 18 Name`},
		{"method without string", `Name.contains(42)`},
		{"method missing paren", `Name.contains("x"`},
		{"non-integer subscript", `Tags["red"] == 1`},
		{"value first", `18 > Age`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			require.Error(t, err)
		})
	}
}

func TestParse_CompilesEndToEnd(t *testing.T) {
	node, err := Parse(`Age > 18 and (Name == "John" or Tags[2] == "red")`)
	require.NoError(t, err)

	frag, err := querysql.Compile(node)
	require.NoError(t, err)
	assert.Equal(t,
		"(json_extract(data, '$.Age') > @p0 AND (json_extract(data, '$.Name') = @p1 OR json_extract(data, '$.Tags[2]') = @p2))",
		frag.Text)
	assert.Equal(t, []querysql.Param{
		{Name: "p0", Value: int64(18)},
		{Name: "p1", Value: "John"},
		{Name: "p2", Value: "red"},
	}, frag.Params)
}
