package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumnType(t *testing.T) {
	testCases := []struct {
		in   string
		want ColumnType
	}{
		{"text", TypeText},
		{"TEXT", TypeText},
		{"integer", TypeInteger},
		{"int", TypeInteger},
		{"real", TypeReal},
		{"float", TypeReal},
		{"Real", TypeReal},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColumnType(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseColumnType("varchar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "varchar")
}

func TestColumnTypeSQL(t *testing.T) {
	assert.Equal(t, "TEXT", TypeText.SQL())
	assert.Equal(t, "INTEGER", TypeInteger.SQL())
	assert.Equal(t, "REAL", TypeReal.SQL())
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("orders"))
	assert.True(t, ValidIdentifier("_private"))
	assert.True(t, ValidIdentifier("name_vc2"))

	assert.False(t, ValidIdentifier(""))
	assert.False(t, ValidIdentifier("2fast"))
	assert.False(t, ValidIdentifier("drop table"))
	assert.False(t, ValidIdentifier(`users"; --`))
}

func TestCollectionValidate(t *testing.T) {
	valid := Collection{
		Name: "orders",
		Columns: []VirtualColumn{
			{Column: "name_vc", JSONPath: "$.Name", Type: TypeText},
			{Column: "age_vc", JSONPath: "$.Age", Type: TypeInteger},
		},
	}
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name string
		col  Collection
		want string
	}{
		{
			name: "bad collection name",
			col:  Collection{Name: "my orders"},
			want: "not a valid identifier",
		},
		{
			name: "bad column name",
			col: Collection{Name: "orders", Columns: []VirtualColumn{
				{Column: "name-vc", JSONPath: "$.Name", Type: TypeText},
			}},
			want: "not a valid identifier",
		},
		{
			name: "duplicate column name",
			col: Collection{Name: "orders", Columns: []VirtualColumn{
				{Column: "vc", JSONPath: "$.A", Type: TypeText},
				{Column: "vc", JSONPath: "$.B", Type: TypeText},
			}},
			want: "duplicate column name",
		},
		{
			name: "duplicate path",
			col: Collection{Name: "orders", Columns: []VirtualColumn{
				{Column: "a_vc", JSONPath: "$.A", Type: TypeText},
				{Column: "b_vc", JSONPath: "$.A", Type: TypeText},
			}},
			want: "duplicate column path",
		},
		{
			name: "path without prefix",
			col: Collection{Name: "orders", Columns: []VirtualColumn{
				{Column: "vc", JSONPath: "Name", Type: TypeText},
			}},
			want: `must start with "$."`,
		},
		{
			name: "bare root path",
			col: Collection{Name: "orders", Columns: []VirtualColumn{
				{Column: "vc", JSONPath: "$.", Type: TypeText},
			}},
			want: `must start with "$."`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.col.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestCollectionValidate_NFCDuplicatePaths(t *testing.T) {
	// The same path in decomposed and precomposed unicode is one path.
	col := Collection{Name: "orders", Columns: []VirtualColumn{
		{Column: "a_vc", JSONPath: "$.Cafe\u0301", Type: TypeText},
		{Column: "b_vc", JSONPath: "$.Caf\u00e9", Type: TypeText},
	}}
	err := col.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column path")
}

func TestColumnIndexLookup(t *testing.T) {
	ix := NewColumnIndex([]VirtualColumn{
		{Column: "name_vc", JSONPath: "$.Name", Type: TypeText},
		{Column: "tag0_vc", JSONPath: "$.Tags[0]", Type: TypeText},
	})

	col, ok := ix.Lookup("$.Name")
	require.True(t, ok)
	assert.Equal(t, "name_vc", col.Column)

	col, ok = ix.Lookup("$.Tags[0]")
	require.True(t, ok)
	assert.Equal(t, "tag0_vc", col.Column)

	// Exact match only: no case folding, no prefix matching.
	_, ok = ix.Lookup("$.name")
	assert.False(t, ok)
	_, ok = ix.Lookup("$.Name.First")
	assert.False(t, ok)

	assert.Equal(t, 2, ix.Len())
}

func TestColumnIndexLookup_NFC(t *testing.T) {
	// Declared decomposed, looked up precomposed.
	ix := NewColumnIndex([]VirtualColumn{
		{Column: "cafe_vc", JSONPath: "$.Cafe\u0301", Type: TypeText},
	})
	_, ok := ix.Lookup("$.Caf\u00e9")
	assert.True(t, ok)
}

func TestColumnIndex_NilSafe(t *testing.T) {
	var ix *ColumnIndex
	_, ok := ix.Lookup("$.Name")
	assert.False(t, ok)
	assert.Equal(t, 0, ix.Len())
}

func TestCollectionIndex(t *testing.T) {
	col := Collection{
		Name: "orders",
		Columns: []VirtualColumn{
			{Column: "name_vc", JSONPath: "$.Name", Type: TypeText},
		},
	}
	ix := col.Index()
	vc, ok := ix.Lookup("$.Name")
	require.True(t, ok)
	assert.Equal(t, TypeText, vc.Type)
}
