package schema

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersSchema = `
collection: orders: {
	columns: {
		name_vc: {path: "$.Name", type: "text"}
		age_vc: {path: "$.Age", type: "integer"}
		total_vc: {path: "$.Total", type: "real"}
	}
}
`

func TestCompileCollections(t *testing.T) {
	v := cuecontext.New().CompileString(ordersSchema)
	require.NoError(t, v.Err())

	cols, err := CompileCollections(v)
	require.NoError(t, err)
	require.Len(t, cols, 1)

	orders := cols[0]
	assert.Equal(t, "orders", orders.Name)
	require.Len(t, orders.Columns, 3)

	byName := make(map[string]VirtualColumn, len(orders.Columns))
	for _, c := range orders.Columns {
		byName[c.Column] = c
	}
	assert.Equal(t, VirtualColumn{Column: "name_vc", JSONPath: "$.Name", Type: TypeText}, byName["name_vc"])
	assert.Equal(t, VirtualColumn{Column: "age_vc", JSONPath: "$.Age", Type: TypeInteger}, byName["age_vc"])
	assert.Equal(t, VirtualColumn{Column: "total_vc", JSONPath: "$.Total", Type: TypeReal}, byName["total_vc"])
}

func TestCompileCollections_MultipleCollections(t *testing.T) {
	src := `
collection: orders: columns: name_vc: {path: "$.Name", type: "text"}
collection: users: {}
`
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())

	cols, err := CompileCollections(v)
	require.NoError(t, err)
	require.Len(t, cols, 2)
}

func TestCompileCollections_ColumnsOptional(t *testing.T) {
	v := cuecontext.New().CompileString(`collection: logs: {}`)
	require.NoError(t, v.Err())

	cols, err := CompileCollections(v)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Empty(t, cols[0].Columns)
}

func TestCompileCollections_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "no collection struct",
			src:  `tables: orders: {}`,
			want: "no collection definitions found",
		},
		{
			name: "missing path",
			src:  `collection: orders: columns: name_vc: {type: "text"}`,
			want: "path is required",
		},
		{
			name: "missing type",
			src:  `collection: orders: columns: name_vc: {path: "$.Name"}`,
			want: "type is required",
		},
		{
			name: "unknown type",
			src:  `collection: orders: columns: name_vc: {path: "$.Name", type: "varchar"}`,
			want: "unknown column type",
		},
		{
			name: "invalid path",
			src:  `collection: orders: columns: name_vc: {path: "Name", type: "text"}`,
			want: `must start with "$."`,
		},
		{
			name: "duplicate paths",
			src: `collection: orders: columns: {
				a_vc: {path: "$.Name", type: "text"}
				b_vc: {path: "$.Name", type: "text"}
			}`,
			want: "duplicate column path",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := cuecontext.New().CompileString(tc.src)
			require.NoError(t, v.Err())

			_, err := CompileCollections(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.cue")
	require.NoError(t, os.WriteFile(path, []byte(ordersSchema), 0o644))

	cols, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "orders", cols[0].Name)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read schema file")
}

func TestLoadFile_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.cue")
	require.NoError(t, os.WriteFile(path, []byte(`collection: {{{`), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.cue"),
		[]byte(`collection: orders: columns: name_vc: {path: "$.Name", type: "text"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.cue"),
		[]byte(`collection: users: {}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"),
		[]byte(`ignored`), 0o644))

	cols, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, cols, 2)
	// Sorted by name.
	assert.Equal(t, "orders", cols[0].Name)
	assert.Equal(t, "users", cols[1].Name)
}

func TestLoadDir_DuplicateCollection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"),
		[]byte(`collection: orders: {}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.cue"),
		[]byte(`collection: orders: {}`), 0o644))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defined in both")
}

func TestLoadDir_Empty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no collection definitions")
}
