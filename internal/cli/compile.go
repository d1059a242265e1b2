package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idotta/jsonb-store/internal/filter"
	"github.com/idotta/jsonb-store/internal/querysql"
	"github.com/idotta/jsonb-store/internal/schema"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Schema     string // schema file path (optional)
	Collection string // collection to take virtual columns from
}

// CompiledOutput is the JSON payload for a compiled fragment.
type CompiledOutput struct {
	Fragment string        `json:"fragment"`
	Params   []ParamOutput `json:"params"`
}

// ParamOutput is one parameter binding in CLI output.
type ParamOutput struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <expression>",
		Short: "Compile a filter expression to a SQL fragment",
		Long: `Compile a filter expression to a parameterized SQLite WHERE fragment.

Without --schema every property compiles to a json_extract call. With a
schema, paths that have a declared virtual column compile to the bracketed
column name instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "CUE schema file with virtual column declarations")
	cmd.Flags().StringVarP(&opts.Collection, "collection", "c", "", "collection whose columns to use (required if the schema has several)")

	return cmd
}

func runCompile(opts *CompileOptions, expr string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	pred, err := filter.Parse(expr)
	if err != nil {
		formatter.Error(ErrCodeParse, err.Error(), nil)
		return NewExitError(ExitFailure, "parse failed")
	}

	var columns *schema.ColumnIndex
	if opts.Schema != "" {
		columns, err = loadColumnIndex(opts.Schema, opts.Collection)
		if err != nil {
			formatter.Error(ErrCodeSchema, err.Error(), nil)
			return NewExitError(ExitCommandError, "schema load failed")
		}
		formatter.VerboseLog("Loaded %d virtual column(s) from %s", columns.Len(), opts.Schema)
	}

	frag, err := querysql.CompileWithColumns(pred, columns)
	if err != nil {
		formatter.Error(ErrCodeCompile, err.Error(), nil)
		return NewExitError(ExitFailure, "compile failed")
	}

	out := CompiledOutput{Fragment: frag.Text, Params: make([]ParamOutput, 0, len(frag.Params))}
	for _, p := range frag.Params {
		out.Params = append(out.Params, ParamOutput{Name: p.Name, Value: p.Value})
	}

	if opts.Format == "json" {
		return formatter.Success(out)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "fragment: %s\n", out.Fragment)
	if len(out.Params) > 0 {
		sb.WriteString("params:")
		for _, p := range out.Params {
			fmt.Fprintf(&sb, "\n  @%s = %v", p.Name, p.Value)
		}
	}
	return formatter.Success(sb.String())
}

// loadColumnIndex loads a schema file and returns the column snapshot for
// the requested collection. With a single-collection schema the name may be
// omitted.
func loadColumnIndex(path, collection string) (*schema.ColumnIndex, error) {
	cols, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}

	if collection == "" {
		if len(cols) != 1 {
			names := make([]string, 0, len(cols))
			for _, c := range cols {
				names = append(names, c.Name)
			}
			return nil, fmt.Errorf("schema defines %d collections (%s); pick one with --collection",
				len(cols), strings.Join(names, ", "))
		}
		return cols[0].Index(), nil
	}

	for _, c := range cols {
		if c.Name == collection {
			return c.Index(), nil
		}
	}
	return nil, fmt.Errorf("collection %q not found in %s", collection, path)
}
