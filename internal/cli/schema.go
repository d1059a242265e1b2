package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idotta/jsonb-store/internal/schema"
	"github.com/idotta/jsonb-store/internal/store"
)

// SchemaOptions holds flags for the schema subcommands.
type SchemaOptions struct {
	*RootOptions
	DB string // database path (apply only)
}

// SchemaOutput is the JSON payload for schema show/apply.
type SchemaOutput struct {
	Collections []CollectionOutput `json:"collections"`
}

// CollectionOutput describes one collection in CLI output.
type CollectionOutput struct {
	Name    string         `json:"name"`
	Columns []ColumnOutput `json:"columns"`
}

// ColumnOutput describes one virtual column in CLI output.
type ColumnOutput struct {
	Column string `json:"column"`
	Path   string `json:"path"`
	Type   string `json:"type"`
}

// NewSchemaCommand creates the schema command group.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect and apply collection schemas",
	}

	show := &cobra.Command{
		Use:           "show <schema.cue>",
		Short:         "Parse and display a schema file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaShow(opts, args[0], cmd)
		},
	}

	apply := &cobra.Command{
		Use:           "apply <schema.cue>",
		Short:         "Create collection tables and generated columns",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaApply(opts, args[0], cmd)
		},
	}
	apply.Flags().StringVar(&opts.DB, "db", "", "database path (required)")
	apply.MarkFlagRequired("db")

	cmd.AddCommand(show)
	cmd.AddCommand(apply)
	return cmd
}

func runSchemaShow(opts *SchemaOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cols, err := schema.LoadFile(path)
	if err != nil {
		formatter.Error(ErrCodeSchema, err.Error(), nil)
		return NewExitError(ExitFailure, "schema load failed")
	}

	out := schemaOutput(cols)
	if opts.Format == "json" {
		return formatter.Success(out)
	}
	return formatter.Success(renderSchemaText(out))
}

func runSchemaApply(opts *SchemaOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cols, err := schema.LoadFile(path)
	if err != nil {
		formatter.Error(ErrCodeSchema, err.Error(), nil)
		return NewExitError(ExitFailure, "schema load failed")
	}

	s, err := store.Open(opts.DB)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, "open database failed")
	}
	defer s.Close()

	ctx := context.Background()
	for _, col := range cols {
		formatter.VerboseLog("Applying collection %s (%d columns)", col.Name, len(col.Columns))
		if err := s.EnsureCollection(ctx, col); err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return NewExitError(ExitFailure, "apply failed")
		}
	}

	out := schemaOutput(cols)
	if opts.Format == "json" {
		return formatter.Success(out)
	}
	return formatter.Success(fmt.Sprintf("applied %d collection(s) to %s", len(cols), opts.DB))
}

func schemaOutput(cols []schema.Collection) SchemaOutput {
	out := SchemaOutput{Collections: make([]CollectionOutput, 0, len(cols))}
	for _, c := range cols {
		co := CollectionOutput{Name: c.Name, Columns: make([]ColumnOutput, 0, len(c.Columns))}
		for _, vc := range c.Columns {
			co.Columns = append(co.Columns, ColumnOutput{
				Column: vc.Column,
				Path:   vc.JSONPath,
				Type:   vc.Type.String(),
			})
		}
		out.Collections = append(out.Collections, co)
	}
	return out
}

func renderSchemaText(out SchemaOutput) string {
	var sb strings.Builder
	for i, c := range out.Collections {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "collection %s", c.Name)
		for _, col := range c.Columns {
			fmt.Fprintf(&sb, "\n  %s %s <- %s", col.Column, col.Type, col.Path)
		}
	}
	return sb.String()
}
