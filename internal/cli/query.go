package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idotta/jsonb-store/internal/filter"
	"github.com/idotta/jsonb-store/internal/schema"
	"github.com/idotta/jsonb-store/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	DB         string // database path
	Where      string // filter expression
	Schema     string // schema file for virtual columns (optional)
	Collection string // schema collection override
	Count      bool   // print the match count instead of documents
}

// QueryOutput is the JSON payload for a query.
type QueryOutput struct {
	Count     int              `json:"count"`
	Documents []DocumentOutput `json:"documents,omitempty"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <collection>",
		Short: "Query documents with a filter expression",
		Long: `Query a collection with a filter expression.

Without --where every document is returned. With --schema, filters on
paths that have declared virtual columns use the indexed column instead of
json_extract.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "database path (required)")
	cmd.MarkFlagRequired("db")
	cmd.Flags().StringVarP(&opts.Where, "where", "w", "", "filter expression")
	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "CUE schema file with virtual column declarations")
	cmd.Flags().StringVarP(&opts.Collection, "collection", "c", "", "schema collection (defaults to the queried collection)")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "print only the number of matches")

	return cmd
}

func runQuery(opts *QueryOptions, collection string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	var columns *schema.ColumnIndex
	if opts.Schema != "" {
		schemaCollection := opts.Collection
		if schemaCollection == "" {
			schemaCollection = collection
		}
		var err error
		columns, err = loadColumnIndex(opts.Schema, schemaCollection)
		if err != nil {
			formatter.Error(ErrCodeSchema, err.Error(), nil)
			return NewExitError(ExitCommandError, "schema load failed")
		}
	}

	s, err := store.Open(opts.DB)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, "open database failed")
	}
	defer s.Close()

	ctx := context.Background()

	var docs []store.Document
	if opts.Where == "" {
		docs, err = s.FindAll(ctx, collection)
	} else {
		pred, parseErr := filter.Parse(opts.Where)
		if parseErr != nil {
			formatter.Error(ErrCodeParse, parseErr.Error(), nil)
			return NewExitError(ExitFailure, "parse failed")
		}
		if opts.Count {
			n, countErr := s.Count(ctx, collection, pred, columns)
			if countErr != nil {
				formatter.Error(ErrCodeStore, countErr.Error(), nil)
				return NewExitError(ExitFailure, "query failed")
			}
			return outputCount(formatter, opts, n)
		}
		docs, err = s.Find(ctx, collection, pred, columns)
	}
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitFailure, "query failed")
	}
	if opts.Count {
		return outputCount(formatter, opts, int64(len(docs)))
	}

	formatter.VerboseLog("Matched %d document(s)", len(docs))

	out := QueryOutput{Count: len(docs), Documents: make([]DocumentOutput, 0, len(docs))}
	for _, doc := range docs {
		out.Documents = append(out.Documents, DocumentOutput{ID: doc.ID, Data: doc.Data})
	}

	if opts.Format == "json" {
		return formatter.Success(out)
	}

	var sb strings.Builder
	for i, doc := range out.Documents {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s\t%s", doc.ID, string(doc.Data))
	}
	if len(out.Documents) == 0 {
		sb.WriteString("no matches")
	}
	return formatter.Success(sb.String())
}

func outputCount(formatter *OutputFormatter, opts *QueryOptions, n int64) error {
	if opts.Format == "json" {
		return formatter.Success(QueryOutput{Count: int(n)})
	}
	return formatter.Success(fmt.Sprintf("%d", n))
}
