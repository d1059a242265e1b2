package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/idotta/jsonb-store/internal/store"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	DB string // database path
}

// LoadOutput is the JSON payload for a bulk load.
type LoadOutput struct {
	Loaded int      `json:"loaded"`
	IDs    []string `json:"ids"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <collection> <fixtures.yaml>",
		Short: "Bulk-load documents from a YAML fixture file",
		Long: `Bulk-load documents from a YAML fixture file.

The file holds a YAML sequence; each entry becomes one JSON document:

    - Name: "John"
      Age: 30
    - Name: "Jane"
      Age: 25
`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "database path (required)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runLoad(opts *LoadOptions, collection, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	data, err := os.ReadFile(path)
	if err != nil {
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return NewExitError(ExitCommandError, "read fixtures failed")
	}

	var fixtures []map[string]any
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		formatter.Error(ErrCodeUsage, fmt.Sprintf("parse fixtures: %v", err), nil)
		return NewExitError(ExitCommandError, "parse fixtures failed")
	}
	if len(fixtures) == 0 {
		formatter.Error(ErrCodeUsage, "fixture file holds no documents", nil)
		return NewExitError(ExitCommandError, "empty fixtures")
	}

	s, err := store.Open(opts.DB)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, "open database failed")
	}
	defer s.Close()

	ctx := context.Background()
	out := LoadOutput{IDs: make([]string, 0, len(fixtures))}
	for i, doc := range fixtures {
		body, err := json.Marshal(doc)
		if err != nil {
			formatter.Error(ErrCodeUsage, fmt.Sprintf("fixture %d: %v", i, err), nil)
			return NewExitError(ExitFailure, "marshal fixture failed")
		}
		id, err := s.Insert(ctx, collection, json.RawMessage(body))
		if err != nil {
			formatter.Error(ErrCodeStore, fmt.Sprintf("fixture %d: %v", i, err), nil)
			return NewExitError(ExitFailure, "insert failed")
		}
		out.IDs = append(out.IDs, id)
	}
	out.Loaded = len(out.IDs)

	formatter.VerboseLog("Loaded %d document(s) into %s", out.Loaded, collection)

	if opts.Format == "json" {
		return formatter.Success(out)
	}
	return formatter.Success(fmt.Sprintf("loaded %d document(s)", out.Loaded))
}
