package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idotta/jsonb-store/internal/store"
)

// DocumentOptions holds flags shared by the document commands.
type DocumentOptions struct {
	*RootOptions
	DB string // database path
	ID string // explicit document id (put only)
}

// DocumentOutput is the JSON payload for a single document.
type DocumentOutput struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// NewPutCommand creates the put command.
func NewPutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DocumentOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "put <collection> <json|@file>",
		Short: "Store a document",
		Long: `Store a JSON document in a collection.

The body is given inline or as @path to read a file. Without --id a new
UUIDv7 id is generated; with --id an existing document is replaced.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "database path (required)")
	cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.ID, "id", "", "explicit document id (upsert)")

	return cmd
}

func runPut(opts *DocumentOptions, collection, body string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if strings.HasPrefix(body, "@") {
		data, err := os.ReadFile(body[1:])
		if err != nil {
			formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return NewExitError(ExitCommandError, "read body file failed")
		}
		body = string(data)
	}
	if !json.Valid([]byte(body)) {
		formatter.Error(ErrCodeUsage, "document body is not valid JSON", nil)
		return NewExitError(ExitCommandError, "invalid body")
	}

	s, err := store.Open(opts.DB)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, "open database failed")
	}
	defer s.Close()

	ctx := context.Background()
	id := opts.ID
	if id == "" {
		id, err = s.Insert(ctx, collection, json.RawMessage(body))
	} else {
		err = s.Put(ctx, collection, id, json.RawMessage(body))
	}
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitFailure, "put failed")
	}

	if opts.Format == "json" {
		return formatter.Success(DocumentOutput{ID: id, Data: json.RawMessage(body)})
	}
	return formatter.Success(id)
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DocumentOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "get <collection> <id>",
		Short:         "Fetch a document by id",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "database path (required)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runGet(opts *DocumentOptions, collection, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := store.Open(opts.DB)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, "open database failed")
	}
	defer s.Close()

	doc, err := s.Get(context.Background(), collection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			formatter.Error(ErrCodeNotFound, fmt.Sprintf("%s/%s not found", collection, id), nil)
			return NewExitError(ExitFailure, "not found")
		}
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitFailure, "get failed")
	}

	if opts.Format == "json" {
		return formatter.Success(DocumentOutput{ID: doc.ID, Data: doc.Data})
	}
	return formatter.Success(string(doc.Data))
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DocumentOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "delete <collection> <id>",
		Short:         "Delete a document by id",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "database path (required)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runDelete(opts *DocumentOptions, collection, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := store.Open(opts.DB)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, "open database failed")
	}
	defer s.Close()

	removed, err := s.Delete(context.Background(), collection, id)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitFailure, "delete failed")
	}
	if !removed {
		formatter.Error(ErrCodeNotFound, fmt.Sprintf("%s/%s not found", collection, id), nil)
		return NewExitError(ExitFailure, "not found")
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]string{"deleted": id})
	}
	return formatter.Success("deleted " + id)
}
