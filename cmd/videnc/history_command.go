package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"videnc/internal/config"
	"videnc/internal/display"
	"videnc/internal/history"
)

func newHistoryCommand() *cobra.Command {
	var dbPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs from the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(dbPath)
			if path == "" {
				path = strings.TrimSpace(os.Getenv("VIDENC_HISTORY_DB"))
			}
			if path == "" {
				return errors.New("no history database (use --db or VIDENC_HISTORY_DB)")
			}
			expanded, err := config.ExpandPath(path)
			if err != nil {
				return fmt.Errorf("resolve history path: %w", err)
			}
			if _, err := os.Stat(expanded); err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintf(cmd.OutOrStdout(), "No history database at %s\n", expanded)
					return nil
				}
				return fmt.Errorf("check history path: %w", err)
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			store, err := history.Open(cmd.Context(), expanded)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			return display.WriteHistory(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "History database path (defaults to VIDENC_HISTORY_DB)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to list")
	return cmd
}
