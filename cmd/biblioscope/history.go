package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biblioscope/internal/config"
	"github.com/pdiddy/biblioscope/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	Long: `History lists searches recorded in the local SQLite history database,
newest first. The database location is set by the history config key or
BIBLIOSCOPE_HISTORY. History is a log only; searches always query Scopus.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", history.DefaultLimit, "maximum number of searches to list")
	historyCmd.Flags().Bool("json", false, "output history as JSON")
	historyCmd.Flags().Bool("clear", false, "delete all recorded searches")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path := v.GetString(config.KeyHistory)
	if path == "" {
		return fmt.Errorf("history is disabled: no history database configured")
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if doClear, _ := cmd.Flags().GetBool("clear"); doClear {
		n, err := store.Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d searches.\n", n)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if entries == nil {
			entries = []history.Entry{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	history.FormatTable(entries, out)
	return nil
}
