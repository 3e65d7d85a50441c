// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sciencetwins/twin-engine/internal/history"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analysis runs",
	Long: `History lists recent analysis runs from the local journal, newest
first. Filter by mode with --mode and bound the count with --limit.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := types.DefaultPipelineConfig()
	if v := viper.GetString("history.db_path"); v != "" {
		cfg.History.DBPath = v
	}

	store, err := history.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	mode, _ := cmd.Flags().GetString("mode")
	limit, _ := cmd.Flags().GetInt("limit")

	runs, err := store.Recent(context.Background(), mode, limit)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-13s  %-15s  %-7s  %-6s  %s\n",
		"ID", "Mode", "Outcome", "Score", "Count", "When")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 75))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-5d  %-13s  %-15s  %-7.3f  %-6d  %s\n",
			r.ID, r.Mode, r.Outcome, r.Score, r.Count,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

func init() {
	historyCmd.Flags().String("mode", "", "filter by mode: plagiarism or doppelganger")
	historyCmd.Flags().Int("limit", 0, "maximum runs to list (0 = use default)")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}
