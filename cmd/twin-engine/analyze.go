// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/sciencetwins/twin-engine/internal/input"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

var plagiarismCmd = &cobra.Command{
	Use:   "plagiarism [file]",
	Short: "Check a text for plagiarism against the published literature",
	Long: `Plagiarism checks the input against candidate papers from the scholarly
corpus and reports the first work found to be substantially similar. The
input is a text file, a PDF, or "-" for stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlagiarism,
}

var doppelgangerCmd = &cobra.Command{
	Use:   "doppelganger [file]",
	Short: "Find conceptual twins of a text across unrelated fields",
	Long: `Doppelganger searches for published works that share deep conceptual
structure with the input despite living in different domains. Every
candidate is evaluated; all matches are reported along with a ranked top
three. The input is a text file, a PDF, or "-" for stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runDoppelganger,
}

func runPlagiarism(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := input.Load(args[0], cfg.MaxInputChars)
	if err != nil {
		return err
	}

	engine := buildEngine(cfg)
	report := engine.RunPlagiarismCheck(context.Background(), text)

	if store := openHistory(cfg); store != nil {
		defer store.Close()
		if _, err := store.RecordPlagiarism(context.Background(), "", report); err != nil {
			fmt.Fprintf(os.Stderr, "warning: history record failed: %v\n", err)
		}
	}

	if err := writeReport(cmd, report); err != nil {
		return err
	}
	if report.Type == types.OutcomeError {
		return fmt.Errorf("analysis failed: %s", report.Message)
	}
	return nil
}

func runDoppelganger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := input.Load(args[0], cfg.MaxInputChars)
	if err != nil {
		return err
	}

	engine := buildEngine(cfg)
	report := engine.RunDoppelgangerSearch(context.Background(), text)

	if store := openHistory(cfg); store != nil {
		defer store.Close()
		if _, err := store.RecordDoppelganger(context.Background(), "", report); err != nil {
			fmt.Fprintf(os.Stderr, "warning: history record failed: %v\n", err)
		}
	}

	if err := writeReport(cmd, report); err != nil {
		return err
	}
	if report.Type == types.OutcomeError {
		return fmt.Errorf("analysis failed: %s", report.Message)
	}
	return nil
}

// writeReport prints a report in the selected output format. JSON is the
// default because the reports are structured wire objects.
func writeReport(cmd *cobra.Command, v any) error {
	if yamlOut, _ := cmd.Flags().GetBool("yaml"); yamlOut {
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, cmd := range []*cobra.Command{plagiarismCmd, doppelgangerCmd} {
		cmd.Flags().Bool("yaml", false, "output the report as YAML instead of JSON")
		rootCmd.AddCommand(cmd)
	}
}
