// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/design-research/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, search, show, and export past research runs",
	Long: `History manages the local archive of completed research runs. Use
subcommands to list recent runs, search them full-text, re-render one
answer, or export the archive.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}
	printRuns(runs)
	return nil
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over archived questions and summaries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistorySearch,
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}
	printRuns(runs)
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Re-render one archived answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Run %s (%s)\nQuestion: %s\n\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04"), run.Question)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	return renderResponse(run.Response, jsonOutput, yamlOutput)
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run archive to YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	switch format {
	case "yaml", "":
		if out == "" {
			out = "history-export.yaml"
		}
		if err := store.ExportYAML(context.Background(), out); err != nil {
			return err
		}
	case "json":
		if out == "" {
			out = "history-export.json"
		}
		if err := store.ExportJSON(context.Background(), out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Println("Exported to", out)
	return nil
}

// --- shared helpers ---

func openHistory() (*history.Store, error) {
	cfg := loadConfig()
	return history.NewStore(cfg.History)
}

func printRuns(runs []history.Run) {
	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return
	}

	fmt.Printf("%-24s  %-16s  %-13s  %s\n", "ID", "Date", "Class", "Question")
	fmt.Println(strings.Repeat("-", 100))
	for _, run := range runs {
		question := run.Question
		if len(question) > 40 {
			question = question[:37] + "..."
		}
		fmt.Printf("%-24s  %-16s  %-13s  %s\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04"), run.Classification, question)
	}
	fmt.Printf("\n%d runs\n", len(runs))
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "maximum runs to list (0 = use default)")
	historySearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	historyShowCmd.Flags().Bool("json", false, "output the response as JSON")
	historyShowCmd.Flags().Bool("yaml", false, "output the response as YAML")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("out", "", "output path (default: history-export.<format>)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
