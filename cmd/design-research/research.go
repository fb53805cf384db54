// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/design-research/internal/history"
	"github.com/pdiddy/design-research/internal/pipeline"
	"github.com/pdiddy/design-research/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [question]",
	Short: "Answer a design question with a structured, cited response",
	Long: `Research runs the full pipeline for one question: classify and expand the
query, search providers, rank sources by authority, extract page content,
synthesize a structured answer, and validate it against the response
contract. The validated answer is archived in run history unless --no-save
is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question must not be empty")
	}

	cfg := loadConfig()
	if enableBrave, _ := cmd.Flags().GetBool("brave"); enableBrave {
		cfg.Search.EnableBrave = true
	}
	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		cfg.Synthesis.Provider = types.GeneratorProvider(provider)
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Synthesis.Model = model
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet {
		p.Observer = pipeline.WriterObserver(os.Stderr)
	}

	maxResults, _ := cmd.Flags().GetInt("max-results")
	includeImages, _ := cmd.Flags().GetBool("images")
	req := types.Request{
		Question:      question,
		MaxResults:    maxResults,
		IncludeImages: includeImages,
	}

	resp, err := p.Run(context.Background(), req)
	if err != nil {
		return err
	}

	noSave, _ := cmd.Flags().GetBool("no-save")
	if !noSave {
		store, err := history.NewStore(cfg.History)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		} else {
			defer store.Close()
			if id, err := store.Save(context.Background(), question, resp); err != nil {
				fmt.Fprintf(os.Stderr, "warning: saving run failed: %v\n", err)
			} else if !quiet {
				fmt.Fprintf(os.Stderr, "Saved as run %s\n", id)
			}
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	return renderResponse(resp, jsonOutput, yamlOutput)
}

func renderResponse(resp *types.ResearchResponse, jsonOutput, yamlOutput bool) error {
	switch {
	case jsonOutput:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case yamlOutput:
		data, err := yaml.Marshal(resp)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	fmt.Printf("Classification: %s\n\n", resp.QueryClassification)
	fmt.Println(resp.Summary)

	if len(resp.BestPractices) > 0 {
		fmt.Println("\nBest practices:")
		for _, bp := range resp.BestPractices {
			fmt.Printf("  - %s\n", bp)
		}
	}

	if len(resp.Examples) > 0 {
		fmt.Println("\nExamples:")
		for _, ex := range resp.Examples {
			fmt.Printf("  - %s\n    %s\n", ex.Title, ex.URL)
			if ex.Description != "" {
				fmt.Printf("    %s\n", ex.Description)
			}
			if ex.ImageURL != "" {
				fmt.Printf("    image: %s\n", ex.ImageURL)
			}
		}
	}

	printConsiderations := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", label)
		for _, item := range items {
			fmt.Printf("  - %s\n", item)
		}
	}
	printConsiderations("Tradeoffs", resp.Considerations.Tradeoffs)
	printConsiderations("Accessibility", resp.Considerations.Accessibility)
	printConsiderations("Performance", resp.Considerations.Performance)
	printConsiderations("Browser support", resp.Considerations.BrowserSupport)

	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for i, src := range resp.Sources {
			title := src.Title
			if title == "" {
				title = "Untitled"
			}
			fmt.Printf("  [%d] %s\n      %s\n", i+1, title, src.URL)
		}
	}

	for _, warning := range resp.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	return nil
}

func init() {
	researchCmd.Flags().Int("max-results", 0, "cap the ranked source window (0 = configured maximum)")
	researchCmd.Flags().Bool("images", true, "extract a primary image per source")
	researchCmd.Flags().Bool("brave", false, "enable the Brave web provider alongside Exa")
	researchCmd.Flags().String("provider", "", "generation provider: claude or openai")
	researchCmd.Flags().String("model", "", "generation model identifier")
	researchCmd.Flags().Bool("json", false, "output the response as JSON")
	researchCmd.Flags().Bool("yaml", false, "output the response as YAML")
	researchCmd.Flags().Bool("quiet", false, "suppress stage progress output")
	researchCmd.Flags().Bool("no-save", false, "do not archive the run in history")

	rootCmd.AddCommand(researchCmd)
}
