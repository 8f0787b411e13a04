package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/briefing-monitor/internal/rendering"
	"github.com/jonathan/briefing-monitor/internal/variants"
)

var renderCommand = &cobra.Command{
	Use:   "render",
	Short: "Render a synthesis text file into a brief",
	Long: `Parses a synthesis text file with the variant's section rules and writes the HTML brief.
The plain-text rendering is written next to it with a .txt extension.`,
	RunE: runRender,
}

var (
	renderIn          string
	renderOut         string
	renderVariant     string
	renderVariantFile string
	renderCount       int
	renderSheetID     string
	renderDate        string
)

func init() {
	renderCommand.Flags().StringVarP(&renderIn, "in", "i", "", "Path to the synthesis text file")
	renderCommand.Flags().StringVarP(&renderOut, "out", "o", "", "Output HTML file path")
	renderCommand.Flags().StringVar(&renderVariant, "variant", "", "Built-in variant name")
	renderCommand.Flags().StringVar(&renderVariantFile, "variant-file", "", "Path to a custom variant YAML file")
	renderCommand.Flags().IntVar(&renderCount, "count", 0, "Number of items analyzed, shown in the header")
	renderCommand.Flags().StringVar(&renderSheetID, "sheet-id", "", "Metrics spreadsheet id used in the footer link")
	renderCommand.Flags().StringVar(&renderDate, "date", "", "Report date as YYYY-MM-DD (default today)")

	if err := renderCommand.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := renderCommand.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCommand)
}

func runRender(_ *cobra.Command, _ []string) error {
	v, err := renderTarget(renderVariant, renderVariantFile)
	if err != nil {
		return err
	}
	now, err := reportDate(renderDate, time.Now())
	if err != nil {
		return err
	}

	narrative, err := os.ReadFile(renderIn)
	if err != nil {
		return fmt.Errorf("failed to read synthesis file: %w", err)
	}

	doc := rendering.BuildDocument(string(narrative), v.NarrativeRules(), nil)
	presentation := v.Presentation(now, renderCount, renderSheetID)
	html, err := rendering.RenderHTML(doc, presentation)
	if err != nil {
		return fmt.Errorf("failed to render brief: %w", err)
	}

	if dir := filepath.Dir(renderOut); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(renderOut, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}
	textPath := strings.TrimSuffix(renderOut, filepath.Ext(renderOut)) + ".txt"
	if err := os.WriteFile(textPath, []byte(rendering.RenderText(doc, presentation)), 0o644); err != nil {
		return fmt.Errorf("failed to write text: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Rendered %d blocks to %s and %s\n", len(doc.Blocks), renderOut, textPath)
	return nil
}

func renderTarget(name, file string) (*variants.Variant, error) {
	switch {
	case name != "" && file != "":
		return nil, fmt.Errorf("--variant and --variant-file are mutually exclusive; provide only one")
	case file != "":
		return variants.LoadFile(file)
	case name != "":
		return variants.Get(name)
	default:
		return nil, fmt.Errorf("either --variant or --variant-file must be provided")
	}
}

// reportDate parses value as YYYY-MM-DD in the local zone, or returns fallback when empty.
func reportDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}
