package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/briefing-monitor/internal/config"
	"github.com/jonathan/briefing-monitor/internal/logging"
	"github.com/jonathan/briefing-monitor/internal/observability"
	"github.com/jonathan/briefing-monitor/internal/pipeline"
	"github.com/jonathan/briefing-monitor/internal/sources"
	"github.com/jonathan/briefing-monitor/internal/variants"
)

var collectCommand = &cobra.Command{
	Use:   "collect",
	Short: "Collect and select records without synthesizing or sending",
	Long: `Reads the variant's source and prints what a run would brief.

Feed variants go through classification, the recency window, deduplication and ranking;
use --explain to print the classifier decision for every collected record.
Sheet variants print the parsed metrics rows.`,
	RunE: runCollect,
}

var (
	collectConfigPath  string
	collectVariant     string
	collectVariantFile string
	collectWindowDays  int
	collectSheetID     string
	collectExplain     bool
	collectLogLevel    string
)

func init() {
	collectCommand.Flags().StringVar(&collectConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	collectCommand.Flags().StringVar(&collectVariant, "variant", "", "Built-in variant name")
	collectCommand.Flags().StringVar(&collectVariantFile, "variant-file", "", "Path to a custom variant YAML file")
	collectCommand.Flags().IntVar(&collectWindowDays, "window-days", 0, "Recency window in days (default 21)")
	collectCommand.Flags().StringVar(&collectSheetID, "sheet-id", "", "Metrics spreadsheet id for sheet variants")
	collectCommand.Flags().BoolVar(&collectExplain, "explain", false, "Print the classifier decision for every record")
	collectCommand.Flags().StringVar(&collectLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(collectCommand)
}

func applyCollectOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("variant") {
		cfg.Variant = collectVariant
		cfg.VariantFile = ""
	}
	if flags.Changed("variant-file") {
		cfg.VariantFile = collectVariantFile
		cfg.Variant = ""
	}
	if flags.Changed("window-days") {
		cfg.WindowDays = collectWindowDays
	}
	if flags.Changed("sheet-id") {
		cfg.SheetID = collectSheetID
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = collectLogLevel
	}
}

func runCollect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := resolveConfig(cmd, collectConfigPath, applyCollectOverrides)
	if err != nil {
		return err
	}
	v, err := resolveVariant(cfg)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	printer := observability.NewPrinter(os.Stdout)

	switch v.Source.Kind {
	case variants.SourceFeeds:
		records := sources.CollectFeeds(ctx, sources.NewHTTPFeedSource(nil), v.Source.Feeds, sources.CollectOptions{
			MaxEntries: v.Source.MaxEntries,
			Logger:     logging.Component(logger, "sources"),
		})
		sel := pipeline.SelectRecords(records, v.Rule, time.Now(), cfg.WindowDays)
		if collectExplain {
			printer.PrintDecisions(sel.Decisions)
		}
		printer.PrintSelection(sel)
		printer.PrintRecords(sel.Records)
	case variants.SourceSheet:
		table, err := newTableSource(ctx, cfg)
		if err != nil {
			return err
		}
		rows, err := table.Read(ctx, cfg.SheetID, v.Source.Range)
		if err != nil {
			return fmt.Errorf("failed to read metrics sheet: %w", err)
		}
		printer.PrintMetrics(sources.ParseMetricsRows(rows, logging.Component(logger, "sources")))
	default:
		return fmt.Errorf("variant %q has no source to collect", v.Name)
	}
	return nil
}
