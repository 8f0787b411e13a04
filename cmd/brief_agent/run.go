package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/briefing-monitor/internal/archive"
	"github.com/jonathan/briefing-monitor/internal/config"
	"github.com/jonathan/briefing-monitor/internal/db"
	"github.com/jonathan/briefing-monitor/internal/dispatch"
	"github.com/jonathan/briefing-monitor/internal/observability"
	"github.com/jonathan/briefing-monitor/internal/pipeline"
	"github.com/jonathan/briefing-monitor/internal/sources"
	"github.com/jonathan/briefing-monitor/internal/variants"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run one briefing end-to-end",
	Long: `Collects records for a variant, selects the relevant recent ones, synthesizes a brief,
renders it and delivers it: collect -> select -> synthesize -> render -> deliver.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.
Secrets are read from the environment (GEMINI_API_KEY, GMAIL_APP_PASSWORD, GOOGLE_SERVICE_ACCOUNT_JSON).`,
	RunE: runBriefCmd,
}

var (
	runConfigPath    string
	runVariant       string
	runVariantFile   string
	runFrom          string
	runTo            string
	runOut           string
	runSMTPHost      string
	runSMTPPort      int
	runWindowDays    int
	runSheetID       string
	runModel         string
	runDatabaseURL   string
	runArchiveBucket string
	runArchivePrefix string
	runArchiveRegion string
	runLogLevel      string
	runLogFormat     string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVar(&runVariant, "variant", "", "Built-in variant name (see 'variants')")
	runCommand.Flags().StringVar(&runVariantFile, "variant-file", "", "Path to a custom variant YAML file")
	runCommand.Flags().StringVar(&runFrom, "from", "", "Sender email address")
	runCommand.Flags().StringVar(&runTo, "to", "", "Comma-separated recipient addresses")
	runCommand.Flags().StringVarP(&runOut, "out", "o", "", "Write the brief to this directory instead of sending mail")
	runCommand.Flags().StringVar(&runSMTPHost, "smtp-host", "", "SMTP server host (default smtp.gmail.com)")
	runCommand.Flags().IntVar(&runSMTPPort, "smtp-port", 0, "SMTP server port (default 465)")
	runCommand.Flags().IntVar(&runWindowDays, "window-days", 0, "Recency window in days (default 21)")
	runCommand.Flags().StringVar(&runSheetID, "sheet-id", "", "Metrics spreadsheet id for sheet variants")
	runCommand.Flags().StringVar(&runModel, "model", "", "Model name used for every tier")

	// Optional persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL for the run ledger (optional, defaults to DATABASE_URL env var)")
	runCommand.Flags().StringVar(&runArchiveBucket, "archive-bucket", "", "S3 bucket for archived briefs (optional)")
	runCommand.Flags().StringVar(&runArchivePrefix, "archive-prefix", "", "Key prefix inside the archive bucket")
	runCommand.Flags().StringVar(&runArchiveRegion, "archive-region", "", "AWS region of the archive bucket (default us-east-1)")

	runCommand.Flags().StringVar(&runLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	runCommand.Flags().StringVar(&runLogFormat, "log-format", "", "Log format: console or json")

	rootCmd.AddCommand(runCommand)
}

// applyRunOverrides copies explicitly set flags over config file values.
func applyRunOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("variant") {
		cfg.Variant = runVariant
		cfg.VariantFile = ""
	}
	if flags.Changed("variant-file") {
		cfg.VariantFile = runVariantFile
		cfg.Variant = ""
	}
	if flags.Changed("from") {
		cfg.From = runFrom
	}
	if flags.Changed("to") {
		cfg.To = runTo
	}
	if flags.Changed("out") {
		cfg.OutputDir = runOut
	}
	if flags.Changed("smtp-host") {
		cfg.SMTPHost = runSMTPHost
	}
	if flags.Changed("smtp-port") {
		cfg.SMTPPort = runSMTPPort
	}
	if flags.Changed("window-days") {
		cfg.WindowDays = runWindowDays
	}
	if flags.Changed("sheet-id") {
		cfg.SheetID = runSheetID
	}
	if flags.Changed("model") {
		cfg.Model = runModel
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if flags.Changed("archive-bucket") {
		cfg.ArchiveBucket = runArchiveBucket
	}
	if flags.Changed("archive-prefix") {
		cfg.ArchivePrefix = runArchivePrefix
	}
	if flags.Changed("archive-region") {
		cfg.ArchiveRegion = runArchiveRegion
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = runLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = runLogFormat
	}
}

func runBriefCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Step 1: Resolve configuration and variant
	cfg, err := resolveConfig(cmd, runConfigPath, applyRunOverrides)
	if err != nil {
		return err
	}
	v, err := resolveVariant(cfg)
	if err != nil {
		return err
	}
	if err := cfg.RequireDelivery(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts := pipeline.RunOptions{
		Variant:    v,
		From:       cfg.From,
		To:         cfg.Recipients(),
		WindowDays: cfg.WindowDays,
		SheetID:    cfg.SheetID,
		Deliverer:  newDeliverer(cfg),
		Logger:     logger,
	}

	// Step 2: Build collaborators
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()
	opts.LLM = client

	switch v.Source.Kind {
	case variants.SourceFeeds:
		opts.Feeds = sources.NewHTTPFeedSource(nil)
	case variants.SourceSheet:
		table, err := newTableSource(ctx, cfg)
		if err != nil {
			return err
		}
		opts.Table = table
	}

	if cfg.ArchiveEnabled() {
		store, err := archive.NewS3Store(ctx, archive.S3Config{
			Region: cfg.ArchiveRegion,
			Bucket: cfg.ArchiveBucket,
			Prefix: cfg.ArchivePrefix,
		})
		if err != nil {
			logger.Warn("archive unavailable; continuing without it", zap.Error(err))
		} else {
			opts.Archive = store
		}
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("could not connect to database; run will not be recorded", zap.Error(err))
		} else {
			defer database.Close()
			opts.Ledger = database
		}
	}

	// Step 3: Run the pipeline
	report, runErr := pipeline.Run(ctx, opts)

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintReport(report)
	if fd, ok := opts.Deliverer.(*dispatch.FileDeliverer); ok && runErr == nil {
		for _, path := range fd.Written {
			_, _ = fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
		}
	}

	if errors.Is(runErr, pipeline.ErrNoRecords) {
		_, _ = fmt.Fprintln(os.Stdout, "No records to brief; nothing was sent.")
		return nil
	}
	return runErr
}
