package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/briefing-monitor/internal/config"
	"github.com/jonathan/briefing-monitor/internal/dispatch"
	"github.com/jonathan/briefing-monitor/internal/llm"
	"github.com/jonathan/briefing-monitor/internal/logging"
	"github.com/jonathan/briefing-monitor/internal/sources"
	"github.com/jonathan/briefing-monitor/internal/variants"
)

// resolveConfig loads the optional config file, applies flag overrides, fills defaults,
// reads secrets from the environment and validates the result.
func resolveConfig(cmd *cobra.Command, path string, override func(cmd *cobra.Command, cfg *config.Config)) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if override != nil {
		override(cmd, &cfg)
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveVariant returns the built-in or file-defined variant named by cfg.
func resolveVariant(cfg config.Config) (*variants.Variant, error) {
	switch {
	case cfg.VariantFile != "":
		return variants.LoadFile(cfg.VariantFile)
	case cfg.Variant != "":
		return variants.Get(cfg.Variant)
	default:
		return nil, fmt.Errorf("either --variant or --variant-file must be provided (via flag or config)")
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
}

// newLLMClient builds the Gemini client. A configured model replaces every tier.
func newLLMClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%s environment variable is required", config.EnvGeminiAPIKey)
	}
	llmCfg := llm.DefaultConfig()
	if cfg.Model != "" {
		llmCfg = llmCfg.WithAllModels(cfg.Model)
	}
	return llm.NewClient(ctx, llmCfg, cfg.GeminiAPIKey)
}

// newTableSource returns the Sheets reader for variants backed by a spreadsheet.
func newTableSource(ctx context.Context, cfg config.Config) (sources.TableSource, error) {
	if cfg.SheetID == "" {
		return nil, fmt.Errorf("--sheet-id is required for sheet variants (via flag or config)")
	}
	if cfg.ServiceAccountJSON == "" {
		return nil, fmt.Errorf("%s environment variable is required for sheet variants", config.EnvServiceAccountJSON)
	}
	return sources.NewSheetsSource(ctx, []byte(cfg.ServiceAccountJSON))
}

// newDeliverer writes files when an output directory is set and sends mail otherwise.
func newDeliverer(cfg config.Config) dispatch.Deliverer {
	if cfg.OutputDir != "" {
		return &dispatch.FileDeliverer{Dir: cfg.OutputDir}
	}
	return dispatch.NewSMTPDeliverer(dispatch.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})
}
