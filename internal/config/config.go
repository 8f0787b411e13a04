// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Environment variables holding secrets. Secrets are never read from the config file.
const (
	EnvGeminiAPIKey       = "GEMINI_API_KEY"
	EnvGmailAppPassword   = "GMAIL_APP_PASSWORD"
	EnvSMTPPassword       = "SMTP_PASSWORD"
	EnvServiceAccountJSON = "GOOGLE_SERVICE_ACCOUNT_JSON"
	EnvDatabaseURL        = "DATABASE_URL"
)

const (
	defaultSMTPHost        = "smtp.gmail.com"
	defaultSMTPPort        = 465
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultWindowDays      = 21
	defaultArchiveRegion   = "us-east-1"
	defaultHistoryPageSize = 20
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Variant
	Variant     string `json:"variant,omitempty"`      // Built-in variant name
	VariantFile string `json:"variant_file,omitempty"` // Path to a custom variant YAML file

	// Delivery
	From         string `json:"from,omitempty" validate:"omitempty,email"`
	To           string `json:"to,omitempty"` // Comma-separated recipients
	SMTPHost     string `json:"smtp_host,omitempty" validate:"omitempty,hostname"`
	SMTPPort     int    `json:"smtp_port,omitempty" validate:"omitempty,min=1,max=65535"`
	SMTPUsername string `json:"smtp_username,omitempty"` // Defaults to From
	OutputDir    string `json:"output_dir,omitempty"`    // Write HTML/text files instead of sending mail

	// Logging
	LogLevel  string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat string `json:"log_format,omitempty" validate:"omitempty,oneof=console json"`

	// Collection
	WindowDays int    `json:"window_days,omitempty" validate:"min=0"` // Recency window
	SheetID    string `json:"sheet_id,omitempty"`                     // Metrics spreadsheet
	Model      string `json:"model,omitempty"`                        // Override every model tier

	// Persistence
	DatabaseURL   string `json:"database_url,omitempty"` // PostgreSQL connection URL (run ledger)
	ArchiveBucket string `json:"archive_bucket,omitempty"`
	ArchiveRegion string `json:"archive_region,omitempty"`
	ArchivePrefix string `json:"archive_prefix,omitempty"`

	// Secrets, loaded by ApplyEnv
	GeminiAPIKey       string `json:"-"`
	SMTPPassword       string `json:"-"`
	ServiceAccountJSON string `json:"-"`
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those depend on the command and
// the variant being run.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Variant != "" && c.VariantFile != "" {
		return fmt.Errorf("config error: 'variant' and 'variant_file' are mutually exclusive")
	}

	for _, addr := range c.Recipients() {
		if err := validate.Var(addr, "email"); err != nil {
			return fmt.Errorf("config error: invalid recipient %q", addr)
		}
	}

	if c.VariantFile != "" {
		if _, err := os.Stat(c.VariantFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: variant file not found: %s", c.VariantFile)
		}
	}

	return nil
}

// RequireDelivery checks the fields needed to send mail.
func (c *Config) RequireDelivery() error {
	if c.OutputDir != "" {
		return nil
	}
	if c.From == "" {
		return fmt.Errorf("config error: 'from' is required to send mail")
	}
	if len(c.Recipients()) == 0 {
		return fmt.Errorf("config error: 'to' is required to send mail")
	}
	if c.SMTPPassword == "" {
		return fmt.Errorf("config error: %s (or %s) is required to send mail", EnvGmailAppPassword, EnvSMTPPassword)
	}
	return nil
}

// Recipients splits To on commas.
func (c *Config) Recipients() []string {
	var out []string
	for _, part := range strings.Split(c.To, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// ArchiveEnabled reports whether rendered briefs should be uploaded.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveBucket != ""
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.Variant, defaults.Variant)
	mergeString(&result.VariantFile, defaults.VariantFile)
	mergeString(&result.From, defaults.From)
	mergeString(&result.To, defaults.To)
	mergeString(&result.SMTPHost, defaults.SMTPHost)
	mergeString(&result.SMTPUsername, defaults.SMTPUsername)
	mergeString(&result.OutputDir, defaults.OutputDir)
	mergeString(&result.LogLevel, defaults.LogLevel)
	mergeString(&result.LogFormat, defaults.LogFormat)
	mergeString(&result.SheetID, defaults.SheetID)
	mergeString(&result.Model, defaults.Model)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.ArchiveBucket, defaults.ArchiveBucket)
	mergeString(&result.ArchiveRegion, defaults.ArchiveRegion)
	mergeString(&result.ArchivePrefix, defaults.ArchivePrefix)
	mergeString(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	mergeString(&result.SMTPPassword, defaults.SMTPPassword)
	mergeString(&result.ServiceAccountJSON, defaults.ServiceAccountJSON)

	// Int fields: use default if zero
	if result.SMTPPort == 0 {
		result.SMTPPort = defaults.SMTPPort
	}
	if result.WindowDays == 0 {
		result.WindowDays = defaults.WindowDays
	}

	return result
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		SMTPHost:      defaultSMTPHost,
		SMTPPort:      defaultSMTPPort,
		LogLevel:      defaultLogLevel,
		LogFormat:     defaultLogFormat,
		WindowDays:    defaultWindowDays,
		ArchiveRegion: defaultArchiveRegion,
	}
}

// ApplyEnv fills secrets from the environment. DATABASE_URL only applies when the config
// does not set database_url.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvGeminiAPIKey); v != "" {
		c.GeminiAPIKey = v
	}
	if v := firstNonEmpty(getenv(EnvGmailAppPassword), getenv(EnvSMTPPassword)); v != "" {
		c.SMTPPassword = v
	}
	if v := getenv(EnvServiceAccountJSON); v != "" {
		c.ServiceAccountJSON = v
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = getenv(EnvDatabaseURL)
	}
	if c.SMTPUsername == "" {
		c.SMTPUsername = c.From
	}
}

// HistoryPageSize is the default number of runs listed by the history command.
func HistoryPageSize() int {
	return defaultHistoryPageSize
}

func mergeString(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
