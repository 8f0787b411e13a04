// Package main provides the entry point for the briefing monitor CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "brief_agent",
	Short: "Content aggregation and briefing pipeline",
	Long: `brief_agent collects records from feeds or a metrics sheet, keeps the relevant recent ones,
asks a language model for a structured summary and delivers the rendered brief by email.

Each invocation performs one run; scheduling is left to cron or CI.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
