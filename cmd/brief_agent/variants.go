package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/briefing-monitor/internal/observability"
	"github.com/jonathan/briefing-monitor/internal/variants"
)

var variantsCommand = &cobra.Command{
	Use:   "variants",
	Short: "List the built-in variants",
	Long: `Lists the embedded variant definitions. With --file, validates a custom variant YAML file
and prints it instead. Rule warnings are printed after the table.`,
	RunE: runVariants,
}

var variantsFile string

func init() {
	variantsCommand.Flags().StringVarP(&variantsFile, "file", "f", "", "Validate and show a custom variant YAML file")

	rootCmd.AddCommand(variantsCommand)
}

func runVariants(_ *cobra.Command, _ []string) error {
	var list []*variants.Variant
	if variantsFile != "" {
		v, err := variants.LoadFile(variantsFile)
		if err != nil {
			return err
		}
		list = []*variants.Variant{v}
	} else {
		all, err := variants.All()
		if err != nil {
			return fmt.Errorf("failed to load built-in variants: %w", err)
		}
		list = all
	}

	observability.NewPrinter(os.Stdout).PrintVariants(list)
	for _, v := range list {
		for _, warning := range v.Lint() {
			_, _ = fmt.Fprintf(os.Stdout, "warning: %s: %s\n", v.Name, warning)
		}
	}
	return nil
}
