package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const version = "v0.1.0"

var configPath string

// Execute runs the fsri CLI.
func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:     "fsri",
		Short:   "Food-System Risk Index engine",
		Long:    "fsri fuses production, movement, policy and biosecurity risk pillars\ninto a composite index with forecasts and persona action rules.",
		Version: version,
	}

	// Accept snake_case flag spellings from older scripts.
	root.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")

	root.AddCommand(serveCmd())
	root.AddCommand(scoreCmd())
	root.AddCommand(rulesCmd())

	return root.ExecuteContext(ctx)
}
