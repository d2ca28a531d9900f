package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boadinoel/fsri/internal/application"
)

func scoreCmd() *cobra.Command {
	var (
		crop       string
		region     string
		state      string
		persona    string
		countyFIPS string
		exportFlag bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Run a one-shot scoring pass and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := application.LoadConfig(configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pipeline, cleanup, err := buildPipeline(ctx, cfg, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			req := application.Request{
				Crop:       strings.ToLower(crop),
				Region:     region,
				State:      strings.ToUpper(state),
				ExportFlag: exportFlag,
				CountyFIPS: countyFIPS,
				Persona:    persona,
			}

			result, err := pipeline.Signals(ctx, req)
			if err != nil {
				return fmt.Errorf("scoring %s/%s: %w", req.Crop, req.Region, err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&crop, "crop", "corn", "Crop: corn, srw_wheat, poultry")
	cmd.Flags().StringVar(&region, "region", "US", "Region code")
	cmd.Flags().StringVar(&state, "state", "IL", "State code for weather data")
	cmd.Flags().StringVar(&persona, "persona", "", "Persona filter for actions")
	cmd.Flags().StringVar(&countyFIPS, "county-fips", "", "County FIPS for biosecurity")
	cmd.Flags().BoolVar(&exportFlag, "export-flag", false, "Export restrictions in effect")
	return cmd
}
