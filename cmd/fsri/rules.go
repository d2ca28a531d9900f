package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/boadinoel/fsri/internal/rules"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate action-rule documents",
	}
	cmd.AddCommand(rulesValidateCmd())
	return cmd
}

func rulesValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a rule document without loading it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := rules.ParseDocument(raw)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Printf("ok: %d rules across %d markets\n", doc.Len(), len(doc.Keys()))
			return nil
		},
	}
}
