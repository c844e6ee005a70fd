package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabbycat/internal/pipeline"
)

func newHomepageCommand(ctx *commandContext) *cobra.Command {
	var addToCatalog bool

	cmd := &cobra.Command{
		Use:   "homepage <dataset-path>",
		Short: "Extract the superdataset's catalog entries and update the home page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cleanup, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := p.Homepage(cmd.Context(), pipeline.HomepageRequest{
				DatasetPath:  args[0],
				AddToCatalog: addToCatalog,
			})
			if err != nil {
				return err
			}

			if err := writeJSON(cmd, result.Core); err != nil {
				return err
			}
			if err := writeJSON(cmd, result.Entry); err != nil {
				return err
			}
			for _, file := range result.Files {
				if err := writeJSON(cmd, file); err != nil {
					return err
				}
			}

			out := cmd.ErrOrStderr()
			if addToCatalog {
				fmt.Fprintf(out, "Registered %d entries and set catalog home to %s@%s\n",
					2+len(result.Files), result.Entry.DatasetID, result.Entry.DatasetVersion)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&addToCatalog, "add-to-catalog", false, "Register the entries and set the catalog home page")
	return cmd
}
