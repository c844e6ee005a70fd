package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabbycat/internal/catalog"
	"tabbycat/internal/pipeline"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var datasetType string
	var addToCatalog bool
	var hideAccessRequest bool
	var ignoreSuper bool
	var addType string

	cmd := &cobra.Command{
		Use:   "ingest <dataset-path> <subdir>",
		Short: "Ingest a new dataset's tabby metadata into the superdataset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cleanup, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := p.Ingest(cmd.Context(), pipeline.IngestRequest{
				DatasetPath:       args[0],
				Subdir:            args[1],
				DatasetType:       datasetType,
				AddToCatalog:      addToCatalog,
				HideAccessRequest: hideAccessRequest,
				IgnoreSuper:       ignoreSuper,
				AddType:           addType,
			})
			if err != nil {
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
			fmt.Fprintf(out, "Dataset %s@%s mapped (%d file entries)\n",
				result.Entry.DatasetID, result.Entry.DatasetVersion, len(result.Files))
			if !ignoreSuper {
				fmt.Fprintf(out, "Subdataset sheet changed: %s\n", yesNo(result.LinkageChanged))
			}
			if addToCatalog {
				fmt.Fprintln(out, "Entries registered with the catalog")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetType, "dataset-type", catalog.DatasetTypeOther, "Dataset type: datalad or other")
	cmd.Flags().BoolVar(&addToCatalog, "add-to-catalog", false, "Register the produced entries with the catalog")
	cmd.Flags().BoolVar(&hideAccessRequest, "hide-access-request", false, "Use the catalog config without the access request button")
	cmd.Flags().BoolVar(&ignoreSuper, "ignore-super", false, "Skip subdataset linkage and homepage updates")
	cmd.Flags().StringVar(&addType, "add-type", pipeline.AddTypeBoth, "Which entries to register: dataset, file, or both")
	return cmd
}
