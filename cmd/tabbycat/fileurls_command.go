package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabbycat/internal/filelist"
)

func newFileURLsCommand() *cobra.Command {
	var urlRoot string

	cmd := &cobra.Command{
		Use:         "fileurls <in.tsv> <out.tsv>",
		Short:       "Fill the url column of a file listing from per-file accessions",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := filelist.RewriteURLs(args[0], args[1], urlRoot); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&urlRoot, "url-root", "", "Download endpoint root (defaults to NCBI GEO)")
	return cmd
}
