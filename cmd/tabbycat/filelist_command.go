package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tabbycat/internal/filelist"
)

func newFilelistCommand() *cobra.Command {
	var hashAlgo string
	var nonRecursive bool
	var output string

	cmd := &cobra.Command{
		Use:         "filelist <dir>",
		Short:       "Generate a tby-ds1 file listing for a directory tree",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := filelist.Generate(args[0], hashAlgo, !nonRecursive)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(output)
			if target == "" {
				target = filelist.OutputPath(args[0])
			}
			file, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("create listing %s: %w", target, err)
			}
			defer file.Close()

			if err := filelist.WriteTSV(file, hashAlgo, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s\n", len(rows), target)
			return nil
		},
	}

	cmd.Flags().StringVar(&hashAlgo, "hash", "md5", "Checksum algorithm: md5 or sha256")
	cmd.Flags().BoolVar(&nonRecursive, "non-recursive", false, "List only the top-level directory")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (defaults next to the input)")
	return cmd
}
