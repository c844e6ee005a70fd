package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tabbycat/internal/journal"
)

func newJournalCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show the catalog registration journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := journal.Open(cfg.Paths.JournalDir)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Journal is empty")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					fmt.Sprintf("%d", entry.ID),
					entry.CreatedAt.Local().Format(time.DateTime),
					entry.Action,
					entry.DatasetID,
					shortVersion(entry.DatasetVersion),
					entry.Detail,
					entry.Status,
				})
			}
			printTable(out, []string{"ID", "TIME", "ACTION", "DATASET", "VERSION", "DETAIL", "STATUS"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	return cmd
}

// shortVersion abbreviates commit-hash versions; symbolic versions pass
// through untouched.
func shortVersion(version string) string {
	if len(version) == 40 {
		return version[:8]
	}
	return version
}
