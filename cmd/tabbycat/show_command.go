package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tabbycat/internal/config"
	"tabbycat/internal/tabby"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var sheet string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <dataset-path>",
		Short: "Display a dataset's tabby metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			sheetPath, err := resolveRootSheet(cfg, args[0])
			if err != nil {
				return err
			}
			doc, err := tabby.Load(sheetPath)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, documentFields(doc))
			}

			out := cmd.OutOrStdout()
			if sheet != "" {
				records := doc.Records(sheet)
				if records == nil {
					return fmt.Errorf("document has no sheet %q (available: %s)", sheet, strings.Join(sheetNames(doc), ", "))
				}
				fmt.Fprintf(out, "%s (%d rows)\n", sheetTitle(sheet), len(records))
				headers, rows := recordsTable(records)
				printTable(out, headers, rows)
				return nil
			}

			fmt.Fprintf(out, "Dataset sheet %s (%s)\n", filepath.Base(doc.Path), doc.Convention)
			rows := make([][]string, 0, len(doc.Keys()))
			for _, key := range doc.Keys() {
				value, _ := doc.Value(key)
				rows = append(rows, []string{key, summarizeValue(value)})
			}
			printTable(out, []string{"KEY", "VALUE"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Show one imported sheet's rows instead of the root record")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the loaded document as JSON")
	return cmd
}

// resolveRootSheet accepts either a root sheet file or a directory: a
// directory is searched for the conventional root sheet, then for the
// self-describing sheet location.
func resolveRootSheet(cfg *config.Config, arg string) (string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return "", fmt.Errorf("inspect path %q: %w", arg, err)
	}
	if !info.IsDir() {
		return arg, nil
	}

	direct := filepath.Join(arg, cfg.RootSheetName())
	if _, err := os.Stat(direct); err == nil {
		return direct, nil
	}
	self := cfg.SelfSheetPath(arg)
	if _, err := os.Stat(self); err == nil {
		return self, nil
	}
	return "", fmt.Errorf("no %s found under %s", cfg.RootSheetName(), arg)
}

func documentFields(doc *tabby.Document) map[string]any {
	fields := make(map[string]any, len(doc.Keys()))
	for _, key := range doc.Keys() {
		value, _ := doc.Value(key)
		fields[key] = value
	}
	return fields
}

func sheetNames(doc *tabby.Document) []string {
	var names []string
	for _, key := range doc.Keys() {
		if doc.Records(key) != nil {
			names = append(names, key)
		}
	}
	return names
}

func sheetTitle(name string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(name, "-", " "))
}

func recordsTable(records []tabby.Record) ([]string, [][]string) {
	seen := map[string]bool{}
	var headers []string
	for _, rec := range records {
		for col := range rec {
			if !seen[col] {
				seen[col] = true
				headers = append(headers, col)
			}
		}
	}
	sort.Strings(headers)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(headers))
		for i, col := range headers {
			row[i] = rec[col]
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func summarizeValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case map[string]any:
		return fmt.Sprintf("<1 record, %d columns>", len(v))
	case []tabby.Record:
		return fmt.Sprintf("<%d rows>", len(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}
