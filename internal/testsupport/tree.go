package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Convention is the schema tag fixture trees are written with.
const Convention = "tby-abcdjv0"

// WriteSheet writes a tabby sheet file <sheet>@<tag>.tsv under dir and
// returns its path. Each row is joined with tabs.
func WriteSheet(t testing.TB, dir, sheet, tag string, rows [][]string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, sheet+"@"+tag+".tsv")

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write sheet %s: %v", path, err)
	}
	return path
}

// WriteDatasetSheets writes a minimal valid tabby sheet set for a dataset
// named name under dir and returns the root sheet path.
func WriteDatasetSheets(t testing.TB, dir, name string) string {
	t.Helper()

	WriteSheet(t, dir, "authors", Convention, [][]string{
		{"name", "email", "orcid"},
		{"Jane Doe", "jane@example.org", "0000-0001-2345-6789"},
	})
	WriteSheet(t, dir, "funding", Convention, [][]string{
		{"funder", "identifier"},
		{"DFG", "SFB-1451"},
	})
	WriteSheet(t, dir, "publications", Convention, [][]string{
		{"citation", "doi"},
		{"Doe et al. 2024", "10.1000/182"},
	})
	WriteSheet(t, dir, "data-controller", Convention, [][]string{
		{"name", "email"},
		{"Max Mustermann", "max@example.org"},
	})
	WriteSheet(t, dir, "files", Convention, [][]string{
		{"path[POSIX]", "size[bytes]", "checksum[md5]", "url"},
		{"sub-01/anat.nii.gz", "2048", "d41d8cd98f00b204e9800998ecf8427e", ""},
		{"participants.tsv", "128", "0cc175b9c0f1b6a831c399e269772661", ""},
	})
	WriteSheet(t, dir, "used-for", Convention, [][]string{
		{"title", "url", "description"},
		{"Project A", "https://example.org/project-a", "Baseline cohort"},
	})

	return WriteSheet(t, dir, "dataset", Convention, [][]string{
		{"name", name},
		{"title", "The " + name + " dataset"},
		{"description", "Test fixture dataset"},
		{"version", "1.0.0"},
		{"license", "https://creativecommons.org/licenses/by/4.0/"},
		{"homepage", "https://example.org/" + name},
		{"keywords", "neuro", "test"},
		{"sample[organism]", "NCBITaxon:10090"},
		{"authors", "@tabby-many-authors"},
		{"funding", "@tabby-many-funding"},
		{"publications", "@tabby-many-publications"},
		{"data-controller", "@tabby-many-data-controller"},
		{"files", "@tabby-many-files"},
		{"used-for", "@tabby-many-used-for"},
	})
}

// WriteSuperdataset lays out a superdataset root with self-describing tabby
// sheets and a .datalad/config carrying the given dataset id. Returns the
// dataset root.
func WriteSuperdataset(t testing.TB, id string) string {
	t.Helper()

	root := t.TempDir()
	selfDir := filepath.Join(root, ".datalad", "tabby", "self")
	WriteDatasetSheets(t, selfDir, "homepage")

	configPath := filepath.Join(root, ".datalad", "config")
	content := "[datalad \"dataset\"]\n\tid = " + id + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write datalad config: %v", err)
	}
	return root
}
