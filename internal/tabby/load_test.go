package tabby_test

import (
	"errors"
	"testing"

	"tabbycat/internal/tabby"
	"tabbycat/internal/testsupport"
)

func TestLoadResolvesImports(t *testing.T) {
	dir := t.TempDir()
	root := testsupport.WriteDatasetSheets(t, dir, "demo")

	doc, err := tabby.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if doc.Convention != testsupport.Convention {
		t.Fatalf("convention %q, want %q", doc.Convention, testsupport.Convention)
	}
	if got := doc.String("name"); got != "demo" {
		t.Fatalf("name %q, want demo", got)
	}
	if got := doc.String("version"); got != "1.0.0" {
		t.Fatalf("version %q", got)
	}

	keywords := doc.Strings("keywords")
	if len(keywords) != 2 || keywords[0] != "neuro" || keywords[1] != "test" {
		t.Fatalf("keywords %v", keywords)
	}

	authors := doc.Records("authors")
	if len(authors) != 1 {
		t.Fatalf("authors rows = %d, want 1", len(authors))
	}
	if authors[0]["orcid"] != "0000-0001-2345-6789" {
		t.Fatalf("author orcid %q", authors[0]["orcid"])
	}

	files := doc.Records("files")
	if len(files) != 2 {
		t.Fatalf("files rows = %d, want 2", len(files))
	}
	if files[0]["path[POSIX]"] != "sub-01/anat.nii.gz" {
		t.Fatalf("file path %q", files[0]["path[POSIX]"])
	}
}

func TestLoadWithoutFundingRow(t *testing.T) {
	dir := t.TempDir()
	root := testsupport.WriteSheet(t, dir, "dataset", testsupport.Convention, [][]string{
		{"name", "lean"},
		{"title", "No funding"},
	})

	doc, err := tabby.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Has("funding") {
		t.Fatal("funding should be absent, not empty")
	}
	if doc.Records("funding") != nil {
		t.Fatal("funding records should be nil")
	}
}

func TestLoadMissingImportedFile(t *testing.T) {
	dir := t.TempDir()
	root := testsupport.WriteSheet(t, dir, "dataset", testsupport.Convention, [][]string{
		{"name", "broken"},
		{"authors", "@tabby-many-authors"},
	})

	_, err := tabby.Load(root)
	if !errors.Is(err, tabby.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadImportCycle(t *testing.T) {
	dir := t.TempDir()
	root := testsupport.WriteSheet(t, dir, "dataset", testsupport.Convention, [][]string{
		{"name", "cyclic"},
		{"self", "@tabby-single-dataset"},
	})

	_, err := tabby.Load(root)
	if !errors.Is(err, tabby.ErrMalformed) {
		t.Fatalf("expected ErrMalformed for import cycle, got %v", err)
	}
}

func TestLoadSingleImport(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteSheet(t, dir, "crc", testsupport.Convention, [][]string{
		{"name", "CRC 1451"},
		{"identifier", "SFB-1451"},
	})
	root := testsupport.WriteSheet(t, dir, "dataset", testsupport.Convention, [][]string{
		{"name", "single"},
		{"crc", "@tabby-single-crc"},
	})

	doc, err := tabby.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	records := doc.Records("crc")
	if len(records) != 1 {
		t.Fatalf("crc records = %d, want 1", len(records))
	}
	if records[0]["identifier"] != "SFB-1451" {
		t.Fatalf("crc identifier %q", records[0]["identifier"])
	}
}

func TestLoadSingleImportKeepsAllValues(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteSheet(t, dir, "members", testsupport.Convention, [][]string{
		{"name"},
		{"Jane Doe"},
		{"John Doe"},
	})
	testsupport.WriteSheet(t, dir, "crc", testsupport.Convention, [][]string{
		{"name", "CRC 1451"},
		{"sites", "Cologne", "Bonn", "Juelich"},
		{"members", "@tabby-many-members"},
	})
	root := testsupport.WriteSheet(t, dir, "dataset", testsupport.Convention, [][]string{
		{"name", "single"},
		{"crc", "@tabby-single-crc"},
	})

	doc, err := tabby.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	value, ok := doc.Value("crc")
	if !ok {
		t.Fatal("crc value missing")
	}
	fields, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("crc value %T, want the imported sheet's field map", value)
	}
	sites, ok := fields["sites"].([]string)
	if !ok || len(sites) != 3 || sites[2] != "Juelich" {
		t.Fatalf("sites %v, every value must survive the import", fields["sites"])
	}
	members, ok := fields["members"].([]tabby.Record)
	if !ok || len(members) != 2 {
		t.Fatalf("members %v, nested import must be resolved", fields["members"])
	}

	records := doc.Records("crc")
	if len(records) != 1 {
		t.Fatalf("crc records = %d, want 1", len(records))
	}
	if records[0]["sites"] != "Cologne, Bonn, Juelich" {
		t.Fatalf("sites cell %q, multi-values join in the row projection", records[0]["sites"])
	}
	if _, present := records[0]["members"]; present {
		t.Fatal("nested import does not fit a row cell")
	}
}

func TestLoadSkipsCommentsAndEmptyRows(t *testing.T) {
	dir := t.TempDir()
	root := testsupport.WriteSheet(t, dir, "dataset", testsupport.Convention, [][]string{
		{"# a comment line"},
		{"name", "commented"},
		{"", ""},
		{"keywords", "one", "", "two"},
	})

	doc, err := tabby.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Keys()) != 2 {
		t.Fatalf("keys %v, want name and keywords only", doc.Keys())
	}
	keywords := doc.Strings("keywords")
	if len(keywords) != 2 || keywords[0] != "one" || keywords[1] != "two" {
		t.Fatalf("keywords %v, empty cells should be dropped", keywords)
	}
}

func TestLoadRejectsNonDatasetRoot(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteSheet(t, dir, "authors", testsupport.Convention, [][]string{
		{"name"},
		{"Jane Doe"},
	})

	if _, err := tabby.Load(path); !errors.Is(err, tabby.ErrMalformed) {
		t.Fatalf("expected ErrMalformed for non-dataset root, got %v", err)
	}
}

func TestParseSheetName(t *testing.T) {
	cases := []struct {
		input string
		sheet string
		tag   string
		ok    bool
	}{
		{"dataset@tby-abcdjv0.tsv", "dataset", "tby-abcdjv0", true},
		{"/some/dir/files@tby-ds1.tsv", "files", "tby-ds1", true},
		{"dataset.tsv", "", "", false},
		{"dataset@tag.csv", "", "", false},
		{"@tag.tsv", "", "", false},
	}
	for _, tc := range cases {
		sheet, tag, ok := tabby.ParseSheetName(tc.input)
		if sheet != tc.sheet || tag != tc.tag || ok != tc.ok {
			t.Fatalf("ParseSheetName(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.input, sheet, tag, ok, tc.sheet, tc.tag, tc.ok)
		}
	}
}
