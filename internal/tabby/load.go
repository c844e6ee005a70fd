package tabby

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	singleImportPrefix = "@tabby-single-"
	manyImportPrefix   = "@tabby-many-"
)

// ErrNotFound indicates that a sheet file referenced by an import row does
// not exist on disk.
var ErrNotFound = errors.New("tabby sheet not found")

// ErrMalformed indicates a structurally invalid sheet file.
var ErrMalformed = errors.New("malformed tabby sheet")

// ParseSheetName splits a tabby file name of the form <sheet>@<tag>.tsv into
// its sheet name and schema tag.
func ParseSheetName(name string) (sheet, tag string, ok bool) {
	base := strings.TrimSuffix(filepath.Base(name), ".tsv")
	if base == filepath.Base(name) {
		return "", "", false
	}
	sheet, tag, found := strings.Cut(base, "@")
	if !found || sheet == "" || tag == "" {
		return "", "", false
	}
	return sheet, tag, true
}

// Load reads the root dataset sheet at path and resolves every sheet import
// it declares. Import rows that are absent from the root sheet mean the
// corresponding sheet type is simply not part of the document; an import row
// whose target file is missing is an error.
func Load(path string) (*Document, error) {
	sheet, tag, ok := ParseSheetName(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not named <sheet>@<tag>.tsv", ErrMalformed, path)
	}
	if sheet != "dataset" {
		return nil, fmt.Errorf("%w: root sheet must be a dataset sheet, got %q", ErrMalformed, sheet)
	}

	dir := filepath.Dir(path)
	fields, err := loadSingle(path, dir, tag, nil)
	if err != nil {
		return nil, err
	}

	return &Document{
		Convention: tag,
		Dir:        dir,
		Path:       path,
		fields:     fields,
	}, nil
}

// loadSingle parses a single-format sheet (key, value[, value...] per row)
// and resolves imports relative to dir. visited guards against import cycles.
func loadSingle(path, dir, tag string, visited map[string]bool) (map[string]any, error) {
	rows, err := readSheet(path)
	if err != nil {
		return nil, err
	}
	if visited == nil {
		visited = map[string]bool{}
	}
	visited[path] = true

	fields := make(map[string]any, len(rows))
	for _, row := range rows {
		key := strings.TrimSpace(row[0])
		if key == "" {
			continue
		}
		values := nonEmpty(row[1:])
		if len(values) == 0 {
			continue
		}

		if len(values) == 1 {
			if resolved, isImport, err := resolveImport(values[0], dir, tag, visited); err != nil {
				return nil, fmt.Errorf("sheet %s, key %q: %w", filepath.Base(path), key, err)
			} else if isImport {
				fields[key] = resolved
				continue
			}
			fields[key] = values[0]
			continue
		}
		fields[key] = values
	}
	return fields, nil
}

// resolveImport loads the sheet referenced by an @tabby-single-/@tabby-many-
// value. The returned value is the single sheet's field map (same shapes as
// the root sheet, including lists and nested imports) or a []Record.
func resolveImport(value, dir, tag string, visited map[string]bool) (any, bool, error) {
	var sheet string
	var single bool
	switch {
	case strings.HasPrefix(value, singleImportPrefix):
		sheet = strings.TrimPrefix(value, singleImportPrefix)
		single = true
	case strings.HasPrefix(value, manyImportPrefix):
		sheet = strings.TrimPrefix(value, manyImportPrefix)
	default:
		return nil, false, nil
	}
	if sheet == "" {
		return nil, false, fmt.Errorf("%w: empty sheet name in import %q", ErrMalformed, value)
	}

	target := filepath.Join(dir, sheet+"@"+tag+".tsv")
	if visited[target] {
		return nil, false, fmt.Errorf("%w: import cycle through %s", ErrMalformed, target)
	}
	if _, err := os.Stat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("%w: %s (imported as %q)", ErrNotFound, target, value)
		}
		return nil, false, fmt.Errorf("stat sheet %s: %w", target, err)
	}

	if single {
		fields, err := loadSingle(target, dir, tag, visited)
		if err != nil {
			return nil, false, err
		}
		return fields, true, nil
	}

	records, err := loadMany(target)
	if err != nil {
		return nil, false, err
	}
	return records, true, nil
}

// loadMany parses a many-format sheet: a header row naming the columns
// followed by one record per row.
func loadMany(path string) ([]Record, error) {
	rows, err := readSheet(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrMalformed, path)
	}

	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(Record, len(header))
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			column := strings.TrimSpace(header[i])
			cell = strings.TrimSpace(cell)
			if column == "" || cell == "" {
				continue
			}
			record[column] = cell
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}
	return records, nil
}

// readSheet reads a TSV file, skipping comment lines and fully empty rows.
func readSheet(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
		}
		if len(row) == 0 || strings.HasPrefix(strings.TrimSpace(row[0]), "#") {
			continue
		}
		if isEmptyRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func nonEmpty(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell != "" {
			out = append(out, cell)
		}
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
