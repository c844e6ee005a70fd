package linkage

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

// Row is one subdataset reference in the linkage sheet.
type Row struct {
	DatasetType string
	Identifier  string
	Version     string
	PathPosix   string
	URL         string
}

var header = []string{"dataset_type", "identifier", "version", "path_posix", "url"}

// Read loads all rows of the linkage sheet at path. A missing sheet yields
// an empty list.
func Read(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open linkage sheet: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []Row
	first := true
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read linkage sheet %s: %w", path, err)
		}
		if first {
			first = false
			continue
		}
		rows = append(rows, rowFromRecord(record))
	}
	return rows, nil
}

// Register ensures the sheet at path contains exactly one row for the given
// subdataset. An exact (identifier, version, path) match is a no-op; a row
// with the same identifier and path but a different version is replaced;
// otherwise the row is appended. The sheet is created with a header when it
// does not exist. Reports whether the sheet changed.
func Register(path string, row Row) (bool, error) {
	if strings.TrimSpace(row.Identifier) == "" {
		return false, errors.New("subdataset identifier required")
	}
	if strings.TrimSpace(row.PathPosix) == "" {
		return false, errors.New("subdataset path required")
	}

	rows, err := Read(path)
	if err != nil {
		return false, err
	}

	replaced := false
	for i, existing := range rows {
		if existing.Identifier != row.Identifier || existing.PathPosix != row.PathPosix {
			continue
		}
		if existing.Version == row.Version {
			// Already registered; idempotent re-run.
			return false, nil
		}
		rows[i] = row
		replaced = true
		break
	}
	if !replaced {
		rows = append(rows, row)
	}

	if err := write(path, rows); err != nil {
		return false, err
	}
	return true, nil
}

func write(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create linkage sheet directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write linkage sheet: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = '\t'
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write linkage header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.DatasetType, row.Identifier, row.Version, row.PathPosix, row.URL}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write linkage row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush linkage sheet: %w", err)
	}
	return nil
}

func rowFromRecord(record []string) Row {
	var row Row
	fields := []*string{&row.DatasetType, &row.Identifier, &row.Version, &row.PathPosix, &row.URL}
	for i, field := range fields {
		if i < len(record) {
			*field = strings.TrimSpace(record[i])
		}
	}
	return row
}
