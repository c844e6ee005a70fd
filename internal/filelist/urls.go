package filelist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
)

// DefaultURLRoot is the download endpoint used when none is supplied.
const DefaultURLRoot = "https://www.ncbi.nlm.nih.gov/geo/download/"

// RewriteURLs reads a file listing, fills the url column from each file's
// accession (the first underscore-separated token of its name), and writes
// the result to outPath. Rows that already carry a URL keep it.
func RewriteURLs(inPath, outPath, urlRoot string) error {
	if strings.TrimSpace(urlRoot) == "" {
		urlRoot = DefaultURLRoot
	}
	if _, err := url.Parse(urlRoot); err != nil {
		return fmt.Errorf("url root %q: %w", urlRoot, err)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open listing: %w", err)
	}
	defer in.Close()

	reader := csv.NewReader(in)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read listing header: %w", err)
	}
	pathCol, urlCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "path[POSIX]", "path":
			pathCol = i
		case "url":
			urlCol = i
		}
	}
	if pathCol < 0 {
		return errors.New("listing has no path[POSIX] column")
	}
	if urlCol < 0 {
		header = append(header, "url")
		urlCol = len(header) - 1
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	writer.Comma = '\t'
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read listing row: %w", err)
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		if record[urlCol] == "" {
			record[urlCol] = accessionURL(urlRoot, record[pathCol])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func accessionURL(urlRoot, filePath string) string {
	name := path.Base(filePath)
	fileID, _, _ := strings.Cut(name, "_")
	return fmt.Sprintf("%s?acc=%s&format=file&file=%s", urlRoot, fileID, html.EscapeString(name))
}
