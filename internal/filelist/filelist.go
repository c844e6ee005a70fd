package filelist

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Convention is the schema tag of the collection-of-files convention the
// listing conforms to.
const Convention = "tby-ds1"

// FileInfo is one row of a tby-ds1 file listing.
type FileInfo struct {
	Path     string
	Size     int64
	Checksum string
	URL      string
}

// Header returns the tby-ds1 column names for the given hash algorithm.
func Header(algo string) []string {
	return []string{"path[POSIX]", "size[bytes]", "checksum[" + algo + "]", "url"}
}

// Generate walks root and returns one row per regular file, sorted by path.
// Paths are reported POSIX-style relative to root. Files that are symlinks
// into a git-annex object tree have size and checksum decoded from the
// annex key instead of reading content.
func Generate(root, algo string, recursive bool) ([]FileInfo, error) {
	newHash, err := hasherFor(algo)
	if err != nil {
		return nil, err
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	var rows []FileInfo
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := fileInfo(path, rel, algo, newHash, d)
		if err != nil {
			return err
		}
		rows = append(rows, info)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })
	return rows, nil
}

func fileInfo(path, rel, algo string, newHash func() hash.Hash, d fs.DirEntry) (FileInfo, error) {
	posixPath := filepath.ToSlash(rel)

	if d.Type()&fs.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err == nil {
			if size, sum, ok := decodeAnnexKey(target, algo); ok {
				return FileInfo{Path: posixPath, Size: size, Checksum: sum}, nil
			}
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	h := newHash()
	size, err := io.Copy(h, file)
	if err != nil {
		return FileInfo{}, fmt.Errorf("hash %s: %w", path, err)
	}
	return FileInfo{
		Path:     posixPath,
		Size:     size,
		Checksum: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// decodeAnnexKey extracts size and checksum from a git-annex key file name
// like MD5E-s12345--d41d8cd98f00b204e9800998ecf8427e.nii.gz.
func decodeAnnexKey(target, algo string) (int64, string, bool) {
	stem := filepath.Base(target)
	prefix := strings.ToUpper(algo) + "E-s"
	if !strings.HasPrefix(stem, prefix) {
		prefix = strings.ToUpper(algo) + "-s"
		if !strings.HasPrefix(stem, prefix) {
			return 0, "", false
		}
	}
	rest := strings.TrimPrefix(stem, prefix)
	sizePart, hashPart, found := strings.Cut(rest, "--")
	if !found {
		return 0, "", false
	}
	size, err := strconv.ParseInt(sizePart, 10, 64)
	if err != nil {
		return 0, "", false
	}
	// Strip any extension the E-variant key carries.
	if idx := strings.IndexByte(hashPart, '.'); idx >= 0 {
		hashPart = hashPart[:idx]
	}
	if hashPart == "" {
		return 0, "", false
	}
	return size, hashPart, true
}

func hasherFor(algo string) (func() hash.Hash, error) {
	switch algo {
	case "md5":
		return md5.New, nil
	case "sha256":
		return sha256.New, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q (md5 or sha256)", algo)
	}
}

// WriteTSV writes the listing with its tby-ds1 header.
func WriteTSV(w io.Writer, algo string, rows []FileInfo) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	if err := writer.Write(Header(algo)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.Path, strconv.FormatInt(row.Size, 10), row.Checksum, row.URL}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", row.Path, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// OutputPath derives a tby-ds1-compliant output file path from the user's
// argument. A directory yields files@tby-ds1.tsv inside it; anything else is
// treated as a prefix for <prefix>_files@tby-ds1.tsv.
func OutputPath(arg string) string {
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return filepath.Join(arg, "files@"+Convention+".tsv")
	}
	prefix := strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
	return filepath.Join(filepath.Dir(arg), prefix+"_files@"+Convention+".tsv")
}
