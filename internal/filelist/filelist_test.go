package filelist_test

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tabbycat/internal/filelist"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestGenerateRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), "beta")
	writeFile(t, filepath.Join(root, "sub", "a.txt"), "alpha")

	rows, err := filelist.Generate(root, "md5", true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows %d, want 2", len(rows))
	}
	// Sorted by POSIX path.
	if rows[0].Path != "b.txt" || rows[1].Path != "sub/a.txt" {
		t.Fatalf("paths %q, %q", rows[0].Path, rows[1].Path)
	}
	if rows[0].Size != int64(len("beta")) {
		t.Fatalf("size %d", rows[0].Size)
	}

	sum := md5.Sum([]byte("beta"))
	if rows[0].Checksum != hex.EncodeToString(sum[:]) {
		t.Fatalf("checksum %q", rows[0].Checksum)
	}
}

func TestGenerateNonRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.txt"), "top")
	writeFile(t, filepath.Join(root, "sub", "nested.txt"), "nested")

	rows, err := filelist.Generate(root, "md5", false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(rows) != 1 || rows[0].Path != "top.txt" {
		t.Fatalf("rows %v, want only the top-level file", rows)
	}
}

func TestGenerateSha256(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data.bin"), "payload")

	rows, err := filelist.Generate(root, "sha256", true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(rows[0].Checksum) != 64 {
		t.Fatalf("checksum %q is not sha256", rows[0].Checksum)
	}
}

func TestGenerateRejectsUnknownHash(t *testing.T) {
	if _, err := filelist.Generate(t.TempDir(), "crc32", true); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}

func TestGenerateDecodesAnnexKey(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, ".git", "annex", "objects",
		"MD5E-s2048--d41d8cd98f00b204e9800998ecf8427e.nii.gz")
	writeFile(t, target, "")
	link := filepath.Join(root, "anat.nii.gz")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	rows, err := filelist.Generate(root, "md5", false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var annexed *filelist.FileInfo
	for i := range rows {
		if rows[i].Path == "anat.nii.gz" {
			annexed = &rows[i]
		}
	}
	if annexed == nil {
		t.Fatalf("rows %v missing symlinked file", rows)
	}
	if annexed.Size != 2048 {
		t.Fatalf("size %d, want the annex key size", annexed.Size)
	}
	if annexed.Checksum != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Fatalf("checksum %q, want the annex key hash", annexed.Checksum)
	}
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []filelist.FileInfo{
		{Path: "a.txt", Size: 5, Checksum: "abc"},
	}
	if err := filelist.WriteTSV(&buf, "md5", rows); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}

	// Only the trailing newline may be stripped, the url column is empty
	// and rows legitimately end in a tab.
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "path[POSIX]\tsize[bytes]\tchecksum[md5]\turl" {
		t.Fatalf("header %q", lines[0])
	}
	if lines[1] != "a.txt\t5\tabc\t" {
		t.Fatalf("row %q", lines[1])
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	if got := filelist.OutputPath(dir); got != filepath.Join(dir, "files@tby-ds1.tsv") {
		t.Fatalf("directory output path %q", got)
	}

	arg := filepath.Join(dir, "GSE123.list")
	if got := filelist.OutputPath(arg); got != filepath.Join(dir, "GSE123_files@tby-ds1.tsv") {
		t.Fatalf("prefix output path %q", got)
	}
}
