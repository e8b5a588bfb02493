/*
DESCRIPTION
  archive_test.go exercises IsArchivablePath's path rules, CheckArchivable's
  aggregation over a search path and source list, and Pack's zip output by
  reading it back with archive/zip.
*/
package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

var archivablePathTests = []struct {
	path string
	want bool
}{
	{"luts/film.cube", true},
	{"./luts/film.cube", true},
	{`.\luts\film.cube`, true},
	{"film.cube", true},
	{"$SHOT/luts/film.cube", false},
	{"", false},
	{"/abs/path/film.cube", false},
	{`\abs\path\film.cube`, false},
	{`C:\luts\film.cube`, false},
	{"../outside/film.cube", false},
	{"luts/../../escape.cube", false},
	{"luts/$VAR/film.cube", true},
}

func TestIsArchivablePath(t *testing.T) {
	for _, test := range archivablePathTests {
		if got := IsArchivablePath(test.path); got != test.want {
			t.Errorf("IsArchivablePath(%q) = %v, want %v", test.path, got, test.want)
		}
	}
}

func TestCheckArchivable(t *testing.T) {
	if err := CheckArchivable([]string{"luts"}, []string{"film.cube"}); err != nil {
		t.Errorf("expected no error for archivable paths, got %v", err)
	}
	if err := CheckArchivable([]string{"/abs/luts"}, nil); err == nil {
		t.Error("expected an error for an absolute search path entry")
	}
	if err := CheckArchivable(nil, []string{"../escape.cube"}); err == nil {
		t.Error("expected an error for a source path with a .. component")
	}
}

func TestPackRoundTrip(t *testing.T) {
	dir := t.TempDir()
	lutPath := filepath.Join(dir, "film.cube")
	const lutBody = "LUT_1D_SIZE 2\n0.0 0.0 0.0\n1.0 1.0 1.0\n"
	if err := os.WriteFile(lutPath, []byte(lutBody), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var buf bytes.Buffer
	const configBody = "ocio_profile_version: 2\n"
	err := Pack(&buf, []byte(configBody), map[string]string{
		"luts/film.cube": lutPath,
	})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %q: %v", f.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %q: %v", f.Name, err)
		}
		files[f.Name] = string(body)
	}

	if files[ConfigEntryName] != configBody {
		t.Errorf("config entry: got %q, want %q", files[ConfigEntryName], configBody)
	}
	if files["luts/film.cube"] != lutBody {
		t.Errorf("lut entry: got %q, want %q", files["luts/film.cube"], lutBody)
	}
}

func TestPackRejectsUnarchivableEntry(t *testing.T) {
	var buf bytes.Buffer
	err := Pack(&buf, []byte("x"), map[string]string{
		"../escape.cube": "/tmp/whatever",
	})
	if err == nil {
		t.Error("expected an error for an unarchivable entry path")
	}
}

func TestPackMissingSourceFile(t *testing.T) {
	var buf bytes.Buffer
	err := Pack(&buf, []byte("x"), map[string]string{
		"luts/missing.cube": filepath.Join(t.TempDir(), "does-not-exist.cube"),
	})
	if err == nil {
		t.Error("expected an error when a source file does not exist")
	}
}
