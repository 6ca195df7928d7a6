package importer

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/touchstone-normalize/pkg/dict"
)

func TestDownloadFile(t *testing.T) {
	content := "hello world"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "test.txt")
	if err := downloadFile(context.Background(), ts.URL, dest); err != nil {
		t.Fatalf("downloadFile: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != content {
		t.Errorf("content = %q, want %q", string(data), content)
	}
}

func TestDownloadFile_Retry(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "retry.txt")
	if err := downloadFile(context.Background(), ts.URL, dest); err != nil {
		t.Fatalf("downloadFile with retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDownloadFile_AllFail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "fail.txt")
	err := downloadFile(context.Background(), ts.URL, dest)
	if err == nil {
		t.Error("expected error after all retries exhausted")
	}
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	m := &dict.Manifest{
		ID:           "test-dict",
		Version:      "2026-02",
		Jurisdiction: "fr",
		EntityType:   "surname",
		Source:       "test",
		License:      "CC0",
		DataFile:     "data.gob",
	}

	if err := writeManifest(dir, m); err != nil {
		t.Fatalf("writeManifest: %v", err)
	}

	// Verify the file was written and can be parsed back.
	loaded, err := dict.LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if loaded.ID != "test-dict" {
		t.Errorf("ID = %q, want test-dict", loaded.ID)
	}
	if loaded.DataFile != "data.gob" {
		t.Errorf("DataFile = %q, want data.gob", loaded.DataFile)
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestUnzipFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "archive.zip")
	writeZip(t, src, map[string]string{
		"docs/readme.txt":     "read me",
		"nested/dir/data.csv": "name\nSMITH\n",
	})

	out := filepath.Join(dir, "out")
	if err := ensureDir(out); err != nil {
		t.Fatal(err)
	}
	paths, err := unzipFile(src, out)
	if err != nil {
		t.Fatalf("unzipFile: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("extracted %d files, want 2", len(paths))
	}
	for _, p := range paths {
		if filepath.Dir(p) != out {
			t.Errorf("%s extracted outside %s", p, out)
		}
	}

	csvPath := findCSV(paths)
	if csvPath != filepath.Join(out, "data.csv") {
		t.Fatalf("findCSV = %q", csvPath)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "name\nSMITH\n" {
		t.Errorf("data.csv = %q", data)
	}
}

func TestUnzipFile_NotZip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "plain.zip")
	if err := os.WriteFile(src, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := unzipFile(src, t.TempDir()); err == nil {
		t.Error("expected error for a non-zip file")
	}
}

func TestFindCSV(t *testing.T) {
	tests := []struct {
		paths []string
		want  string
	}{
		{nil, ""},
		{[]string{"a.txt", "b.pdf"}, ""},
		{[]string{"a.txt", "B.CSV", "c.csv"}, "B.CSV"},
	}
	for _, tt := range tests {
		if got := findCSV(tt.paths); got != tt.want {
			t.Errorf("findCSV(%v) = %q, want %q", tt.paths, got, tt.want)
		}
	}
}
