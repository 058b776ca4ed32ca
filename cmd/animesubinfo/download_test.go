package main

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/animesubinfo/animesubinfo/internal/config"
)

func buildCLITestZip(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry: %v", err)
		}
		if _, err := w.Write([]byte("1\n00:00:00,000 --> 00:00:01,000\nhello\n")); err != nil {
			t.Fatalf("writing zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func withDownloadServer(t *testing.T, zipBody []byte, fn func()) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/szukaj.php", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "ansi_sciagnij", Value: "testcookie"})
		w.Write([]byte(`<table class="wyniki">` + searchRowFixture(42, "Elf Princess Rane") + `</table>`))
	})
	mux.HandleFunc("/sciagnij.php", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="sh42.zip"`)
		w.Write(zipBody)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := config.GetConfig()
	original := cfg.CatalogDomain
	cfg.CatalogDomain = server.URL
	defer func() { cfg.CatalogDomain = original }()

	fn()
}

func TestDownloadCommandDefaultOutput(t *testing.T) {
	zipContent := buildCLITestZip(t, "Elf Princess Rane - 01.srt")
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	withDownloadServer(t, zipContent, func() {
		out, err := runCmd("download", "42")
		if err != nil {
			t.Fatalf("unexpected error: %v, output: %s", err, out)
		}
		if !strings.Contains(out, "Downloaded:") {
			t.Errorf("expected a Downloaded: line, got: %s", out)
		}
		if _, err := os.Stat(filepath.Join(dir, "sh42.zip")); err != nil {
			t.Errorf("expected sh42.zip to be written: %v", err)
		}
	})
}

func TestDownloadCommandWithOutputFlag(t *testing.T) {
	zipContent := buildCLITestZip(t, "Elf Princess Rane - 01.srt")
	outPath := filepath.Join(t.TempDir(), "custom.zip")

	withDownloadServer(t, zipContent, func() {
		out, err := runCmd("download", "42", "-o", outPath)
		if err != nil {
			t.Fatalf("unexpected error: %v, output: %s", err, out)
		}
		if !strings.Contains(out, "Downloaded:") {
			t.Errorf("expected a Downloaded: line, got: %s", out)
		}
		content, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("reading output file: %v", err)
		}
		if !bytes.Equal(content, zipContent) {
			t.Errorf("output file content does not match the downloaded archive")
		}
	})
}

func TestDownloadCommandRejectsNonIntegerID(t *testing.T) {
	_, err := runCmd("download", "not-a-number")
	if err == nil {
		t.Fatal("expected an error for a non-integer subtitle id")
	}
}
