package httpclient

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

func TestCompressionTransport_Gzip(t *testing.T) {
	testData := []byte("This is test data that should be compressed with gzip")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "gzip, br, zstd" {
			t.Errorf("expected Accept-Encoding header to be 'gzip, br, zstd', got %q", r.Header.Get("Accept-Encoding"))
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)

		gzWriter := gzip.NewWriter(w)
		_, _ = gzWriter.Write(testData)
		_ = gzWriter.Close()
	}))
	defer server.Close()

	client := &http.Client{Transport: newCompressionTransport(nil)}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}

	if !bytes.Equal(body, testData) {
		t.Errorf("expected body %q, got %q", testData, body)
	}
	if resp.Header.Get("Content-Encoding") != "" {
		t.Errorf("expected Content-Encoding header removed, got %q", resp.Header.Get("Content-Encoding"))
	}
}

func TestCompressionTransport_Brotli(t *testing.T) {
	testData := []byte("This is test data that should be compressed with brotli")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		w.WriteHeader(http.StatusOK)

		brWriter := brotli.NewWriter(w)
		_, _ = brWriter.Write(testData)
		_ = brWriter.Close()
	}))
	defer server.Close()

	client := &http.Client{Transport: newCompressionTransport(nil)}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}

	if !bytes.Equal(body, testData) {
		t.Errorf("expected body %q, got %q", testData, body)
	}
}

func TestCompressionTransport_Zstd(t *testing.T) {
	testData := []byte("This is test data that should be compressed with zstd")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "zstd")
		w.WriteHeader(http.StatusOK)

		zstdWriter, _ := zstd.NewWriter(w)
		_, _ = zstdWriter.Write(testData)
		_ = zstdWriter.Close()
	}))
	defer server.Close()

	client := &http.Client{Transport: newCompressionTransport(nil)}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}

	if !bytes.Equal(body, testData) {
		t.Errorf("expected body %q, got %q", testData, body)
	}
}

func TestCompressionTransport_NoCompression(t *testing.T) {
	testData := []byte("This is uncompressed test data")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(testData)
	}))
	defer server.Close()

	client := &http.Client{Transport: newCompressionTransport(nil)}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}

	if !bytes.Equal(body, testData) {
		t.Errorf("expected body %q, got %q", testData, body)
	}
}

func TestCompressionTransport_UnknownEncoding(t *testing.T) {
	testData := []byte("Test data with unknown encoding")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "unknown-encoding")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(testData)
	}))
	defer server.Close()

	client := &http.Client{Transport: newCompressionTransport(nil)}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}

	if !bytes.Equal(body, testData) {
		t.Errorf("expected body %q, got %q", testData, body)
	}
	if resp.Header.Get("Content-Encoding") != "unknown-encoding" {
		t.Errorf("expected Content-Encoding preserved for unknown encodings, got %q", resp.Header.Get("Content-Encoding"))
	}
}

func TestCompressionTransport_NoBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := &http.Client{Transport: newCompressionTransport(nil)}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", resp.StatusCode)
	}
}

func TestCompressionTransport_CommaListEncoding(t *testing.T) {
	testData := []byte("This is test data with multiple encodings")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "identity, gzip")
		w.WriteHeader(http.StatusOK)

		gzWriter := gzip.NewWriter(w)
		_, _ = gzWriter.Write(testData)
		_ = gzWriter.Close()
	}))
	defer server.Close()

	client := &http.Client{Transport: newCompressionTransport(nil)}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}

	if !bytes.Equal(body, testData) {
		t.Errorf("expected body %q, got %q", testData, body)
	}
}

func TestParseContentEncoding(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"simple gzip", "gzip", "gzip"},
		{"simple brotli", "br", "br"},
		{"simple zstd", "zstd", "zstd"},
		{"with leading whitespace", " gzip", "gzip"},
		{"with trailing whitespace", "gzip ", "gzip"},
		{"comma list - identity, gzip", "identity, gzip", "gzip"},
		{"comma list - gzip, br", "gzip, br", "br"},
		{"uppercase", "GZIP", "gzip"},
		{"mixed case", "GzIp", "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseContentEncoding(tt.header)
			if result != tt.expected {
				t.Errorf("parseContentEncoding(%q) = %q, expected %q", tt.header, result, tt.expected)
			}
		})
	}
}
