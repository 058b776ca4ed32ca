package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/animesubinfo/animesubinfo/internal/apperrors"
	"github.com/animesubinfo/animesubinfo/internal/models"
)

func buildZip(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte("1\n00:00:00,000 --> 00:00:01,000\nhello\n")); err != nil {
			t.Fatalf("writing entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestSelectBestPicksMatchingEntry(t *testing.T) {
	content := buildZip(t, "Some Other Show - 01.srt", "Elf Princess Rane - 01.srt")

	decomposed := models.NewDecomposedFileName()
	decomposed.Set(models.AttrAnimeTitle, "Elf Princess Rane")

	extracted, err := SelectBest(content, decomposed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if extracted.Filename != "Elf Princess Rane - 01.srt" {
		t.Errorf("unexpected filename: %q", extracted.Filename)
	}
	if len(extracted.Content) == 0 {
		t.Error("expected non-empty content")
	}
}

func TestSelectBestFallsBackToFirstEntryWhenNothingScores(t *testing.T) {
	content := buildZip(t, "first.srt", "second.srt")

	decomposed := models.NewDecomposedFileName()
	decomposed.Set(models.AttrAnimeTitle, "Completely Unrelated Title That Shares Nothing")

	extracted, err := SelectBest(content, decomposed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if extracted.Filename != "first.srt" {
		t.Errorf("expected fallback to the first entry, got %q", extracted.Filename)
	}
}

func TestSelectBestEmptyArchive(t *testing.T) {
	content := buildZip(t)

	_, err := SelectBest(content, models.NewDecomposedFileName())
	var archiveErr *apperrors.ArchiveError
	if !errors.As(err, &archiveErr) {
		t.Fatalf("expected an ArchiveError, got %v", err)
	}
	if archiveErr.Reason != apperrors.ErrEmptyArchive {
		t.Errorf("expected reason %q, got %q", apperrors.ErrEmptyArchive, archiveErr.Reason)
	}
}

func TestSelectBestNotAZip(t *testing.T) {
	_, err := SelectBest([]byte("not a zip file at all"), models.NewDecomposedFileName())
	var archiveErr *apperrors.ArchiveError
	if !errors.As(err, &archiveErr) {
		t.Fatalf("expected an ArchiveError, got %v", err)
	}
}
