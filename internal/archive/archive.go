// Package archive implements ArchiveSelector: picking the best-matching
// subtitle file out of a downloaded ZIP archive by scoring each entry as a
// synthetic subtitle record, reusing the same fitness scorer the search
// driver uses rather than a second, separate matcher.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/animesubinfo/animesubinfo/internal/apperrors"
	"github.com/animesubinfo/animesubinfo/internal/config"
	"github.com/animesubinfo/animesubinfo/internal/metrics"
	"github.com/animesubinfo/animesubinfo/internal/models"
	"github.com/animesubinfo/animesubinfo/internal/scorer"
)

// Bomb-detection limits, generous enough for season-pack subtitle archives.
const (
	maxCompressionRatio      = 10000
	maxUncompressedFileSize  = 20 * 1024 * 1024
	maxTotalUncompressedSize = 100 * 1024 * 1024
)

// magic numbers distinguishing a ZIP archive (including the empty and
// spanned forms) from any other content.
func isZipFile(content []byte) bool {
	if len(content) < 4 {
		return false
	}
	return content[0] == 0x50 && content[1] == 0x4B &&
		((content[2] == 0x03 && content[3] == 0x04) ||
			(content[2] == 0x05 && content[3] == 0x06) ||
			(content[2] == 0x07 && content[3] == 0x08))
}

// SelectBest opens content as a ZIP archive and returns the entry that
// scores best against fileOrDecomposed, using each entry's filename as a
// synthetic record's original title. When every entry scores 0 (or the
// decomposition fails), it falls back to the first non-directory entry in
// archive order and logs a warning, rather than failing the extraction.
func SelectBest(content []byte, fileOrDecomposed any) (models.ExtractedSubtitle, error) {
	logger := config.GetLogger()

	if !isZipFile(content) {
		return models.ExtractedSubtitle{}, apperrors.NewArchiveError("not a ZIP archive")
	}

	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return models.ExtractedSubtitle{}, apperrors.NewArchiveError(fmt.Sprintf("malformed ZIP archive: %v", err))
	}

	if err := detectZipBomb(zr, int64(len(content))); err != nil {
		return models.ExtractedSubtitle{}, apperrors.NewArchiveError(err.Error())
	}

	var files []*zip.File
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return models.ExtractedSubtitle{}, apperrors.NewEmptyArchiveError()
	}

	bestIdx := -1
	bestScore := 0
	for i, f := range files {
		pseudo := models.SubtitleRecord{OriginalTitle: f.Name}
		score, err := scorer.Score(pseudo, fileOrDecomposed)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	chosen := files[0]
	outcome := "fallback"
	if bestIdx >= 0 {
		chosen = files[bestIdx]
		outcome = "matched"
	} else {
		logger.Warn().Int("entries", len(files)).Msg("no archive entry scored above zero; falling back to the first entry")
	}
	metrics.ArchiveExtractionsTotal.WithLabelValues(outcome).Inc()

	rc, err := chosen.Open()
	if err != nil {
		return models.ExtractedSubtitle{}, apperrors.NewArchiveError(fmt.Sprintf("could not open %s: %v", chosen.Name, err))
	}
	defer rc.Close()

	entryContent, err := io.ReadAll(rc)
	if err != nil {
		return models.ExtractedSubtitle{}, apperrors.NewArchiveError(fmt.Sprintf("could not read %s: %v", chosen.Name, err))
	}

	return models.ExtractedSubtitle{Filename: chosen.Name, Content: entryContent}, nil
}

// detectZipBomb rejects archives whose declared sizes or compression ratios
// are implausible for subtitle content.
func detectZipBomb(zr *zip.Reader, compressedSize int64) error {
	var totalUncompressed uint64

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		uncompressed := f.UncompressedSize64
		totalUncompressed += uncompressed

		if uncompressed > maxUncompressedFileSize {
			return fmt.Errorf("entry %s exceeds maximum uncompressed size (%d > %d bytes)", f.Name, uncompressed, uint64(maxUncompressedFileSize))
		}
		if f.CompressedSize64 > 0 {
			ratio := float64(uncompressed) / float64(f.CompressedSize64)
			if ratio > maxCompressionRatio {
				return fmt.Errorf("entry %s has a suspicious compression ratio (%.1f > %d)", f.Name, ratio, maxCompressionRatio)
			}
		}
	}

	if totalUncompressed > maxTotalUncompressedSize {
		return fmt.Errorf("total uncompressed size exceeds limit (%d > %d bytes)", totalUncompressed, uint64(maxTotalUncompressedSize))
	}
	if compressedSize > 0 {
		overall := float64(totalUncompressed) / float64(compressedSize)
		if overall > maxCompressionRatio {
			return fmt.Errorf("overall compression ratio is suspicious (%.1f > %d)", overall, maxCompressionRatio)
		}
	}
	return nil
}
