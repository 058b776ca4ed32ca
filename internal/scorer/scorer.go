// Package scorer implements the tiered, bit-packed fitness score that ranks
// how well a subtitle record matches a decomposed video file name.
package scorer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/animesubinfo/animesubinfo/internal/apperrors"
	"github.com/animesubinfo/animesubinfo/internal/decompose"
	"github.com/animesubinfo/animesubinfo/internal/metrics"
	"github.com/animesubinfo/animesubinfo/internal/models"
	"github.com/animesubinfo/animesubinfo/internal/normalize"
)

// minTitleSimilarity is the hard-filter threshold on best title similarity.
const minTitleSimilarity = 0.60

// tier2Attrs and tier4Attrs list the attribute categories contributing to
// the Tier-2 and Tier-4 match counts, in no particular order (only the
// count matters).
var (
	tier2Attrs = []models.Attribute{models.AttrFileChecksum, models.AttrFileName, models.AttrSource}
	tier4Attrs = []models.Attribute{
		models.AttrAnimeYear, models.AttrAnimeSeason, models.AttrAnimeType,
		models.AttrVideoTerm, models.AttrVideoResolution, models.AttrAudioTerm,
	}
)

// Score computes the fitness score of record against fileOrDecomposed,
// which must be either a string (decomposed internally) or an already
// decomposed models.DecomposedFileName. A hard-filter failure returns
// (0, nil); an unresolvable input (no title could be determined, or an
// episode record scored against input with no integer episode_number)
// returns (0, *apperrors.DecomposeError).
func Score(record models.SubtitleRecord, fileOrDecomposed any) (int, error) {
	decomposed, err := asDecomposed(fileOrDecomposed)
	if err != nil {
		return 0, err
	}

	animeTitle, hasTitle := decomposed.Get(models.AttrAnimeTitle)
	if !hasTitle || strings.TrimSpace(animeTitle) == "" {
		return 0, apperrors.NewDecomposeError(fmt.Sprint(fileOrDecomposed), "no anime_title could be determined")
	}

	if record.Episode > 0 {
		episodeStr, has := decomposed.Get(models.AttrEpisodeNumber)
		if !has {
			return 0, apperrors.NewDecomposeError(fmt.Sprint(fileOrDecomposed), "no episode number for an episode record")
		}
		episode, err := strconv.Atoi(episodeStr)
		if err != nil {
			return 0, apperrors.NewDecomposeError(fmt.Sprint(fileOrDecomposed), "episode_number is not an integer")
		}
		if episode < record.Episode || episode > record.ToEpisode {
			metrics.FitnessScoresTotal.WithLabelValues("episode_mismatch").Inc()
			return 0, nil
		}
	} else {
		if decomposed.Has(models.AttrEpisodeNumber) {
			metrics.FitnessScoresTotal.WithLabelValues("movie_episode_mismatch").Inc()
			return 0, nil
		}
	}

	bestSimilarity, anyTitle := bestTitleSimilarity(record, animeTitle)
	if !anyTitle {
		metrics.FitnessScoresTotal.WithLabelValues("no_title").Inc()
		return 0, nil
	}
	if bestSimilarity < minTitleSimilarity {
		metrics.FitnessScoresTotal.WithLabelValues("title_too_dissimilar").Inc()
		return 0, nil
	}

	titlePercent := int(bestSimilarity*100 + 0.5)
	if titlePercent > 100 {
		titlePercent = 100
	}

	haystack := normalize.Normalize(strings.Join([]string{
		record.OriginalTitle, record.EnglishTitle, record.AltTitle, record.Description,
	}, " "))

	tier2Count := countMatches(decomposed, tier2Attrs, haystack, 3)
	tier3Bit := 0
	if matchesAny(models.AttrReleaseGroup, decomposed.GetAll(models.AttrReleaseGroup), haystack) {
		tier3Bit = 1
	}
	tier4Count := countMatches(decomposed, tier4Attrs, haystack, 6)

	score := ((titlePercent + 1) << 8) | (tier2Count << 5) | (tier3Bit << 4) | tier4Count
	metrics.FitnessScoresTotal.WithLabelValues("scored").Inc()
	metrics.FitnessScoreValue.Set(float64(score))
	return score, nil
}

func asDecomposed(fileOrDecomposed any) (models.DecomposedFileName, error) {
	switch v := fileOrDecomposed.(type) {
	case models.DecomposedFileName:
		return v, nil
	case string:
		return decompose.Decompose(v), nil
	default:
		return nil, apperrors.NewDecomposeError(fmt.Sprint(fileOrDecomposed), "unsupported input type")
	}
}

// bestTitleSimilarity returns the highest normalized-ratio similarity
// between decomposedTitle and any of the record's three title fields. The
// second return value is false if every title field is empty.
func bestTitleSimilarity(record models.SubtitleRecord, decomposedTitle string) (float64, bool) {
	normalizedTitle := normalize.Normalize(decomposedTitle)

	candidates := []string{record.OriginalTitle, record.EnglishTitle, record.AltTitle}
	best := 0.0
	any := false
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		any = true
		ratio := normalize.Ratio(normalizedTitle, normalize.Normalize(candidate))
		if ratio > best {
			best = ratio
		}
	}
	return best, any
}

// countMatches counts how many of attrs have at least one value present in
// haystack (after normalization), capped at max.
func countMatches(decomposed models.DecomposedFileName, attrs []models.Attribute, haystack string, max int) int {
	count := 0
	for _, attr := range attrs {
		if matchesAny(attr, decomposed.GetAll(attr), haystack) {
			count++
		}
	}
	if count > max {
		count = max
	}
	return count
}

func matchesAny(attr models.Attribute, values []string, haystack string) bool {
	for _, v := range values {
		if v == "" {
			continue
		}
		if attr == models.AttrFileName {
			v = stripExt(v)
		}
		nv := normalize.Normalize(v)
		if nv != "" && strings.Contains(haystack, nv) {
			return true
		}
	}
	return false
}

// stripExt drops a trailing file extension (everything from the last "."
// on, if that dot isn't the first character) so a file name like
// "my_file.mkv" is matched against the description by its stem, not the
// extension-glued token normalization would otherwise produce.
func stripExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
