// Package decompose turns a video file name into the fixed attribute set
// the fitness scorer compares against catalog records.
package decompose

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/moistari/rls"

	"github.com/animesubinfo/animesubinfo/internal/models"
)

// checksumPattern matches the bracketed 8-hex-digit CRC32 anime release
// groups commonly embed in file names, e.g. "[ABCD1234]". moistari/rls
// already exposes a Sum field for this when it recognizes the release's own
// checksum convention; this regex is the fallback for the cases it misses.
var checksumPattern = regexp.MustCompile(`[\[\(]([A-Fa-f0-9]{8})[\]\)]`)

// Decompose parses name into a DecomposedFileName using moistari/rls as the
// base release-name parser, supplemented with a local checksum regex.
func Decompose(name string) models.DecomposedFileName {
	d := models.NewDecomposedFileName()
	d.Set(models.AttrFileName, name)

	release := rls.ParseString(name)

	d.Set(models.AttrAnimeTitle, strings.TrimSpace(release.Title))

	if release.Episode > 0 {
		d.Set(models.AttrEpisodeNumber, strconv.Itoa(release.Episode))
	}
	if release.Year > 0 {
		d.Set(models.AttrAnimeYear, strconv.Itoa(release.Year))
	}
	if release.Series > 0 {
		d.Set(models.AttrAnimeSeason, strconv.Itoa(release.Series))
	}
	d.Set(models.AttrAnimeType, animeType(release))

	d.Set(models.AttrVideoResolution, release.Resolution)
	d.Set(models.AttrSource, release.Source)
	d.Set(models.AttrReleaseGroup, release.Group)
	d.Set(models.AttrAudioTerm, release.Audio)
	for _, channel := range splitNonEmpty(release.Channels) {
		d.Add(models.AttrAudioTerm, channel)
	}

	d.Set(models.AttrVideoTerm, release.Codec)
	if release.HDR != "" {
		d.Add(models.AttrVideoTerm, release.HDR)
	}
	for _, other := range release.Other {
		d.Add(models.AttrVideoTerm, other)
	}

	d.Set(models.AttrFileChecksum, checksum(release, name))

	return d
}

func animeType(release rls.Release) string {
	switch release.Type {
	case rls.Movie:
		return "Movie"
	case rls.Episode, rls.Series:
		return "TV"
	default:
		return ""
	}
}

func checksum(release rls.Release, name string) string {
	if release.Sum != "" {
		return release.Sum
	}
	if m := checksumPattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
