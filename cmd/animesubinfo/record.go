package main

import (
	"fmt"

	"github.com/animesubinfo/animesubinfo"
)

// jsonRating is the rating shape rendered by --json.
type jsonRating struct {
	Bad      int `json:"bad"`
	Average  int `json:"average"`
	VeryGood int `json:"very_good"`
}

// jsonRecord is the rendered shape of a SubtitleRecord under --json.
type jsonRecord struct {
	ID              int        `json:"id"`
	Episode         int        `json:"episode"`
	ToEpisode       int        `json:"to_episode"`
	OriginalTitle   string     `json:"original_title"`
	EnglishTitle    string     `json:"english_title"`
	AltTitle        string     `json:"alt_title"`
	Date            string     `json:"date"`
	Format          string     `json:"format"`
	Author          string     `json:"author"`
	AddedBy         string     `json:"added_by"`
	Size            string     `json:"size"`
	Description     string     `json:"description"`
	CommentCount    int        `json:"comment_count"`
	DownloadedTimes int        `json:"downloaded_times"`
	Rating          jsonRating `json:"rating"`
}

func toJSONRecord(r animesubinfo.SubtitleRecord) jsonRecord {
	return jsonRecord{
		ID:              r.ID,
		Episode:         r.Episode,
		ToEpisode:       r.ToEpisode,
		OriginalTitle:   r.OriginalTitle,
		EnglishTitle:    r.EnglishTitle,
		AltTitle:        r.AltTitle,
		Date:            r.Date.Format("2006-01-02"),
		Format:          r.Format,
		Author:          r.Author,
		AddedBy:         r.AddedBy,
		Size:            r.Size,
		Description:     r.Description,
		CommentCount:    r.CommentCount,
		DownloadedTimes: r.DownloadedTimes,
		Rating: jsonRating{
			Bad:      r.Rating.Bad,
			Average:  r.Rating.Average,
			VeryGood: r.Rating.VeryGood,
		},
	}
}

// episodeLabel renders the "1-12" / "Movie" / "3" label used by the text
// table and the "find"/"best" summary line.
func episodeLabel(r animesubinfo.SubtitleRecord) string {
	switch {
	case r.IsMovie():
		return "Movie"
	case r.IsPack():
		return fmt.Sprintf("%d-%d", r.Episode, r.ToEpisode)
	default:
		return fmt.Sprintf("%d", r.Episode)
	}
}
