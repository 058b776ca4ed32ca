// Package models holds the data types shared across the scrapers, the
// fitness scorer, the search driver and the download pipeline.
package models

import "time"

// Rating is the three-bucket vote distribution rendered next to a record.
// The three values encode a percent distribution: their sum is 0 (no votes)
// or 100.
type Rating struct {
	Bad      int
	Average  int
	VeryGood int
}

// SubtitleRecord is an immutable snapshot parsed from one search-results row.
type SubtitleRecord struct {
	ID             int
	Episode        int
	ToEpisode      int
	OriginalTitle  string
	EnglishTitle   string
	AltTitle       string
	Date           time.Time
	Format         string
	Author         string
	AddedBy        string
	Size           string
	Description    string
	CommentCount   int
	DownloadedTimes int
	Rating         Rating
}

// IsMovie reports whether the record is the "movie" shape: episode and
// to_episode are both zero.
func (r SubtitleRecord) IsMovie() bool {
	return r.Episode == 0 && r.ToEpisode == 0
}

// IsPack reports whether the record covers more than one episode.
func (r SubtitleRecord) IsPack() bool {
	return r.ToEpisode > r.Episode
}

// SessionToken pairs the per-record short-lived "sh" token with the
// "ansi_sciagnij" cookie from the page that delivered it. Neither value is
// persisted; both are scoped to the record and the page's cookie lifetime.
type SessionToken struct {
	Sh     string
	Cookie string
}

// ExtractedSubtitle is a single subtitle file pulled out of a downloaded
// archive.
type ExtractedSubtitle struct {
	Filename string
	Content  []byte
}
