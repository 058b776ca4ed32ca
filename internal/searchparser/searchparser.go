// Package searchparser implements the chunk-fed scraper for one
// search-results page: records, their session tokens, and the pager's
// reported page count.
package searchparser

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/animesubinfo/animesubinfo/internal/config"
	"github.com/animesubinfo/animesubinfo/internal/htmlstream"
	"github.com/animesubinfo/animesubinfo/internal/metrics"
	"github.com/animesubinfo/animesubinfo/internal/models"
)

// dateLayouts lists the two canonical date renderings the site uses.
var dateLayouts = []string{"2006-01-02", "02-01-2006"}

// Scraper accumulates a search-results page and re-derives its parse from
// everything fed so far on each Records, TotalPages or SessionToken call,
// so records grow monotonically as more of the page arrives.
type Scraper struct {
	cookie string
	feeder *htmlstream.Feeder
}

// NewScraper returns a Scraper that will associate cookie (the page's
// "ansi_sciagnij" response cookie value) with every session token it
// captures.
func NewScraper(cookie string) *Scraper {
	return &Scraper{cookie: cookie, feeder: htmlstream.NewFeeder()}
}

// Feed appends a chunk of the page (in the site's ISO-8859-2 encoding).
func (s *Scraper) Feed(chunk []byte) error {
	metrics.ScrapeChunksTotal.WithLabelValues("search").Inc()
	return s.feeder.Feed(chunk)
}

// Records returns every record parsed so far, in page order.
func (s *Scraper) Records() []models.SubtitleRecord {
	rows, _ := s.parse()
	records := make([]models.SubtitleRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record)
	}
	return records
}

// TotalPages returns the number of result pages the pager reports, or 0 if
// the page has the "no results" shape.
func (s *Scraper) TotalPages() int {
	_, totalPages := s.parse()
	return totalPages
}

// SessionToken returns the (sh, cookie) pair captured for id, if a download
// link carrying one was found for that row.
func (s *Scraper) SessionToken(id int) (models.SessionToken, bool) {
	rows, _ := s.parse()
	for _, row := range rows {
		if row.record.ID == id && row.sh != "" {
			return models.SessionToken{Sh: row.sh, Cookie: s.cookie}, true
		}
	}
	return models.SessionToken{}, false
}

type parsedRow struct {
	record models.SubtitleRecord
	sh     string
}

// elementCtx tracks one open element on the scan stack: its recognized
// field name (if any) and the text accumulated directly inside it.
type elementCtx struct {
	tag   string
	class string
	field string
	text  strings.Builder
	attrs map[string]string
}

func (s *Scraper) parse() ([]parsedRow, int) {
	logger := config.GetLogger()
	z := s.feeder.Tokenizer()

	var rows []parsedRow
	var stack []*elementCtx

	var row *rowBuilder
	var inPagerRow bool
	var pagerBest int

	push := func(tag, class string, attrs map[string]string) *elementCtx {
		ctx := &elementCtx{tag: tag, class: class, attrs: attrs, field: fieldFor(tag, class)}
		stack = append(stack, ctx)
		return ctx
	}
	pop := func() *elementCtx {
		if len(stack) == 0 {
			return nil
		}
		ctx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return ctx
	}
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := z.Token()

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			attrs := attrMap(tok.Attr)
			class := attrs["class"]

			if tok.Data == "tr" {
				if class == "pager" {
					inPagerRow = true
				} else if class == "wiersz" || attrs["data-id"] != "" {
					row = newRowBuilder(attrs)
				}
			}
			if row != nil && tok.Data == "a" && class == "pobierz" {
				row.captureAnchor(attrs)
			}

			push(tok.Data, class, attrs)

			if tt == html.SelfClosingTagToken {
				pop()
			}

		case html.TextToken:
			if ctx := innermostField(stack); ctx != nil {
				ctx.text.WriteString(tok.Data)
			}
			if inPagerRow {
				if n, err := strconv.Atoi(strings.TrimSpace(tok.Data)); err == nil && n > pagerBest {
					pagerBest = n
				}
			}

		case html.EndTagToken:
			ctx := pop()
			if ctx == nil {
				continue
			}
			if ctx.field != "" && row != nil {
				row.set(ctx.field, strings.TrimSpace(ctx.text.String()), ctx.attrs)
			}
			if tok.Data == "tr" {
				if inPagerRow {
					inPagerRow = false
				} else if row != nil {
					rows = append(rows, row.build())
					row = nil
				}
			}
		}
	}

	if row != nil {
		logger.Debug().Msg("search results page ended mid-row; discarding incomplete row")
	}

	return rows, pagerBest
}

// fieldFor maps a (tag, class) pair to the record field it fills, or ""
// when the element carries no recognized field.
func fieldFor(tag, class string) string {
	switch tag {
	case "td":
		switch class {
		case "tytul", "epizod", "data", "format", "autor", "dodal", "rozmiar", "opis", "komentarze", "pobrania":
			return class
		}
	case "span":
		switch class {
		case "ang", "alt":
			return class
		}
	case "div":
		switch class {
		case "zle", "srednie", "bardzo_dobre":
			return class
		}
	}
	return ""
}

// innermostField walks the open-element stack from the top down and
// returns the nearest context carrying a recognized field, so text nested
// inside an unrecognized wrapper (e.g. an anchor) still reaches the
// enclosing cell, while text inside its own recognized element (e.g. a
// nested span) stays there instead of bubbling further up.
func innermostField(stack []*elementCtx) *elementCtx {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].field != "" {
			return stack[i]
		}
	}
	return nil
}

func attrMap(attrs []html.Attribute) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Val
	}
	return m
}

// rowBuilder accumulates one row's fields as they're closed, in no
// particular order, tolerating missing cells.
type rowBuilder struct {
	id            int
	sh            string
	originalTitle string
	englishTitle  string
	altTitle      string
	episode       string
	date          string
	format        string
	author        string
	addedBy       string
	size          string
	description   string
	commentCount  string
	downloaded    string
	bad           string
	average       string
	veryGood      string
}

func newRowBuilder(attrs map[string]string) *rowBuilder {
	rb := &rowBuilder{}
	if idStr, ok := attrs["data-id"]; ok {
		if id, err := strconv.Atoi(idStr); err == nil {
			rb.id = id
		}
	}
	return rb
}

func (rb *rowBuilder) captureAnchor(attrs map[string]string) {
	if sh, ok := attrs["data-sh"]; ok {
		rb.sh = sh
	}
	if rb.id == 0 {
		if href, ok := attrs["href"]; ok {
			rb.id = extractID(href)
		}
	}
}

func extractID(href string) int {
	const key = "id="
	idx := strings.Index(href, key)
	if idx == -1 {
		return 0
	}
	rest := href[idx+len(key):]
	end := strings.IndexAny(rest, "&#")
	if end != -1 {
		rest = rest[:end]
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0
	}
	return id
}

func (rb *rowBuilder) set(field, text string, attrs map[string]string) {
	switch field {
	case "tytul":
		if rb.originalTitle == "" {
			rb.originalTitle = text
		}
	case "ang":
		rb.englishTitle = text
	case "alt":
		rb.altTitle = text
	case "epizod":
		rb.episode = text
	case "data":
		rb.date = text
	case "format":
		rb.format = text
	case "autor":
		rb.author = text
	case "dodal":
		rb.addedBy = text
	case "rozmiar":
		rb.size = text
	case "opis":
		rb.description = text
	case "komentarze":
		rb.commentCount = text
	case "pobrania":
		rb.downloaded = text
	case "zle":
		rb.bad = ratingValue(text, attrs)
	case "srednie":
		rb.average = ratingValue(text, attrs)
	case "bardzo_dobre":
		rb.veryGood = ratingValue(text, attrs)
	}
}

// ratingValue prefers a style="width:NN%" declaration over the element's
// text content, since the site renders the rating as a percent-width bar.
func ratingValue(text string, attrs map[string]string) string {
	if style, ok := attrs["style"]; ok {
		if v := percentFromStyle(style); v != "" {
			return v
		}
	}
	return strings.TrimSuffix(strings.TrimSpace(text), "%")
}

func percentFromStyle(style string) string {
	const key = "width:"
	idx := strings.Index(style, key)
	if idx == -1 {
		return ""
	}
	rest := style[idx+len(key):]
	end := strings.IndexAny(rest, "%;")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

func (rb *rowBuilder) build() parsedRow {
	episode, toEpisode := parseEpisodeCell(rb.episode)

	return parsedRow{
		sh: rb.sh,
		record: models.SubtitleRecord{
			ID:              rb.id,
			Episode:         episode,
			ToEpisode:       toEpisode,
			OriginalTitle:   rb.originalTitle,
			EnglishTitle:    rb.englishTitle,
			AltTitle:        rb.altTitle,
			Date:            parseDate(rb.date),
			Format:          rb.format,
			Author:          rb.author,
			AddedBy:         rb.addedBy,
			Size:            rb.size,
			Description:     rb.description,
			CommentCount:    parseIntOrZero(rb.commentCount),
			DownloadedTimes: parseIntOrZero(rb.downloaded),
			Rating: models.Rating{
				Bad:      parseIntOrZero(rb.bad),
				Average:  parseIntOrZero(rb.average),
				VeryGood: parseIntOrZero(rb.veryGood),
			},
		},
	}
}

// parseEpisodeCell decodes "N" (single episode), "N-M" (pack) and a
// movie marker into (episode, to_episode).
func parseEpisodeCell(cell string) (int, int) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, 0
	}
	if strings.EqualFold(cell, "Film") || strings.EqualFold(cell, "Movie") {
		return 0, 0
	}
	if idx := strings.Index(cell, "-"); idx != -1 {
		from := parseIntOrZero(cell[:idx])
		to := parseIntOrZero(cell[idx+1:])
		if from > 0 && to >= from {
			return from, to
		}
	}
	if n := parseIntOrZero(cell); n > 0 {
		return n, n
	}
	return 0, 0
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseIntOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
