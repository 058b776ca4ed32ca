// Package catalog implements the streaming scraper for the alphabetical
// catalog page: it resolves a desired title (with optional season/year
// hints) to the search URL the catalog page links it to.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/animesubinfo/animesubinfo/internal/config"
	"github.com/animesubinfo/animesubinfo/internal/htmlstream"
	"github.com/animesubinfo/animesubinfo/internal/metrics"
	"github.com/animesubinfo/animesubinfo/internal/normalize"
)

// minFuzzySimilarity is the hard threshold below which a fuzzy match is
// discarded.
const minFuzzySimilarity = 0.60

// Scraper resolves a title to a search URL by streaming a catalog page.
type Scraper struct {
	title    string
	variants []string // normalized candidate variants, most-specific first

	feeder *htmlstream.Feeder

	exactResult string
	hasExact    bool
}

// NewScraper builds a Scraper for title, with optional season and year
// hints used to expand the candidate-variant set. Pass "" for either hint
// to omit it.
func NewScraper(title, season, year string) *Scraper {
	variants := buildVariants(title, season, year)
	normalized := make([]string, 0, len(variants))
	for _, v := range variants {
		if nv := normalize.Normalize(v); nv != "" {
			normalized = append(normalized, nv)
		}
	}
	return &Scraper{title: title, variants: normalized, feeder: htmlstream.NewFeeder()}
}

// buildVariants orders candidates most-specific first: a season hint beats
// a year hint beats the bare title, so a season-qualified catalog entry is
// preferred over a same-title entry lacking the season whenever both are
// present on the page.
func buildVariants(title, season, year string) []string {
	var variants []string

	if season != "" {
		for _, form := range seasonForms(season) {
			variants = append(variants, fmt.Sprintf("%s %s", title, form))
		}
	}
	if year != "" {
		variants = append(variants, fmt.Sprintf("%s (%s)", title, year))
	}
	variants = append(variants, title)
	return variants
}

// seasonForms derives the catalog-visible spellings of a season hint:
// "2", "Season 2", "S2", "II".
func seasonForms(season string) []string {
	n, err := strconv.Atoi(season)
	if err != nil {
		return []string{season}
	}
	forms := []string{
		strconv.Itoa(n),
		fmt.Sprintf("Season %d", n),
		fmt.Sprintf("S%d", n),
	}
	if roman := normalize.IntToRoman(n); roman != "" {
		forms = append(forms, roman)
	}
	return forms
}

// Feed appends a chunk of the catalog page (in the site's ISO-8859-2
// encoding) and returns the currently known result. Once an exact match is
// found it is frozen and returned on every subsequent call; a fuzzy match
// is only reliable once the whole page has been fed.
func (s *Scraper) Feed(chunk []byte) (string, bool) {
	if s.hasExact {
		return s.exactResult, true
	}
	metrics.ScrapeChunksTotal.WithLabelValues("catalog").Inc()
	if err := s.feeder.Feed(chunk); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Msg("catalog scraper: failed to decode chunk")
		return "", false
	}
	return s.Result()
}

// Result returns the scraper's current best result without feeding more
// data, using whatever has been fed so far.
func (s *Scraper) Result() (string, bool) {
	if s.hasExact {
		return s.exactResult, true
	}

	entries := scanEntries(s.feeder.Tokenizer())

	if href, ok := s.exactMatch(entries); ok {
		s.exactResult = href
		s.hasExact = true
		return href, true
	}

	return s.fuzzyMatch(entries)
}

// exactMatch checks variants most-specific first (see buildVariants), and
// for each variant scans every entry on the page before falling back to the
// next, less specific variant. This keeps a season/year-qualified entry
// from losing to a bare-title entry that merely happens to appear earlier
// in page order.
func (s *Scraper) exactMatch(entries []catalogEntry) (string, bool) {
	for _, variant := range s.variants {
		for _, entry := range entries {
			for _, candidate := range entry.candidates() {
				if normalize.Normalize(candidate) == variant {
					return entry.href, true
				}
			}
		}
	}
	return "", false
}

func (s *Scraper) fuzzyMatch(entries []catalogEntry) (string, bool) {
	bestScore := 0.0
	bestHref := ""
	for _, entry := range entries {
		for _, candidate := range entry.candidates() {
			normCandidate := normalize.Normalize(candidate)
			if normCandidate == "" {
				continue
			}
			for _, variant := range s.variants {
				ratio := normalize.Ratio(variant, normCandidate)
				if ratio > bestScore {
					bestScore = ratio
					bestHref = entry.href
				}
			}
		}
	}
	if bestScore >= minFuzzySimilarity {
		return bestHref, true
	}
	return "", false
}

// catalogEntry is one anchor found on the catalog page: its destination and
// the text(s) a title might be matched against.
type catalogEntry struct {
	href    string
	text    string
	tooltip string
}

// candidates returns every distinct piece of text this entry could be
// matched on: its visible text and each "/"-separated alternative title in
// its tooltip.
func (e catalogEntry) candidates() []string {
	candidates := []string{e.text}
	for _, alt := range strings.Split(e.tooltip, "/") {
		if alt = strings.TrimSpace(alt); alt != "" {
			candidates = append(candidates, alt)
		}
	}
	return candidates
}

// scanEntries tolerantly walks the tag-event stream looking for anchor
// elements, tracking each open anchor's href/title attributes and
// accumulated text until its closing tag.
func scanEntries(z *html.Tokenizer) []catalogEntry {
	var entries []catalogEntry
	var current *catalogEntry

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := z.Token()

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			if tok.Data != "a" {
				continue
			}
			entry := catalogEntry{}
			for _, attr := range tok.Attr {
				switch attr.Key {
				case "href":
					entry.href = attr.Val
				case "title":
					entry.tooltip = attr.Val
				}
			}
			if tt == html.SelfClosingTagToken {
				entries = append(entries, entry)
			} else {
				current = &entry
			}
		case html.TextToken:
			if current != nil {
				current.text += tok.Data
			}
		case html.EndTagToken:
			if tok.Data == "a" && current != nil {
				current.text = strings.TrimSpace(current.text)
				entries = append(entries, *current)
				current = nil
			}
		}
	}

	return entries
}
