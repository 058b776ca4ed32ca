package searchdriver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/animesubinfo/animesubinfo/internal/apperrors"
	"github.com/animesubinfo/animesubinfo/internal/config"
	"github.com/animesubinfo/animesubinfo/internal/metrics"
	"github.com/animesubinfo/animesubinfo/internal/models"
	"github.com/animesubinfo/animesubinfo/internal/searchparser"
)

// Stream is a pull-based, lazily paginated sequence of SubtitleRecord, in
// the manner of bufio.Scanner: call Next in a loop, read Record after each
// true return, and check Err once Next returns false.
type Stream struct {
	driver    *Driver
	ctx       context.Context
	baseURL   string
	sortBy    models.SortBy
	pageLimit int

	pending      []models.SubtitleRecord
	idx          int
	current      models.SubtitleRecord
	pagesFetched int
	totalPages   int
	err          error
	done         bool

	parser *searchparser.Scraper
}

func (d *Driver) newStream(ctx context.Context, baseURL string, sortBy models.SortBy, pageLimit int) *Stream {
	return &Stream{driver: d, ctx: ctx, baseURL: baseURL, sortBy: sortBy, pageLimit: pageLimit}
}

// Next advances to the next record, fetching the next page on demand. It
// returns false once the stream is exhausted or a page fetch failed; call
// Err to distinguish the two.
func (s *Stream) Next() bool {
	for {
		if s.idx < len(s.pending) {
			s.current = s.pending[s.idx]
			s.idx++
			return true
		}
		if s.done {
			return false
		}
		if err := s.fetchNextPage(); err != nil {
			s.err = err
			s.done = true
			return false
		}
	}
}

// Record returns the record Next just advanced to.
func (s *Stream) Record() models.SubtitleRecord {
	return s.current
}

// Err returns the first fatal page-fetch error, if any. Records already
// emitted before the failure remain valid.
func (s *Stream) Err() error {
	return s.err
}

// SessionToken returns the (sh, cookie) pair captured for id on whichever
// page is currently loaded. It must be called before Next advances past
// that page, since the underlying parser (and its token) is replaced, not
// kept, on the next page fetch.
func (s *Stream) SessionToken(id int) (models.SessionToken, bool) {
	if s.parser == nil {
		return models.SessionToken{}, false
	}
	return s.parser.SessionToken(id)
}

func (s *Stream) fetchNextPage() error {
	logger := config.GetLogger()

	if s.pagesFetched > 0 {
		// A page without a pager (totalPages 0) is the only page.
		if s.pagesFetched >= s.totalPages {
			s.done = true
			return nil
		}
		if s.pageLimit > 0 && s.pagesFetched >= s.pageLimit {
			s.done = true
			return nil
		}
	}

	page := s.pagesFetched + 1
	pageURL := appendSortAndPage(s.baseURL, s.sortBy, page)

	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return apperrors.NewTransportError(pageURL, err)
	}

	resp, err := s.driver.httpClient.Do(req)
	if err != nil {
		return apperrors.NewTransportError(pageURL, err)
	}
	defer resp.Body.Close()

	cookie := ansiCookie(resp)
	parser := searchparser.NewScraper(cookie)

	reader := bufio.NewReader(resp.Body)
	buf := make([]byte, feedChunkSize)
	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			if err := parser.Feed(buf[:n]); err != nil {
				return apperrors.NewTransportError(pageURL, err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return apperrors.NewTransportError(pageURL, readErr)
		}
	}

	s.pending = parser.Records()
	s.idx = 0
	s.totalPages = parser.TotalPages()
	s.pagesFetched++
	s.parser = parser
	metrics.ScrapeRecordsTotal.WithLabelValues("search").Add(float64(len(s.pending)))

	logger.Debug().Str("url", pageURL).Int("page", page).Int("records", len(s.pending)).Int("total_pages", s.totalPages).Msg("fetched search results page")

	if len(s.pending) == 0 {
		s.done = true
	}
	return nil
}

func appendSortAndPage(baseURL string, sortBy models.SortBy, page int) string {
	sep := "&"
	if !strings.Contains(baseURL, "?") {
		sep = "?"
	}
	return fmt.Sprintf("%s%spSortuj=%s&strona=%d", baseURL, sep, sortBy.String(), page)
}

func ansiCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "ansi_sciagnij" {
			return c.Value
		}
	}
	return ""
}
