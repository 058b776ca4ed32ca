// Package searchdriver implements SearchDriver: the paginated search
// stream and the catalog-then-search "find the best match" flow.
package searchdriver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/animesubinfo/animesubinfo/internal/apperrors"
	"github.com/animesubinfo/animesubinfo/internal/catalog"
	"github.com/animesubinfo/animesubinfo/internal/config"
	"github.com/animesubinfo/animesubinfo/internal/decompose"
	"github.com/animesubinfo/animesubinfo/internal/models"
	"github.com/animesubinfo/animesubinfo/internal/scorer"
	"github.com/animesubinfo/animesubinfo/internal/searchparser"
)

// feedChunkSize is the read granularity used to stream response bodies
// into the chunk-fed scrapers.
const feedChunkSize = 8 * 1024

// Driver is the catalog-domain-scoped entry point for searching and for
// resolving the best match for a video file.
type Driver struct {
	httpClient    *http.Client
	catalogDomain string
}

// NewDriver returns a Driver that issues requests against catalogDomain
// using httpClient.
func NewDriver(httpClient *http.Client, catalogDomain string) *Driver {
	return &Driver{httpClient: httpClient, catalogDomain: strings.TrimRight(catalogDomain, "/")}
}

// Search opens a lazy, paginated stream of SubtitleRecord for title. Pass
// pageLimit <= 0 for no limit. Call Stream.Next in a loop; Stream.Err
// reports the first fatal page-fetch failure, if any.
func (d *Driver) Search(ctx context.Context, title string, sortBy models.SortBy, titleType models.TitleType, pageLimit int) *Stream {
	baseURL := fmt.Sprintf("%s/szukaj.php?szukane=%s&pTitle=%s", d.catalogDomain, url.QueryEscape(title), titleType.String())
	return d.newStream(ctx, baseURL, sortBy, pageLimit)
}

// FindBest decomposes fileOrDecomposed (a raw file name or an already
// decomposed models.DecomposedFileName), resolves its title through
// CatalogScraper, scores every record from a fitness-sorted search, and
// returns the single best match, or nil if the catalog has no entry or
// every record scores 0.
func (d *Driver) FindBest(ctx context.Context, fileOrDecomposed any) (*models.SubtitleRecord, error) {
	logger := config.GetLogger()

	decomposed, err := asDecomposed(fileOrDecomposed)
	if err != nil {
		return nil, err
	}

	animeTitle, ok := decomposed.Get(models.AttrAnimeTitle)
	if !ok || strings.TrimSpace(animeTitle) == "" {
		return nil, apperrors.NewDecomposeError(fmt.Sprint(fileOrDecomposed), "no anime_title could be determined")
	}

	season, _ := decomposed.Get(models.AttrAnimeSeason)
	year, _ := decomposed.Get(models.AttrAnimeYear)

	href, err := d.resolveCatalogURL(ctx, animeTitle, season, year)
	if err != nil {
		return nil, err
	}
	if href == "" {
		logger.Info().Str("title", animeTitle).Msg("catalog has no entry for title")
		return nil, nil
	}

	resolvedURL := joinURL(d.catalogDomain, href)
	stream := d.newStream(ctx, resolvedURL, models.SortByFitness, 0)

	var best *models.SubtitleRecord
	bestScore := 0
	for stream.Next() {
		record := stream.Record()
		score, err := scorer.Score(record, decomposed)
		if err != nil {
			logger.Warn().Err(err).Int("id", record.ID).Msg("could not score record against decomposed file")
			continue
		}
		if score > bestScore {
			bestScore = score
			copied := record
			best = &copied
		}
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}

	if best == nil {
		logger.Info().Str("title", animeTitle).Msg("no record scored above 0")
		return nil, nil
	}
	return best, nil
}

func (d *Driver) resolveCatalogURL(ctx context.Context, title, season, year string) (string, error) {
	letter := catalogLetter(title)
	endpoint := fmt.Sprintf("%s/katalog.php?litera=%s", d.catalogDomain, letter)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", apperrors.NewTransportError(endpoint, err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewTransportError(endpoint, err)
	}
	defer resp.Body.Close()

	scraper := catalog.NewScraper(title, season, year)
	if err := feedInChunks(resp.Body, scraper.Feed); err != nil {
		return "", apperrors.NewTransportError(endpoint, err)
	}

	href, _ := scraper.Result()
	return href, nil
}

// catalogLetter returns the catalog page key for title: the first letter or
// digit of title as given, uppercased. The title is not normalized first,
// so a leading accented or non-Latin letter is used as is, not folded to
// Latin.
func catalogLetter(title string) string {
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return strings.ToUpper(string(r))
		}
	}
	return "A"
}

func joinURL(domain, href string) string {
	return domain + "/" + strings.TrimLeft(href, "/")
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

// feedInChunks streams r in feedChunkSize pieces into feed, the way the
// driver presents page bodies to the chunk-fed scrapers.
func feedInChunks(r io.Reader, feed func([]byte) (string, bool)) error {
	buf := make([]byte, feedChunkSize)
	reader := bufio.NewReader(r)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if _, done := feed(buf[:n]); done {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
