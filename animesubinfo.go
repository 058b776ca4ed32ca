// Package animesubinfo is the high-level client for the legacy
// animesub.info catalog: searching, finding the best match for a video
// file name, and downloading/extracting the matched subtitle archive.
package animesubinfo

import (
	"context"

	"github.com/animesubinfo/animesubinfo/internal/config"
	"github.com/animesubinfo/animesubinfo/internal/download"
	"github.com/animesubinfo/animesubinfo/internal/httpclient"
	"github.com/animesubinfo/animesubinfo/internal/models"
	"github.com/animesubinfo/animesubinfo/internal/searchdriver"
)

// Re-exported data types, so a caller only needs to import this one package
// for the common case.
type (
	SubtitleRecord     = models.SubtitleRecord
	SubtitleRating     = models.Rating
	SessionToken       = models.SessionToken
	ExtractedSubtitle  = models.ExtractedSubtitle
	DecomposedFileName = models.DecomposedFileName
	Attribute          = models.Attribute
	SortBy             = models.SortBy
	TitleType          = models.TitleType
	DownloadHandle     = download.Handle
)

const (
	SortByFitness        = models.SortByFitness
	SortByDateDescending = models.SortByDateDescending
	SortByPopularity     = models.SortByPopularity

	TitleTypeOriginal = models.TitleTypeOriginal
	TitleTypeEnglish  = models.TitleTypeEnglish
	TitleTypePolish   = models.TitleTypePolish
	TitleTypeJapanese = models.TitleTypeJapanese
)

// Client is the entry point for every catalog operation: searching,
// matching a video file name, and downloading/extracting the result.
type Client struct {
	driver   *searchdriver.Driver
	pipeline *download.Pipeline
}

// New builds a Client against cfg's catalog domain, using a shared HTTP
// client configured with cfg's timeout and with compression support.
func New(cfg *config.Config) *Client {
	httpClient := httpclient.NewClient(cfg)
	return &Client{
		driver:   searchdriver.NewDriver(httpClient, cfg.CatalogDomain),
		pipeline: download.NewPipeline(httpClient, cfg.CatalogDomain),
	}
}

// NewDefault builds a Client from the process-wide configuration loaded at
// startup (config.yaml / APP_-prefixed environment variables).
func NewDefault() *Client {
	return New(config.GetConfig())
}

// Search streams every result page for title, applying sortBy/titleType and
// stopping after pageLimit pages (0 for no limit).
func (c *Client) Search(ctx context.Context, title string, sortBy SortBy, titleType TitleType, pageLimit int) *searchdriver.Stream {
	return c.driver.Search(ctx, title, sortBy, titleType, pageLimit)
}

// ParseSortBy maps a literal site query value (as accepted by the --sort
// CLI flag) back to a SortBy.
func ParseSortBy(s string) (SortBy, bool) {
	return models.ParseSortBy(s)
}

// ParseTitleType maps a literal site query value (as accepted by the
// --type CLI flag) back to a TitleType.
func ParseTitleType(s string) (TitleType, bool) {
	return models.ParseTitleType(s)
}

// FindBest decomposes fileOrDecomposed (a file name string or an already
// decomposed models.DecomposedFileName), resolves it to a catalog entry,
// and returns the best-scoring record, or nil if none scored above 0.
func (c *Client) FindBest(ctx context.Context, fileOrDecomposed any) (*SubtitleRecord, error) {
	return c.driver.FindBest(ctx, fileOrDecomposed)
}

// Download resolves a fresh SessionToken for subtitleID by its bare id
// (searching by its decimal string, since no title is known) and streams
// its archive.
func (c *Client) Download(ctx context.Context, subtitleID int) (*DownloadHandle, error) {
	return c.pipeline.Download(ctx, subtitleID)
}

// DownloadRecord is like Download but resolves the SessionToken by
// re-searching for record's title, which is more reliable than searching by
// a bare id. Prefer this when record came from Search or FindBest.
func (c *Client) DownloadRecord(ctx context.Context, record SubtitleRecord) (*DownloadHandle, error) {
	return c.pipeline.DownloadRecord(ctx, record)
}

// DownloadAndExtract downloads record's archive and returns the entry best
// matching fileOrDecomposed.
func (c *Client) DownloadAndExtract(ctx context.Context, fileOrDecomposed any, record SubtitleRecord) (ExtractedSubtitle, error) {
	return c.pipeline.DownloadAndExtract(ctx, fileOrDecomposed, record)
}
