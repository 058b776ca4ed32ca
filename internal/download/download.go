// Package download implements DownloadPipeline: resolving a session token
// for a subtitle id, authorizing the download, and streaming the response
// body through a small Resolving -> Authorizing -> Streaming -> Closed
// state machine.
package download

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/animesubinfo/animesubinfo/internal/apperrors"
	"github.com/animesubinfo/animesubinfo/internal/archive"
	"github.com/animesubinfo/animesubinfo/internal/config"
	"github.com/animesubinfo/animesubinfo/internal/metrics"
	"github.com/animesubinfo/animesubinfo/internal/models"
	"github.com/animesubinfo/animesubinfo/internal/searchdriver"
)

// State is one of DownloadPipeline's four states.
type State int

const (
	StateResolving State = iota
	StateAuthorizing
	StateStreaming
	StateClosed
)

// Handle is a scoped view of a download in progress. The underlying HTTP
// response and socket are released exactly once, on Close, from whichever
// state the handle was in.
type Handle struct {
	Filename      string
	ContentLength int64
	Body          io.ReadCloser

	state State
	resp  *http.Response
}

// State returns the handle's current state machine position.
func (h *Handle) State() State {
	return h.state
}

// Close releases the HTTP response and underlying socket. Safe to call
// more than once.
func (h *Handle) Close() error {
	if h.state == StateClosed {
		return nil
	}
	h.state = StateClosed
	if h.resp == nil {
		return nil
	}
	return h.resp.Body.Close()
}

// Pipeline drives the per-subtitle download flow against one catalog
// domain.
type Pipeline struct {
	httpClient    *http.Client
	catalogDomain string
	driver        *searchdriver.Driver
}

// NewPipeline returns a Pipeline issuing requests against catalogDomain
// with httpClient.
func NewPipeline(httpClient *http.Client, catalogDomain string) *Pipeline {
	domain := strings.TrimRight(catalogDomain, "/")
	return &Pipeline{
		httpClient:    httpClient,
		catalogDomain: domain,
		driver:        searchdriver.NewDriver(httpClient, domain),
	}
}

// Download obtains a fresh SessionToken for subtitleID by re-searching for
// it by its numeric id (the only handle a caller given a bare id has), then
// POSTs the download request and returns a Handle streaming the response
// body. Use DownloadRecord instead when the full SubtitleRecord (and so its
// title) is already known, since searching by title resolves faster and
// more reliably than by id alone.
func (p *Pipeline) Download(ctx context.Context, subtitleID int) (*Handle, error) {
	return p.download(ctx, subtitleID, strconv.Itoa(subtitleID))
}

// DownloadRecord is like Download but resolves the SessionToken by
// re-searching for record's title rather than its bare id, which is the
// usual path when record came from a prior Search or FindBest call.
func (p *Pipeline) DownloadRecord(ctx context.Context, record models.SubtitleRecord) (*Handle, error) {
	title := record.OriginalTitle
	if title == "" {
		title = record.EnglishTitle
	}
	if title == "" {
		return p.Download(ctx, record.ID)
	}
	return p.download(ctx, record.ID, title)
}

func (p *Pipeline) download(ctx context.Context, subtitleID int, query string) (*Handle, error) {
	logger := config.GetLogger()

	token, err := p.resolveSessionToken(ctx, subtitleID, query)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/sciagnij.php", p.catalogDomain)
	form := url.Values{
		"id": {strconv.Itoa(subtitleID)},
		"sh": {token.Sh},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.NewTransportError(endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", "ansi_sciagnij="+token.Cookie)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues("transport_error").Inc()
		return nil, apperrors.NewTransportError(endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		metrics.DownloadsTotal.WithLabelValues("transport_error").Inc()
		return nil, apperrors.NewTransportError(endpoint, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	reader := bufio.NewReader(resp.Body)
	peek, _ := reader.Peek(64)
	if looksLikeHTML(resp.Header.Get("Content-Type"), peek) {
		resp.Body.Close()
		logger.Warn().Int("subtitle_id", subtitleID).Msg("download endpoint rejected the session token")
		metrics.DownloadsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.NewSecurityError(subtitleID, token.Sh, token.Cookie)
	}

	filename := parseContentDispositionFilename(resp.Header.Get("Content-Disposition"))
	if filename == "" {
		filename = fmt.Sprintf("%d.zip", subtitleID)
	}

	metrics.DownloadsTotal.WithLabelValues("ok").Inc()
	logger.Info().Int("subtitle_id", subtitleID).Str("filename", filename).Int64("content_length", resp.ContentLength).Msg("authorized subtitle download")

	return &Handle{
		Filename:      filename,
		ContentLength: resp.ContentLength,
		Body:          &readCloser{reader: reader, underlying: resp.Body},
		state:         StateStreaming,
		resp:          resp,
	}, nil
}

// DownloadAndExtract downloads record's archive and returns the single
// entry inside it that best matches fileOrDecomposed, buffering the whole
// response body (archives are small enough that streaming extraction isn't
// worth the complexity).
func (p *Pipeline) DownloadAndExtract(ctx context.Context, fileOrDecomposed any, record models.SubtitleRecord) (models.ExtractedSubtitle, error) {
	handle, err := p.DownloadRecord(ctx, record)
	if err != nil {
		return models.ExtractedSubtitle{}, err
	}
	defer handle.Close()

	content, err := io.ReadAll(handle.Body)
	if err != nil {
		return models.ExtractedSubtitle{}, apperrors.NewTransportError(handle.Filename, err)
	}

	return archive.SelectBest(content, fileOrDecomposed)
}

// resolveSessionToken drives a fresh search for query (either the record's
// title or, if unknown, its stringified id) and captures the (sh, cookie)
// pair for subtitleID from whichever page's parser produced the matching
// row. This is state: Resolving.
func (p *Pipeline) resolveSessionToken(ctx context.Context, subtitleID int, query string) (models.SessionToken, error) {
	stream := p.driver.Search(ctx, query, models.SortByFitness, models.TitleTypeOriginal, 0)
	for stream.Next() {
		candidate := stream.Record()
		if candidate.ID != subtitleID {
			continue
		}
		if token, ok := stream.SessionToken(subtitleID); ok {
			return token, nil
		}
		break
	}
	if err := stream.Err(); err != nil {
		return models.SessionToken{}, err
	}

	return models.SessionToken{}, apperrors.NewSessionDataError(subtitleID)
}

// readCloser adapts a bufio.Reader (which has already peeked the body's
// leading bytes for the HTML-rejection check) back into an io.ReadCloser
// over the original response body.
type readCloser struct {
	reader     *bufio.Reader
	underlying io.ReadCloser
}

func (r *readCloser) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

func (r *readCloser) Close() error {
	return r.underlying.Close()
}

// looksLikeHTML reports whether the response is an HTML document rather
// than an archive: either the content type says so, or the body's leading
// bytes start with "<html" (after leading whitespace).
func looksLikeHTML(contentType string, peek []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "text/html" {
		return true
	}
	trimmed := bytes.TrimSpace(peek)
	return bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<html"))
}

var contentDispositionFilename = regexp.MustCompile(`filename\*?=["']?([^;"']+)`)

// parseContentDispositionFilename extracts the filename from a
// Content-Disposition header, tolerating both quoted and bare forms.
func parseContentDispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if fn, ok := params["filename"]; ok && fn != "" {
			return fn
		}
	}
	if m := contentDispositionFilename.FindStringSubmatch(header); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
