package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/aopsharvest/internal/model"
)

// Fetcher downloads problem pages.
// It is safe for concurrent use; every harvest unit shares one Fetcher.
type Fetcher struct {
	// client performs the requests. The zero-timeout default client never
	// gives up on a stalled request.
	client *http.Client

	// baseURL is the wiki index used by FetchPage.
	baseURL string

	// userAgent is sent when non-empty; otherwise the transport default is used.
	userAgent string

	// maxBodySize limits how many bytes of a response are read.
	// Zero means unlimited.
	maxBodySize int64

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithBaseURL sets the wiki index used by FetchPage.
// An empty value keeps DefaultBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(f *Fetcher) {
		if baseURL != "" {
			f.baseURL = baseURL
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the largest accepted response body in bytes.
// Zero means unlimited.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Fetcher with the given options.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  NewHTTPClient(0),
		baseURL: DefaultBaseURL,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// URL returns the page URL for (year, number, variant) under the
// fetcher's base URL.
func (f *Fetcher) URL(year, number int, variant model.Variant) string {
	return BuildURLWithBase(f.baseURL, year, number, variant)
}

// FetchPage downloads the page for one problem.
func (f *Fetcher) FetchPage(ctx context.Context, year, number int, variant model.Variant) (model.FetchedPage, error) {
	pageURL := f.URL(year, number, variant)

	markup, err := f.Fetch(ctx, pageURL)
	if err != nil {
		return model.FetchedPage{}, err
	}

	return model.FetchedPage{
		Year:   year,
		Number: number,
		URL:    pageURL,
		Markup: markup,
	}, nil
}

// Fetch issues one GET for pageURL and returns the body decoded to UTF-8.
// Any failure, including a non-2xx status, is returned as *TransportError.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &TransportError{URL: pageURL, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	f.logger.Debug("fetching page", "url", pageURL)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &TransportError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // best effort
		return "", &TransportError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	raw, err := f.readBody(resp.Body)
	if err != nil {
		return "", &TransportError{URL: pageURL, Err: err}
	}

	decoded, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &TransportError{URL: pageURL, Err: err}
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", &TransportError{URL: pageURL, Err: err}
	}

	f.logger.Debug("fetched page", "url", pageURL, "bytes", len(data))
	return string(data), nil
}

// readBody reads the whole response body. A body larger than maxBodySize
// fails with ErrBodyTooLarge rather than being cut short.
func (f *Fetcher) readBody(body io.Reader) ([]byte, error) {
	if f.maxBodySize <= 0 {
		return io.ReadAll(body)
	}

	raw, err := io.ReadAll(io.LimitReader(body, f.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > f.maxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.maxBodySize)
	}
	return raw, nil
}
