package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// MaxDocumentSize bounds how much of a remote document is read.
const MaxDocumentSize = 16 << 20

var ErrDocumentTooLarge = errors.New("openapi document exceeds size limit")

// IsURL reports whether a document argument names a remote document instead of a file.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// NormalizeURL cleans a document URL so the same document is always fetched (and labelled) the
// same way. The fragment is dropped; it never reaches the server.
func NormalizeURL(raw string) string {
	clean, err := purell.NormalizeURLString(raw, purell.FlagsSafe|purell.FlagRemoveFragment|purell.FlagRemoveDuplicateSlashes)
	if err != nil {
		return raw
	}
	return clean
}

// retryLogger demotes retryablehttp's per-attempt errors to warnings, since they are retried.
type retryLogger struct {
	inner *slog.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...any) { l.inner.Warn(msg, keysAndValues...) }
func (l retryLogger) Warn(msg string, keysAndValues ...any)  { l.inner.Warn(msg, keysAndValues...) }
func (l retryLogger) Info(msg string, keysAndValues ...any)  { l.inner.Debug(msg, keysAndValues...) }
func (l retryLogger) Debug(msg string, keysAndValues ...any) { l.inner.Debug(msg, keysAndValues...) }

type FetchOption func(*retryablehttp.Client)

func WithMaxRetries(n int) FetchOption {
	return func(c *retryablehttp.Client) {
		c.RetryMax = n
	}
}

func WithRetryWait(min, max time.Duration) FetchOption {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = min
		c.RetryWaitMax = max
	}
}

// Fetcher downloads remote documents, retrying connection errors and 5xx responses.
type Fetcher struct {
	client *http.Client
}

// NewFetcher builds a fetcher with short CLI-friendly timeouts. Requests are traced.
func NewFetcher(logger *slog.Logger, opts ...FetchOption) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Transport = otelhttp.NewTransport(cleanhttp.DefaultPooledTransport())
	rc.RetryMax = 2
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = retryablehttp.LeveledLogger(retryLogger{inner: logger.With("system", "fetch")})
	for _, opt := range opts {
		opt(rc)
	}

	client := rc.StandardClient()
	client.Timeout = 30 * time.Second
	return &Fetcher{client: client}
}

// Fetch downloads and parses the document at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	u := NormalizeURL(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/yaml, application/json;q=0.9, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", u, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}
	if len(b) > MaxDocumentSize {
		return nil, fmt.Errorf("%s: %w", u, ErrDocumentTooLarge)
	}

	doc, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u, err)
	}
	return doc, nil
}
