// Package fetch loads source pages and waits until their content is ready to extract.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"mlbstats/internal/config"
)

var ErrNotReady = errors.New("page content not ready")

type Fetcher struct {
	userAgent string
	timeout   time.Duration
	attempts  int
	interval  time.Duration
	transport http.RoundTripper
	limiter   *RateLimiter
	log       *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	attempts := cfg.ReadyAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return &Fetcher{
		userAgent: cfg.UserAgent,
		timeout:   time.Duration(cfg.FetchTimeoutMs) * time.Millisecond,
		attempts:  attempts,
		interval:  time.Duration(cfg.ReadyIntervalMs) * time.Millisecond,
		limiter:   NewRateLimiter(cfg.FetchRPS),
		log:       log,
	}
}

// WithTransport swaps the HTTP transport, for tests and proxies.
func (f *Fetcher) WithTransport(rt http.RoundTripper) *Fetcher {
	f.transport = rt
	return f
}

// Fetch loads url and checks ready against the parsed document. Until ready holds the page is
// reloaded after the configured interval, up to the configured number of attempts. A failed
// load is returned at once; only missing content is waited for.
func (f *Fetcher) Fetch(ctx context.Context, url string, ready func(*goquery.Document) bool) (*goquery.Document, error) {
	for attempt := 1; ; attempt++ {
		doc, err := f.load(ctx, url)
		if err != nil {
			return nil, err
		}
		if ready == nil || ready(doc) {
			return doc, nil
		}
		if attempt >= f.attempts {
			return nil, fmt.Errorf("%w after %d attempts: %s", ErrNotReady, attempt, url)
		}

		f.log.Debug("page not ready, waiting", zap.String("url", url), zap.Int("attempt", attempt), zap.Duration("interval", f.interval))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.interval):
		}
	}
}

func (f *Fetcher) load(ctx context.Context, url string) (*goquery.Document, error) {
	if err := f.limiter.WaitTurn(ctx); err != nil {
		return nil, err
	}

	opts := []colly.CollectorOption{
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	}
	if f.userAgent != "" {
		opts = append(opts, colly.UserAgent(f.userAgent))
	}
	c := colly.NewCollector(opts...)
	if f.timeout > 0 {
		c.SetRequestTimeout(f.timeout)
	}
	if f.transport != nil {
		c.WithTransport(f.transport)
	}

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := c.Visit(url); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if body == nil {
		return nil, fmt.Errorf("fetching %s: empty response", url)
	}

	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return goquery.NewDocumentFromNode(root), nil
}
