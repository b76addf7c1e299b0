package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
)

// ErrDisallowed is returned when robots.txt forbids fetching a page.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// StatusError reports a page that answered with something other than
// 200 OK. The crawl treats it as a skippable transport failure.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// fetchTimeout bounds a single page request.
const fetchTimeout = 10 * time.Second

// HTTPFetcher retrieves pages and parses them into goquery documents.
type HTTPFetcher struct {
	client *resty.Client
	robots *RobotsChecker
	log    logrus.FieldLogger
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithRobots makes the fetcher consult each host's robots.txt before
// requesting a page.
func WithRobots() FetcherOption {
	return func(f *HTTPFetcher) {
		f.robots = NewRobotsChecker(f.client, UserAgent, f.log)
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client.SetTimeout(d)
	}
}

// NewHTTPFetcher creates a fetcher that identifies itself with UserAgent.
// Client warnings and debug output go to log; a nil log discards them.
func NewHTTPFetcher(log logrus.FieldLogger, opts ...FetcherOption) *HTTPFetcher {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	client := resty.New().
		SetHeader("User-Agent", UserAgent).
		SetTimeout(fetchTimeout).
		SetLogger(log)

	f := &HTTPFetcher{client: client, log: log}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs pageURL and parses the body. Non-200 responses yield a
// *StatusError; a robots.txt refusal yields ErrDisallowed. Other errors are
// transport failures.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if f.robots != nil {
		allowed, err := f.robots.IsAllowed(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", pageURL, ErrDisallowed)
		}
	}

	res, err := f.client.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, &StatusError{URL: pageURL, StatusCode: res.StatusCode()}
	}

	var body io.Reader = bytes.NewReader(res.Body())
	decoded, err := charset.NewReader(body, res.Header().Get("Content-Type"))
	if err != nil {
		f.log.WithField("url", pageURL).Warnf("unable to decode body charset: %v", err)
		decoded = bytes.NewReader(res.Body())
	}

	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}
