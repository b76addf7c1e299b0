package discovery

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
)

// RobotsChecker answers whether a URL may be fetched according to its
// host's robots.txt. Each host's file is fetched once per checker.
type RobotsChecker struct {
	client    *resty.Client
	userAgent string
	log       logrus.FieldLogger
	cache     map[string]*robotstxt.RobotsData // keyed by scheme://host
}

// NewRobotsChecker creates a checker that fetches robots.txt with client.
func NewRobotsChecker(client *resty.Client, userAgent string, log logrus.FieldLogger) *RobotsChecker {
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		log:       log,
		cache:     make(map[string]*robotstxt.RobotsData),
	}
}

// IsAllowed reports whether rawURL may be fetched. A robots.txt that cannot
// be fetched or parsed allows everything; a missing one (4xx) allows
// everything and a failing one (5xx) allows nothing.
func (r *RobotsChecker) IsAllowed(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Host == "" {
		return false, fmt.Errorf("failed to check robots.txt: no host in %q", rawURL)
	}

	key := parsed.Scheme + "://" + strings.ToLower(parsed.Host)
	data, ok := r.cache[key]
	if !ok {
		data = r.load(ctx, key)
		r.cache[key] = data
	}

	if data == nil {
		return true, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, r.userAgent), nil
}

// load fetches and parses robots.txt under base. It returns nil when the
// file is unavailable or unparseable.
func (r *RobotsChecker) load(ctx context.Context, base string) *robotstxt.RobotsData {
	robotsURL := base + "/robots.txt"

	res, err := r.client.R().
		SetContext(ctx).
		Get(robotsURL)
	if err != nil {
		r.log.WithField("url", robotsURL).Warnf("unable to fetch robots.txt: %v", err)
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(res.StatusCode(), res.Body())
	if err != nil {
		r.log.WithField("url", robotsURL).Warnf("unable to parse robots.txt: %v", err)
		return nil
	}

	return data
}
