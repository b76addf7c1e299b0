package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/prosefed/records"
	"github.com/pevans/prosefed/scraper"
	"github.com/sirupsen/logrus"
)

const (
	// TranslationURL is the translation page template, keyed by translation
	// id.
	TranslationURL = "https://fanti.dugushici.com/ancient_proses/1/prose_translations/%d"
	// OriginalURL is the original page template, keyed by source document
	// id.
	OriginalURL = "https://fanti.dugushici.com/ancient_proses/%s"
	// UserAgent is sent with every request.
	UserAgent = "Mozilla/5.0"
	// Pause is the delay after each emitted record.
	Pause = 1 * time.Second
)

// SkipReason classifies why an id produced no record.
type SkipReason string

const (
	SkipTransport           SkipReason = "transport"
	SkipDisallowed          SkipReason = "disallowed"
	SkipNotApplicable       SkipReason = "not-applicable"
	SkipUnusable            SkipReason = "unusable"
	SkipDuplicate           SkipReason = "duplicate"
	SkipOriginalUnavailable SkipReason = "original-unavailable"
)

// Fetcher retrieves a page as a parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// Sleeper pauses between emitted records.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type contextSleeper struct{}

// Sleep waits for d or until ctx is done, whichever comes first.
func (contextSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Config holds the crawl driver's settings.
type Config struct {
	// URL templates for the two page types
	TranslationURL string
	OriginalURL    string
	// Delay after each emitted record
	Pause time.Duration
	// Selectors and markers for the page parsers
	Parsers scraper.Config
}

// DefaultConfig returns the settings for the live site.
func DefaultConfig() *Config {
	return &Config{
		TranslationURL: TranslationURL,
		OriginalURL:    OriginalURL,
		Pause:          Pause,
		Parsers:        scraper.DefaultConfig(),
	}
}

// RunResult summarizes a crawl.
type RunResult struct {
	Visited int
	Emitted int
	Skipped map[SkipReason]int
}

// SkippedTotal returns the number of ids that produced no record.
func (r *RunResult) SkippedTotal() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// String renders the result as a one-line summary.
func (r *RunResult) String() string {
	reasons := make([]string, 0, len(r.Skipped))
	for reason, n := range r.Skipped {
		reasons = append(reasons, fmt.Sprintf("%s=%d", reason, n))
	}
	sort.Strings(reasons)

	summary := fmt.Sprintf("visited %d ids, emitted %d records, skipped %d",
		r.Visited, r.Emitted, r.SkippedTotal())
	if len(reasons) > 0 {
		summary += " (" + strings.Join(reasons, ", ") + ")"
	}
	return summary
}

// Service walks a range of translation ids, pairs each usable translation
// page with its original page, and writes the merged records to a sink.
// It is strictly sequential.
type Service struct {
	fetcher Fetcher
	sink    records.Writer
	dedup   *DedupSet
	config  *Config
	log     logrus.FieldLogger
	sleeper Sleeper
}

// NewService creates a crawl driver. A nil config uses DefaultConfig, a nil
// dedup set starts empty and a nil logger discards output.
func NewService(
	fetcher Fetcher,
	sink records.Writer,
	dedup *DedupSet,
	config *Config,
	log logrus.FieldLogger,
) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	if dedup == nil {
		dedup = NewDedupSet()
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Service{
		fetcher: fetcher,
		sink:    sink,
		dedup:   dedup,
		config:  config,
		log:     log,
		sleeper: contextSleeper{},
	}
}

// SetSleeper replaces the pause implementation.
func (s *Service) SetSleeper(sleeper Sleeper) {
	s.sleeper = sleeper
}

// Run crawls every id in [startID, endID] in ascending order. Pages that
// fail or do not qualify are logged and skipped. Transport failures other
// than HTTP statuses, sink errors and cancellation stop the run; the
// partial result is returned alongside the error.
func (s *Service) Run(ctx context.Context, startID, endID int) (*RunResult, error) {
	result := &RunResult{Skipped: make(map[SkipReason]int)}

	if startID > endID {
		return result, nil
	}

	for id := startID; ; id++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Visited++
		if err := s.visit(ctx, id, result); err != nil {
			return result, err
		}

		if id == endID {
			break
		}
	}

	return result, nil
}

// visit processes a single translation id.
func (s *Service) visit(ctx context.Context, id int, result *RunResult) error {
	translationURL := fmt.Sprintf(s.config.TranslationURL, id)

	doc, err := s.fetcher.Fetch(ctx, translationURL)
	if err != nil {
		reason, skip := classifyFetchError(err)
		if !skip {
			return fmt.Errorf("failed to fetch translation %d: %w", id, err)
		}
		s.skip(result, id, reason, err)
		return nil
	}

	extract, err := scraper.ParseTranslationPage(doc, s.config.Parsers.Translation, id, translationURL)
	if errors.Is(err, scraper.ErrNotApplicable) {
		s.skip(result, id, SkipNotApplicable, nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to parse translation %d: %w", id, err)
	}

	if !extract.Usable() {
		s.skip(result, id, SkipUnusable, nil)
		return nil
	}

	sourceID := *extract.SourceDocumentID
	if s.dedup.Contains(sourceID) {
		s.skip(result, id, SkipDuplicate, nil)
		return nil
	}

	doc, err = s.fetcher.Fetch(ctx, fmt.Sprintf(s.config.OriginalURL, sourceID))
	if err != nil {
		if _, skip := classifyFetchError(err); !skip {
			return fmt.Errorf("failed to fetch original %s: %w", sourceID, err)
		}
		s.skip(result, id, SkipOriginalUnavailable, err)
		return nil
	}

	original := scraper.ParseOriginalPage(doc, s.config.Parsers.Original)
	rec := records.Merge(extract, original)

	if err := s.sink.Write(rec); err != nil {
		return fmt.Errorf("failed to write record %d: %w", id, err)
	}
	s.dedup.Add(sourceID)
	result.Emitted++

	s.log.WithFields(logrus.Fields{
		"id":          id,
		"original_id": sourceID,
		"title":       rec.Title,
	}).Info("emitted record")

	return s.sleeper.Sleep(ctx, s.config.Pause)
}

func (s *Service) skip(result *RunResult, id int, reason SkipReason, err error) {
	result.Skipped[reason]++

	entry := s.log.WithFields(logrus.Fields{"id": id, "reason": reason})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Info("skipped page")
}

// classifyFetchError reports whether err is a per-page failure the crawl
// moves past, and which reason it counts under.
func classifyFetchError(err error) (SkipReason, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return SkipTransport, true
	}
	if errors.Is(err, ErrDisallowed) {
		return SkipDisallowed, true
	}
	return "", false
}
