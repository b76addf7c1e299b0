package scraper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNotApplicable is returned when a page is not a "translation and
// annotations" page. Many ids in the crawled range host something else.
var ErrNotApplicable = errors.New("not a translation page")

// TranslationExtract holds the fields parsed from a translation page.
type TranslationExtract struct {
	TranslationID int
	Title         string
	// SourceDocumentID is nil when the breadcrumb trail does not link to
	// an original page. An empty string is never stored here.
	SourceDocumentID *string
	TranslationLines []string
	AnnotationLines  []string
	SourceURL        string
}

// Usable reports whether the extract can be merged into a record: it needs
// at least one translation line and a linked source document.
func (t *TranslationExtract) Usable() bool {
	return t != nil && len(t.TranslationLines) > 0 && t.SourceDocumentID != nil
}

// ParseTranslationPage extracts a TranslationExtract from a fetched
// translation page. It returns ErrNotApplicable when the page heading does
// not carry the page marker; any other missing node only leaves the
// corresponding field empty.
func ParseTranslationPage(
	doc *goquery.Document,
	cfg TranslationConfig,
	translationID int,
	pageURL string,
) (*TranslationExtract, error) {
	heading := doc.Find(cfg.HeadingSelector).First()
	if heading.Length() == 0 || !strings.Contains(heading.Text(), cfg.PageMarker) {
		return nil, ErrNotApplicable
	}

	extract := &TranslationExtract{
		TranslationID:    translationID,
		SourceURL:        pageURL,
		TranslationLines: []string{},
		AnnotationLines:  []string{},
	}

	crumbs := doc.Find(cfg.BreadcrumbSelector)
	extract.Title = parseTitle(crumbs, cfg, translationID)
	extract.SourceDocumentID = parseSourceID(crumbs, cfg)

	block := doc.Find(cfg.ContentSelector).First()
	if block.Length() == 0 {
		return extract, nil
	}

	raw, err := block.Html()
	if err == nil {
		extract.TranslationLines = SplitTranslation(raw, cfg)
	}
	extract.AnnotationLines = parseAnnotations(block, cfg)

	return extract, nil
}

// parseTitle takes the last breadcrumb's text without the page marker, or
// the fallback when there is no trail.
func parseTitle(crumbs *goquery.Selection, cfg TranslationConfig, translationID int) string {
	if crumbs.Length() == 0 {
		return fmt.Sprintf(cfg.TitleFallback, translationID)
	}

	title := crumbs.Last().Text()
	if cfg.PageMarker != "" {
		title = strings.ReplaceAll(title, cfg.PageMarker, "")
	}
	return strings.TrimSpace(title)
}

// parseSourceID reads the original page id out of the second-to-last
// breadcrumb link. A trail with fewer than two links, a link without href
// and an href that does not match the pattern all yield nil.
func parseSourceID(crumbs *goquery.Selection, cfg TranslationConfig) *string {
	if crumbs.Length() < 2 || cfg.SourceIDPattern == nil {
		return nil
	}

	href, ok := crumbs.Eq(crumbs.Length() - 2).Attr("href")
	if !ok {
		return nil
	}

	match := cfg.SourceIDPattern.FindStringSubmatch(href)
	if len(match) < 2 || match[1] == "" {
		return nil
	}

	id := match[1]
	return &id
}

// parseAnnotations finds the notes heading inside block and returns the
// lines of its enclosing paragraph, minus author attributions. The heading
// line itself is kept.
func parseAnnotations(block *goquery.Selection, cfg TranslationConfig) []string {
	notes := []string{}

	heading := block.Find(cfg.NotesHeadingSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), cfg.NotesMarker)
	}).First()
	if heading.Length() == 0 {
		return notes
	}

	paragraph := heading.Closest("p")
	if paragraph.Length() == 0 {
		return notes
	}

	raw, err := paragraph.Html()
	if err != nil {
		return notes
	}

	for _, line := range SplitLines(raw) {
		if cfg.AuthorMarker != "" && strings.HasPrefix(line, cfg.AuthorMarker) {
			continue
		}
		notes = append(notes, line)
	}

	return notes
}
