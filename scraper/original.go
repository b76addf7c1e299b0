package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// OriginalExtract holds the fields parsed from an original-text page. Any
// field the page lacks is the empty string.
type OriginalExtract struct {
	BodyText string
	Author   string
	Era      string
}

// ParseOriginalPage extracts the body text, author and era from an
// original-text page. It always succeeds; callers only reach an original
// page through a translation page that links to it.
func ParseOriginalPage(doc *goquery.Document, cfg OriginalConfig) *OriginalExtract {
	extract := &OriginalExtract{}

	if body := doc.Find(cfg.BodySelector).First(); body.Length() > 0 {
		extract.BodyText = compactText(body.Get(0))
	}

	extract.Author = strings.TrimSpace(doc.Find(cfg.AuthorSelector).First().Text())
	extract.Era = strings.TrimSpace(doc.Find(cfg.EraSelector).First().Text())

	return extract
}
