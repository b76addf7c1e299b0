package scraper

import "regexp"

// Config defines where the fields of a translation page and an original
// page live in the markup, and which marker phrases delimit sections of
// free text.
type Config struct {
	Translation TranslationConfig `json:"translation"`
	Original    OriginalConfig    `json:"original"`
}

// TranslationConfig locates the fields of a "translation and annotations"
// page.
type TranslationConfig struct {
	HeadingSelector      string `json:"heading_selector"`
	BreadcrumbSelector   string `json:"breadcrumb_selector"`
	ContentSelector      string `json:"content_selector"`
	NotesHeadingSelector string `json:"notes_heading_selector"`

	// PageMarker must appear in the heading for the page to be parsed at
	// all. It is also stripped from the breadcrumb title.
	PageMarker        string `json:"page_marker"`
	TranslationMarker string `json:"translation_marker"`
	NotesMarker       string `json:"notes_marker"`
	AuthorMarker      string `json:"author_marker"`

	// TitleFallback is a fmt format taking the translation id, used when
	// the page has no breadcrumb trail.
	TitleFallback string `json:"title_fallback"`

	// SourceIDPattern is matched against the href of the second-to-last
	// breadcrumb link. Its first capture group is the source document id.
	SourceIDPattern *regexp.Regexp `json:"-"`
}

// OriginalConfig locates the fields of an original-text page.
type OriginalConfig struct {
	BodySelector   string `json:"body_selector"`
	AuthorSelector string `json:"author_selector"`
	EraSelector    string `json:"era_selector"`
}

// DefaultConfig returns the selectors and markers used by the
// fanti.dugushici.com prose pages.
func DefaultConfig() Config {
	return Config{
		Translation: TranslationConfig{
			HeadingSelector:      "div.section1 h1",
			BreadcrumbSelector:   "div.breadcrumbs a",
			ContentSelector:      "div.shangxicont",
			NotesHeadingSelector: "strong",
			PageMarker:           "譯文及註釋",
			TranslationMarker:    "譯文",
			NotesMarker:          "註釋",
			AuthorMarker:         "作者",
			TitleFallback:        "詩詞_%d",
			SourceIDPattern:      regexp.MustCompile(`/ancient_proses/(\d+)`),
		},
		Original: OriginalConfig{
			BodySelector:   "div.content",
			AuthorSelector: `[itemprop="author"] span[itemprop="name"]`,
			EraSelector:    `[itemprop="dateCreated"]`,
		},
	}
}
