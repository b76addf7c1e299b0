package records

import "github.com/pevans/prosefed/scraper"

// Record is one merged translation/original pair, the unit written to the
// output stream. JSON keys match the datasets produced by earlier versions
// of the crawler.
type Record struct {
	TranslationID    int      `json:"translation_id"`
	SourceDocumentID string   `json:"original_id"`
	Title            string   `json:"title"`
	Era              string   `json:"dynasty"`
	Author           string   `json:"author"`
	BodyText         string   `json:"original_text"`
	TranslationLines []string `json:"translations"`
	AnnotationLines  []string `json:"notes"`
	SourceURL        string   `json:"translation_url"`
}

// Writer accepts finished records.
type Writer interface {
	Write(rec Record) error
}

// Merge combines a usable translation extract with the original page it
// links to. The two sources contribute disjoint fields, so this is a plain
// copy. Line slices are copied and are never nil.
func Merge(t *scraper.TranslationExtract, o *scraper.OriginalExtract) Record {
	sourceID := ""
	if t.SourceDocumentID != nil {
		sourceID = *t.SourceDocumentID
	}

	return Record{
		TranslationID:    t.TranslationID,
		SourceDocumentID: sourceID,
		Title:            t.Title,
		Era:              o.Era,
		Author:           o.Author,
		BodyText:         o.BodyText,
		TranslationLines: append([]string{}, t.TranslationLines...),
		AnnotationLines:  append([]string{}, t.AnnotationLines...),
		SourceURL:        t.SourceURL,
	}
}
