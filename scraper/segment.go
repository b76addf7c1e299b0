package scraper

import (
	"regexp"
	"strings"
)

// lineBreak matches the <br> tag in any of the forms a renderer may emit.
var lineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)

// section is the state of the translation splitter.
type section int

const (
	sectionOutside section = iota
	sectionTranslation
)

// SplitLines breaks raw inner markup into plain-text lines. Line breaks are
// markup-level, so the split happens on the <br> tag itself before any
// parsing. Remaining markup is stripped from each fragment, whitespace is
// trimmed and empty lines are dropped.
func SplitLines(raw string) []string {
	lines := []string{}
	for _, fragment := range lineBreak.Split(raw, -1) {
		text := strings.TrimSpace(stripMarkup(fragment))
		if text == "" {
			continue
		}
		lines = append(lines, text)
	}
	return lines
}

// SplitTranslation returns the lines between the translation marker and
// the notes marker. Marker lines themselves are never returned. Either
// marker may be missing: with no translation marker nothing is returned,
// and with no notes marker every line after the translation marker is.
func SplitTranslation(raw string, cfg TranslationConfig) []string {
	state := sectionOutside
	translation := []string{}

	for _, line := range SplitLines(raw) {
		switch {
		case strings.HasPrefix(line, cfg.TranslationMarker):
			state = sectionTranslation
		case strings.HasPrefix(line, cfg.NotesMarker):
			state = sectionOutside
		case state == sectionTranslation:
			translation = append(translation, line)
		}
	}

	return translation
}
