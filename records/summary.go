package records

import "sort"

// Tally is a value and the number of records carrying it.
type Tally struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary describes a set of records.
type Summary struct {
	Records          int     `json:"records"`
	Unreadable       int     `json:"unreadable"`
	EmptyBody        int     `json:"empty_body"`
	EmptyNotes       int     `json:"empty_notes"`
	TranslationLines int     `json:"translation_lines"`
	Authors          []Tally `json:"authors"`
	Eras             []Tally `json:"eras"`
}

// Summarize counts records and their most common authors and eras. At most
// top entries are kept per tally; a non-positive top keeps all of them.
// Unreadable lines from a JSONL read are counted as well.
func Summarize(result *ListResult, top int) Summary {
	s := Summary{
		Records:    len(result.Records),
		Unreadable: len(result.Errors),
	}

	authors := make(map[string]int)
	eras := make(map[string]int)
	for _, rec := range result.Records {
		if rec.BodyText == "" {
			s.EmptyBody++
		}
		if len(rec.AnnotationLines) == 0 {
			s.EmptyNotes++
		}
		s.TranslationLines += len(rec.TranslationLines)
		authors[rec.Author]++
		eras[rec.Era]++
	}

	s.Authors = rank(authors, top)
	s.Eras = rank(eras, top)
	return s
}

// rank orders counts descending, ties broken by value.
func rank(counts map[string]int, top int) []Tally {
	tallies := make([]Tally, 0, len(counts))
	for value, n := range counts {
		tallies = append(tallies, Tally{Value: value, Count: n})
	}

	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Count != tallies[j].Count {
			return tallies[i].Count > tallies[j].Count
		}
		return tallies[i].Value < tallies[j].Value
	})

	if top > 0 && len(tallies) > top {
		tallies = tallies[:top]
	}
	return tallies
}
