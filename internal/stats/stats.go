// Package stats computes read-only aggregates over publication lists.
package stats

import (
	"sort"

	"github.com/refclerk/refclerk/internal/dblp"
)

// EmptyVenueLabel buckets records whose venue is empty.
const EmptyVenueLabel = "(empty)"

// Freq is one bucket of a frequency breakdown.
type Freq struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Range is an inclusive year range; nil bounds mean no record carried a year.
type Range struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// Summary is a derived aggregate over a caller-supplied publication list.
// It is recomputed per call and never stored.
type Summary struct {
	TotalPublications int    `json:"total_publications"`
	TimeRange         Range  `json:"time_range"`
	TopAuthors        []Freq `json:"top_authors"`
	TopVenues         []Freq `json:"top_venues"`
}

// Compute builds a Summary from publication records: total count, min/max
// year range, and author and venue frequency lists sorted by descending
// count (ties broken by value).
func Compute(pubs []dblp.Publication) Summary {
	authors := make(map[string]int)
	venues := make(map[string]int)
	var years []int

	for _, p := range pubs {
		for _, a := range p.Authors {
			authors[a]++
		}

		if p.Venue != "" {
			venues[p.Venue]++
		} else {
			venues[EmptyVenueLabel]++
		}

		if y, ok := p.YearValue(); ok {
			years = append(years, y)
		}
	}

	s := Summary{
		TotalPublications: len(pubs),
		TopAuthors:        sortedFrequencies(authors),
		TopVenues:         sortedFrequencies(venues),
	}

	if len(years) > 0 {
		sort.Ints(years)
		min, max := years[0], years[len(years)-1]
		s.TimeRange = Range{Min: &min, Max: &max}
	}

	return s
}

func sortedFrequencies(counts map[string]int) []Freq {
	entries := make([]Freq, 0, len(counts))
	for v, c := range counts {
		entries = append(entries, Freq{Value: v, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Value < entries[j].Value
	})
	return entries
}
