package dblp

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity returns a normalized string-similarity ratio in [0, 1] between
// two strings, computed on their case-folded forms. It is symmetric and
// returns 1.0 exactly when the case-folded strings are identical.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// bestAuthorSimilarity returns the maximum similarity between a name and any
// author string of a publication.
func bestAuthorSimilarity(name string, p Publication) float64 {
	best := 0.0
	for _, a := range p.Authors {
		if r := Similarity(name, a); r > best {
			best = r
		}
	}
	return best
}

// FreqEntry is one bucket of a frequency breakdown.
type FreqEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// AuthorStats aggregates the surviving filtered result set of an author query.
type AuthorStats struct {
	Venues []FreqEntry    `json:"venues"` // top 5 by frequency
	Years  []FreqEntry    `json:"years"`  // top 5 by frequency
	Types  map[string]int `json:"types"`  // full breakdown
}

// AuthorResult is the output of AuthorPublications.
type AuthorResult struct {
	Name             string        `json:"name"`
	PublicationCount int           `json:"publication_count"`
	Publications     []Publication `json:"publications"`
	Stats            AuthorStats   `json:"stats"`
}

// AuthorPublications retrieves publications for an author with fuzzy name
// matching: up to 2*maxResults candidates are fetched with an author:
// qualifier, then each candidate is kept iff its best author-name similarity
// to name reaches threshold.
func (c *Client) AuthorPublications(ctx context.Context, name string, threshold float64, maxResults int, includeCitations bool) AuthorResult {
	if maxResults <= 0 {
		maxResults = 20
	}
	c.log.Info().Str("author", name).Float64("threshold", threshold).Msg("author publication search")

	candidates := c.Search(ctx, "author:"+name, SearchOptions{MaxResults: maxResults * 2})

	var kept []Publication
	for _, p := range candidates {
		if bestAuthorSimilarity(name, p) >= threshold {
			kept = append(kept, p)
		}
	}
	if len(kept) > maxResults {
		kept = kept[:maxResults]
	}

	if includeCitations {
		c.attachCitations(ctx, kept)
	}

	venues := make(map[string]int)
	years := make(map[string]int)
	types := make(map[string]int)
	for _, p := range kept {
		venues[p.Venue]++
		if y, ok := p.YearValue(); ok {
			years[strconv.Itoa(y)]++
		} else {
			years[""]++
		}
		types[p.Type]++
	}

	if kept == nil {
		kept = []Publication{}
	}
	return AuthorResult{
		Name:             name,
		PublicationCount: len(kept),
		Publications:     kept,
		Stats: AuthorStats{
			Venues: topFrequencies(venues, 5),
			Years:  topFrequencies(years, 5),
			Types:  types,
		},
	}
}

// FuzzyTitleSearch searches for publications by approximate title match.
//
// DBLP's own relevance ranking does not prioritize title closeness, so a
// single retrieval under-recalls; two strategies are unioned instead: a
// title:-qualified query capped at 3*maxResults and an unqualified query
// capped at 2*maxResults, both under the same year/venue filters. Candidates
// are deduplicated by first-seen exact title, scored by title similarity,
// filtered by threshold, and sorted by descending score (stable, so ties
// keep first-seen order).
func (c *Client) FuzzyTitleSearch(ctx context.Context, title string, threshold float64, opts SearchOptions) []Publication {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	c.log.Info().Str("title", title).Float64("threshold", threshold).Msg("fuzzy title search")

	base := SearchOptions{
		YearFrom:    opts.YearFrom,
		YearTo:      opts.YearTo,
		VenueFilter: opts.VenueFilter,
	}

	var candidates []Publication
	seenTitles := make(map[string]bool)
	merge := func(pubs []Publication) {
		for _, p := range pubs {
			if seenTitles[p.Title] {
				continue
			}
			seenTitles[p.Title] = true
			candidates = append(candidates, p)
		}
	}

	qualified := base
	qualified.MaxResults = maxResults * 3
	merge(c.Search(ctx, "title:"+title, qualified))

	unqualified := base
	unqualified.MaxResults = maxResults * 2
	merge(c.Search(ctx, title, unqualified))

	var scored []Publication
	for _, p := range candidates {
		ratio := Similarity(title, p.Title)
		if ratio < threshold {
			continue
		}
		score := ratio
		p.Similarity = &score
		scored = append(scored, p)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Similarity > *scored[j].Similarity
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}

	if opts.IncludeCitations {
		c.attachCitations(ctx, scored)
	}

	return scored
}

// topFrequencies returns the n most frequent buckets, ordered by descending
// count with ties broken by value for deterministic output.
func topFrequencies(counts map[string]int, n int) []FreqEntry {
	entries := make([]FreqEntry, 0, len(counts))
	for v, c := range counts {
		entries = append(entries, FreqEntry{Value: v, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Value < entries[j].Value
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
