package dblp

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultMaxResults caps a search when the caller does not supply a limit.
const DefaultMaxResults = 10

// SearchOptions control retrieval and filtering for Search.
type SearchOptions struct {
	MaxResults  int    // <=0 means DefaultMaxResults
	YearFrom    int    // 0 means unset
	YearTo      int    // 0 means unset
	VenueFilter string // case-insensitive substring match

	// IncludeCitations attaches the raw citation-record text to every
	// surviving record with a persistent key. Fetch failures leave the
	// record without citation text rather than failing the search.
	IncludeCitations bool
}

// dedupeKey identifies a record by its (title, year) pair.
type dedupeKey struct {
	title   string
	year    int
	hasYear bool
}

func recordKey(p Publication) dedupeKey {
	k := dedupeKey{title: p.Title}
	if y, ok := p.YearValue(); ok {
		k.year, k.hasYear = y, true
	}
	return k
}

// Search queries DBLP and returns an ordered, filtered, deduplicated result
// list. A query containing the token " or " (case-insensitive) is split into
// subqueries, each fetched separately; results are merged in first-seen order
// with no two records sharing a (title, year) pair.
//
// Search never fails as a whole: a timeout or remote failure for one subquery
// is captured as a synthetic error record (detectable via IsError) appended
// in place of that subquery's results.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) []Publication {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	if strings.ContainsAny(query, "()") {
		// Parentheses are not query syntax; they pass through as literals.
		c.log.Warn().Str("query", query).
			Msg("parentheses are not supported in boolean queries; treating them as literal characters")
	}

	var results []Publication
	lower := strings.ToLower(query)
	if strings.Contains(lower, " or ") {
		seen := make(map[dedupeKey]bool)
		for _, sub := range strings.Split(lower, " or ") {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			for _, p := range c.fetchPublications(ctx, sub, maxResults) {
				k := recordKey(p)
				if seen[k] {
					continue
				}
				seen[k] = true
				results = append(results, p)
			}
		}
	} else {
		results = c.fetchPublications(ctx, query, maxResults)
	}

	results = filterPublications(results, opts)
	if len(results) == 0 {
		c.log.Info().Str("query", query).Msg("no results; consider revising the query syntax")
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	if opts.IncludeCitations {
		c.attachCitations(ctx, results)
	}

	return results
}

// fetchPublications runs one remote search and normalizes every hit. Remote
// failures produce a single synthetic error record instead of an error.
func (c *Client) fetchPublications(ctx context.Context, query string, maxResults int) []Publication {
	hits, err := c.SearchHits(ctx, query, maxResults)
	if err != nil {
		c.log.Error().Err(err).Str("query", query).Msg("DBLP search failed")
		return []Publication{errorRecord(query, err, c.timeout)}
	}

	pubs := make([]Publication, 0, len(hits))
	for _, h := range hits {
		pubs = append(pubs, Normalize(h))
	}
	return pubs
}

// errorRecord builds the synthetic record that stands in for a failed
// subquery. Callers detect these by the error attribute.
func errorRecord(query string, err error, budget time.Duration) Publication {
	var title string
	if IsTimeout(err) {
		title = fmt.Sprintf("ERROR: Query %q timed out after %s", query, budget.String())
	} else {
		title = fmt.Sprintf("ERROR: DBLP API error for query %q: %v", query, err)
	}
	return Publication{
		Title:   title,
		Authors: []string{},
		Venue:   "Error",
		Error:   err.Error(),
	}
}

// filterPublications applies the year-range and venue-substring filters.
// A record with no parsed year passes the year filter silently; a record with
// an empty venue fails a set venue filter.
func filterPublications(pubs []Publication, opts SearchOptions) []Publication {
	if opts.YearFrom == 0 && opts.YearTo == 0 && opts.VenueFilter == "" {
		return pubs
	}

	kept := pubs[:0]
	for _, p := range pubs {
		if y, ok := p.YearValue(); ok {
			if opts.YearFrom != 0 && y < opts.YearFrom {
				continue
			}
			if opts.YearTo != 0 && y > opts.YearTo {
				continue
			}
		}
		if opts.VenueFilter != "" &&
			!strings.Contains(strings.ToLower(p.Venue), strings.ToLower(opts.VenueFilter)) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// attachCitations fetches the citation record for every surviving publication
// with a persistent key, under its own key (no rename on this path).
func (c *Client) attachCitations(ctx context.Context, pubs []Publication) {
	for i := range pubs {
		if pubs[i].Key == "" {
			continue
		}
		text, err := c.FetchRecord(ctx, pubs[i].Key)
		if err != nil {
			c.log.Warn().Err(err).Str("key", pubs[i].Key).Msg("citation fetch failed")
			continue
		}
		pubs[i].Citation = text
	}
}
