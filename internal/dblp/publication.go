// Package dblp queries the public DBLP bibliography API: publication search
// with boolean-OR queries and post-retrieval filters, fuzzy author and title
// matching, venue lookup, and citation-record retrieval by persistent key.
package dblp

// Publication is one normalized bibliographic record built from a DBLP
// search hit. Records are constructed by Normalize and not mutated afterwards
// except to attach Similarity or Citation.
type Publication struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Venue   string   `json:"venue"`
	Year    *int     `json:"year"`
	Type    string   `json:"type,omitempty"`
	DOI     string   `json:"doi,omitempty"`
	EE      string   `json:"ee,omitempty"` // electronic edition link
	URL     string   `json:"url,omitempty"`

	// Key is the DBLP persistent key, usable to re-fetch the full citation
	// record. Empty when the hit carried no URL, key, or @id field.
	Key string `json:"key,omitempty"`

	// Similarity is attached by the fuzzy title search.
	Similarity *float64 `json:"similarity,omitempty"`

	// Citation holds the raw citation-record text when requested.
	Citation string `json:"bibtex,omitempty"`

	// Error is set on synthetic records that stand in for a failed subquery.
	Error string `json:"error,omitempty"`
}

// IsError reports whether the record is a synthetic error record produced in
// place of results for a failed subquery.
func (p Publication) IsError() bool {
	return p.Error != ""
}

// YearValue returns the publication year and whether one is known.
func (p Publication) YearValue() (int, bool) {
	if p.Year == nil {
		return 0, false
	}
	return *p.Year, true
}
