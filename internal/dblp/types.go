package dblp

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DBLP returns "object-or-array" JSON in several places: a single hit is an
// object while multiple hits are an array, and the same goes for authors and
// for some string fields (title, venue, ee). The flexible types below coerce
// everything to a uniform shape at ingestion and never fail: unparseable
// values decode to zero values.

// searchEnvelope is the JSON envelope shared by the publication and venue
// search endpoints.
type searchEnvelope struct {
	Result struct {
		Hits struct {
			Total string          `json:"@total"`
			Hit   json.RawMessage `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

// Hit is one raw search hit.
type Hit struct {
	ID   string  `json:"@id"`
	Key  string  `json:"key"`
	Info HitInfo `json:"info"`
}

// HitInfo carries the bibliographic fields of a hit.
type HitInfo struct {
	Title   flexString `json:"title"`
	Authors authorList `json:"authors"`
	Venue   flexString `json:"venue"`
	Year    flexString `json:"year"`
	Type    string     `json:"type"`
	Key     string     `json:"key"`
	DOI     string     `json:"doi"`
	EE      flexString `json:"ee"`
	URL     string     `json:"url"`

	// Acronym is only populated by the venue endpoint.
	Acronym string `json:"acronym"`
}

// decodeHits parses a search envelope body into a hit list. The hit field may
// be an object, an array, or absent.
func decodeHits(body []byte) ([]Hit, int, error) {
	var env searchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, err
	}

	total, _ := strconv.Atoi(env.Result.Hits.Total)

	raw := env.Result.Hits.Hit
	if len(raw) == 0 || string(raw) == "null" {
		return nil, total, nil
	}

	var hits []Hit
	if err := json.Unmarshal(raw, &hits); err == nil {
		return hits, total, nil
	}

	var single Hit
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, total, err
	}
	return []Hit{single}, total, nil
}

// flexString decodes a JSON value that may be a string, a number, an array of
// strings, or an object with a "text" attribute.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	*f = flexString(coerceString(data))
	return nil
}

func (f flexString) String() string {
	return string(f)
}

// authorList decodes the {"author": object|string|array} shape into an
// ordered sequence of display names, preserving source order.
type authorList []string

func (a *authorList) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Author json.RawMessage `json:"author"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		*a = nil
		return nil
	}

	raw := wrapper.Author
	if len(raw) == 0 || string(raw) == "null" {
		*a = nil
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// Single author object or string.
		items = []json.RawMessage{raw}
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, coerceString(item))
	}
	*a = names
	return nil
}

// coerceString extracts a display string from a raw JSON value: a string is
// used as-is, an object contributes its "text" attribute, an array is joined
// with ", ", and a number is formatted. Anything else yields "".
func coerceString(data []byte) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}

	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Text != "" {
		return obj.Text
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if p := coerceString(item); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ", ")
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		return n.String()
	}

	return ""
}
