package dblp

import (
	"strconv"
	"strings"
)

// keyNamespacePrefix is stripped from key and @id fields when extracting the
// persistent key.
const keyNamespacePrefix = "dblp:"

// Normalize converts one raw search hit into a Publication. It never fails:
// missing or malformed sub-fields degrade to empty strings or a nil year.
func Normalize(h Hit) Publication {
	p := Publication{
		Title:   h.Info.Title.String(),
		Authors: []string(h.Info.Authors),
		Venue:   h.Info.Venue.String(),
		Type:    h.Info.Type,
		DOI:     h.Info.DOI,
		EE:      h.Info.EE.String(),
		URL:     h.Info.URL,
		Key:     extractKey(h),
	}
	if p.Authors == nil {
		p.Authors = []string{}
	}

	if ys := strings.TrimSpace(h.Info.Year.String()); ys != "" {
		if y, err := strconv.Atoi(ys); err == nil {
			p.Year = &y
		}
	}

	return p
}

// extractKey determines the persistent key for a hit. Precedence: the record
// URL with its well-known prefix stripped, then an explicit key field, then
// the @id field, each candidate used only if non-empty.
func extractKey(h Hit) string {
	if h.Info.URL != "" {
		return strings.TrimPrefix(h.Info.URL, RecordBaseURL)
	}
	if k := firstNonEmpty(h.Key, h.Info.Key); k != "" {
		return strings.TrimPrefix(k, keyNamespacePrefix)
	}
	if h.ID != "" {
		return strings.TrimPrefix(h.ID, keyNamespacePrefix)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
