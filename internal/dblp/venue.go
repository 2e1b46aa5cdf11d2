package dblp

import "context"

// VenueInfo describes a publication venue. Transient: looked up per call and
// not stored.
type VenueInfo struct {
	Venue   string `json:"venue"`
	Acronym string `json:"acronym"`
	Type    string `json:"type"`
	URL     string `json:"url"`
}

// LookupVenue fetches information about a publication venue using the DBLP
// venue search endpoint. A query with no hits returns a zero VenueInfo and
// no error.
func (c *Client) LookupVenue(ctx context.Context, name string) (VenueInfo, error) {
	c.log.Info().Str("venue", name).Msg("venue lookup")

	hits, err := c.VenueHits(ctx, name, 1)
	if err != nil {
		return VenueInfo{}, err
	}
	if len(hits) == 0 {
		c.log.Warn().Str("venue", name).Msg("no venue found")
		return VenueInfo{}, nil
	}

	info := hits[0].Info
	return VenueInfo{
		Venue:   info.Venue.String(),
		Acronym: info.Acronym,
		Type:    info.Type,
		URL:     info.URL,
	}, nil
}
