// Package session dispatches named bibliographic operations for a
// line-oriented adapter. One Session owns one citation buffer; its lifetime
// defines the buffering session.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/refclerk/refclerk/internal/cite"
	"github.com/refclerk/refclerk/internal/dblp"
	"github.com/refclerk/refclerk/internal/stats"
)

// Operation names exposed to the adapter.
const (
	OpSearch              = "search"
	OpFuzzyTitleSearch    = "fuzzy_title_search"
	OpAuthorPublications  = "get_author_publications"
	OpVenueInfo           = "get_venue_info"
	OpCalculateStatistics = "calculate_statistics"
	OpAddCitationEntry    = "add_citation_entry"
	OpExportCitations     = "export_citations"
)

// DefaultThreshold is used when a fuzzy operation omits its similarity
// threshold.
const DefaultThreshold = 0.8

// Request is one operation call.
type Request struct {
	Op     string          `json:"op"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the result of one operation call. Exactly one of Result and
// Error is set.
type Response struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Session binds the query engine and one citation-buffer session together
// behind named operations. Callers serialize access; Session does no
// internal locking.
type Session struct {
	client    *dblp.Client
	manager   *cite.Manager
	exportDir string
	log       zerolog.Logger

	// now is swappable for tests of the default export filename.
	now func() time.Time
}

// New creates a Session. exportDir is used when export_citations is called
// without a path.
func New(client *dblp.Client, manager *cite.Manager, exportDir string, log zerolog.Logger) *Session {
	return &Session{
		client:    client,
		manager:   manager,
		exportDir: exportDir,
		log:       log,
		now:       time.Now,
	}
}

func errorResponse(format string, args ...any) Response {
	return Response{Error: fmt.Sprintf(format, args...)}
}

func okResponse(result any) Response {
	return Response{OK: true, Result: result}
}

// Handle executes one operation and returns its response. Validation
// failures (missing required parameters, unknown operations) are reported
// immediately without attempting any remote call.
func (s *Session) Handle(ctx context.Context, req Request) Response {
	s.log.Info().Str("op", req.Op).Msg("handling operation")

	switch req.Op {
	case OpSearch:
		return s.handleSearch(ctx, req.Params)
	case OpFuzzyTitleSearch:
		return s.handleFuzzyTitleSearch(ctx, req.Params)
	case OpAuthorPublications:
		return s.handleAuthorPublications(ctx, req.Params)
	case OpVenueInfo:
		return s.handleVenueInfo(ctx, req.Params)
	case OpCalculateStatistics:
		return s.handleCalculateStatistics(req.Params)
	case OpAddCitationEntry:
		return s.handleAddCitationEntry(ctx, req.Params)
	case OpExportCitations:
		return s.handleExportCitations(req.Params)
	default:
		return errorResponse("unknown operation: %q", req.Op)
	}
}

// decodeParams unmarshals params into dst; absent params decode every field
// to its zero value.
func decodeParams(params json.RawMessage, dst any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

type searchParams struct {
	Query            string `json:"query"`
	MaxResults       int    `json:"max_results"`
	YearFrom         int    `json:"year_from"`
	YearTo           int    `json:"year_to"`
	VenueFilter      string `json:"venue_filter"`
	IncludeCitations bool   `json:"include_citations"`
}

func (s *Session) handleSearch(ctx context.Context, params json.RawMessage) Response {
	var p searchParams
	if err := decodeParams(params, &p); err != nil {
		return errorResponse("%v", err)
	}
	if p.Query == "" {
		return errorResponse("missing required parameter: query")
	}

	results := s.client.Search(ctx, p.Query, dblp.SearchOptions{
		MaxResults:       p.MaxResults,
		YearFrom:         p.YearFrom,
		YearTo:           p.YearTo,
		VenueFilter:      p.VenueFilter,
		IncludeCitations: p.IncludeCitations,
	})
	return okResponse(results)
}

type fuzzyTitleParams struct {
	Title            string   `json:"title"`
	Threshold        *float64 `json:"similarity_threshold"`
	MaxResults       int      `json:"max_results"`
	YearFrom         int      `json:"year_from"`
	YearTo           int      `json:"year_to"`
	VenueFilter      string   `json:"venue_filter"`
	IncludeCitations bool     `json:"include_citations"`
}

func (s *Session) handleFuzzyTitleSearch(ctx context.Context, params json.RawMessage) Response {
	var p fuzzyTitleParams
	if err := decodeParams(params, &p); err != nil {
		return errorResponse("%v", err)
	}
	if p.Title == "" {
		return errorResponse("missing required parameter: title")
	}

	threshold := DefaultThreshold
	if p.Threshold != nil {
		threshold = *p.Threshold
	}

	results := s.client.FuzzyTitleSearch(ctx, p.Title, threshold, dblp.SearchOptions{
		MaxResults:       p.MaxResults,
		YearFrom:         p.YearFrom,
		YearTo:           p.YearTo,
		VenueFilter:      p.VenueFilter,
		IncludeCitations: p.IncludeCitations,
	})
	return okResponse(results)
}

type authorParams struct {
	Name             string   `json:"name"`
	Threshold        *float64 `json:"similarity_threshold"`
	MaxResults       int      `json:"max_results"`
	IncludeCitations bool     `json:"include_citations"`
}

func (s *Session) handleAuthorPublications(ctx context.Context, params json.RawMessage) Response {
	var p authorParams
	if err := decodeParams(params, &p); err != nil {
		return errorResponse("%v", err)
	}
	if p.Name == "" {
		return errorResponse("missing required parameter: name")
	}

	threshold := DefaultThreshold
	if p.Threshold != nil {
		threshold = *p.Threshold
	}

	return okResponse(s.client.AuthorPublications(ctx, p.Name, threshold, p.MaxResults, p.IncludeCitations))
}

type venueParams struct {
	VenueName string `json:"venue_name"`
}

func (s *Session) handleVenueInfo(ctx context.Context, params json.RawMessage) Response {
	var p venueParams
	if err := decodeParams(params, &p); err != nil {
		return errorResponse("%v", err)
	}
	if p.VenueName == "" {
		return errorResponse("missing required parameter: venue_name")
	}

	info, err := s.client.LookupVenue(ctx, p.VenueName)
	if err != nil {
		return errorResponse("venue lookup failed: %v", err)
	}
	return okResponse(info)
}

type statisticsParams struct {
	Results []dblp.Publication `json:"results"`
}

func (s *Session) handleCalculateStatistics(params json.RawMessage) Response {
	var p statisticsParams
	if err := decodeParams(params, &p); err != nil {
		return errorResponse("%v", err)
	}
	if p.Results == nil {
		return errorResponse("missing required parameter: results")
	}

	return okResponse(stats.Compute(p.Results))
}

type addCitationParams struct {
	Key         string `json:"key"`
	CitationKey string `json:"citation_key"`
}

func (s *Session) handleAddCitationEntry(ctx context.Context, params json.RawMessage) Response {
	var p addCitationParams
	if err := decodeParams(params, &p); err != nil {
		return errorResponse("%v", err)
	}
	if p.Key == "" {
		return errorResponse("missing required parameter: key")
	}
	if p.CitationKey == "" {
		return errorResponse("missing required parameter: citation_key")
	}

	result, err := s.manager.Add(ctx, p.Key, p.CitationKey)
	if err != nil {
		return errorResponse("%v", err)
	}
	return okResponse(result)
}

type exportParams struct {
	Path string `json:"path"`
}

func (s *Session) handleExportCitations(params json.RawMessage) Response {
	var p exportParams
	if err := decodeParams(params, &p); err != nil {
		return errorResponse("%v", err)
	}

	path := p.Path
	if path == "" {
		path = filepath.Join(s.exportDir, s.now().Format("20060102_150405")+cite.BibExtension)
	}

	result, err := s.manager.Export(path)
	if err != nil {
		return errorResponse("%v", err)
	}
	return okResponse(result)
}
