package dblp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// SearchBaseURL is the DBLP publication search endpoint.
	SearchBaseURL = "https://dblp.org/search/publ/api"

	// VenueBaseURL is the DBLP venue search endpoint.
	VenueBaseURL = "https://dblp.org/search/venue/api"

	// RecordBaseURL is the prefix under which citation records are served.
	RecordBaseURL = "https://dblp.org/rec/"

	// RecordSuffix is the file suffix for citation-record fetches.
	RecordSuffix = ".bib"

	// DefaultTimeout is the fixed budget applied to every remote call.
	DefaultTimeout = 10 * time.Second

	// RateLimit caps outgoing requests; DBLP asks identifying clients to
	// keep a modest request rate.
	RateLimit = 10.0
)

// userAgent identifies this client to DBLP, per their API guidelines.
const userAgent = "refclerk/1.1 (+https://github.com/refclerk/refclerk)"

// Client is a rate-limited HTTP client for the DBLP API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
	timeout    time.Duration

	searchBase string
	venueBase  string
	recordBase string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
		if hc.Timeout > 0 {
			c.timeout = hc.Timeout
		}
	}
}

// WithTimeout overrides the fixed request budget.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
		c.httpClient.Timeout = d
	}
}

// WithBaseURL points every endpoint at an alternate host (for testing).
// The standard DBLP paths are appended to the given base.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		base = strings.TrimSuffix(base, "/")
		c.searchBase = base + "/search/publ/api"
		c.venueBase = base + "/search/venue/api"
		c.recordBase = base + "/rec/"
	}
}

// WithEndpoints sets the three endpoint URLs individually.
func WithEndpoints(search, venue, record string) ClientOption {
	return func(c *Client) {
		if search != "" {
			c.searchBase = search
		}
		if venue != "" {
			c.venueBase = venue
		}
		if record != "" {
			c.recordBase = record
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a new DBLP API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		log:        zerolog.Nop(),
		timeout:    DefaultTimeout,
		searchBase: SearchBaseURL,
		venueBase:  VenueBaseURL,
		recordBase: RecordBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Timeout returns the fixed per-request budget.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// RecordURL builds the canonical citation-record URL for a persistent key.
func (c *Client) RecordURL(key string) string {
	return c.recordBase + key + RecordSuffix
}

// get issues one GET request with the identifying headers and returns the
// response body. Timeouts and transport failures are classified into
// ErrTimeout / ErrRemote; non-2xx statuses become an *APIError.
func (c *Client) get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := rawURL
	if len(params) > 0 {
		reqURL = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %s", ErrTimeout, c.timeout, rawURL)
		}
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrRemote, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			URL:        rawURL,
			Message:    strings.TrimSpace(firstLine(string(body))),
		}
	}

	return body, nil
}

// searchHits queries one of the hit-envelope endpoints.
func (c *Client) searchHits(ctx context.Context, base, query string, maxHits int) ([]Hit, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("h", strconv.Itoa(maxHits))

	body, err := c.get(ctx, base, params)
	if err != nil {
		return nil, err
	}

	hits, total, err := decodeHits(body)
	if err != nil {
		// Malformed envelopes degrade to an empty result set.
		c.log.Warn().Err(err).Str("query", query).Msg("unparseable DBLP response")
		return nil, nil
	}

	c.log.Info().Int("total", total).Str("query", query).Msg("DBLP search")
	return hits, nil
}

// SearchHits fetches raw publication search hits for one query string.
func (c *Client) SearchHits(ctx context.Context, query string, maxHits int) ([]Hit, error) {
	return c.searchHits(ctx, c.searchBase, query, maxHits)
}

// VenueHits fetches raw venue search hits for one query string.
func (c *Client) VenueHits(ctx context.Context, query string, maxHits int) ([]Hit, error) {
	return c.searchHits(ctx, c.venueBase, query, maxHits)
}

// FetchText fetches a raw text body (a citation record) from the given URL.
func (c *Client) FetchText(ctx context.Context, rawURL string) (string, error) {
	body, err := c.get(ctx, rawURL, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchRecord fetches the citation-record text for a persistent key or a
// full record URL.
func (c *Client) FetchRecord(ctx context.Context, keyOrURL string) (string, error) {
	u := keyOrURL
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = c.RecordURL(keyOrURL)
	}
	return c.FetchText(ctx, u)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
