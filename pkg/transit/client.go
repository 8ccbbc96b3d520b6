package transit

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is the public Deutsche Bahn instance of hafas-rest-api.
const DefaultEndpoint = "https://v6.db.transport.rest"

// DefaultUserAgent identifies this client; public APIs often block the
// default Go user agent.
const DefaultUserAgent = "transitctl/1.0 (+https://github.com/jb381/transitctl)"

// Options configures a Client. It is read once by NewClient.
type Options struct {
	Endpoint  string
	UserAgent string
	// OverrideUserAgent lets a User-Agent in Headers replace UserAgent.
	// Without it a caller supplied User-Agent is dropped.
	OverrideUserAgent bool
	// Identifier is sent as X-Identifier on every request unless a call
	// supplies its own.
	Identifier string
	Headers    http.Header
	// TimeEncoding selects how the target API version encodes timestamps.
	TimeEncoding TimeEncoding
	// Paths are the route templates; empty entries fall back to DefaultPaths.
	Paths Paths
	// Location is the zone numeric timestamps are rendered in. Nil means UTC.
	Location *time.Location
	// StrictValidation enables range checks on coordinates, result counts
	// and bounding boxes on top of the always-on presence checks.
	StrictValidation bool
	// HTTPClient defaults to a client without timeout; callers wanting
	// bounded latency pass their own or use context deadlines.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// DefaultOptions returns the settings for the v6 DB endpoint.
func DefaultOptions() Options {
	return Options{
		Endpoint:     DefaultEndpoint,
		UserAgent:    DefaultUserAgent,
		TimeEncoding: EncodingISO8601,
		Paths:        DefaultPaths(),
	}
}

// Client interacts with a hafas-rest-api deployment. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	endpoint          *url.URL
	userAgent         string
	overrideUserAgent bool
	identifier        string
	headers           http.Header
	paths             Paths
	strict            bool
	httpClient        *http.Client
	logger            *slog.Logger
	builder           QueryBuilder
	normalizer        Normalizer
}

// NewClient validates opts and builds a Client.
func NewClient(opts Options) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: need an absolute http(s) URL", endpoint)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""

	switch opts.TimeEncoding {
	case EncodingISO8601, EncodingUnixSeconds, EncodingUnixMillis:
	default:
		return nil, fmt.Errorf("invalid time encoding %v", opts.TimeEncoding)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		endpoint:          u,
		userAgent:         userAgent,
		overrideUserAgent: opts.OverrideUserAgent,
		identifier:        opts.Identifier,
		headers:           opts.Headers.Clone(),
		paths:             fillPaths(opts.Paths),
		strict:            opts.StrictValidation,
		httpClient:        httpClient,
		logger:            logger,
		builder:           QueryBuilder{Encoding: opts.TimeEncoding, Strict: opts.StrictValidation},
		normalizer:        Normalizer{Encoding: opts.TimeEncoding, Location: opts.Location},
	}, nil
}

// Endpoint returns the base URL requests are sent to.
func (c *Client) Endpoint() string { return c.endpoint.String() }

// TimeEncoding returns the timestamp encoding chosen at construction.
func (c *Client) TimeEncoding() TimeEncoding { return c.normalizer.Encoding }

// BuildQuery flattens params the way every operation does.
func (c *Client) BuildQuery(params Params) (Query, string, error) {
	return c.builder.Build(params)
}

// Normalize applies the client's timestamp normalization to a raw document.
func (c *Client) Normalize(raw []byte, shape Shape) (Normalized, error) {
	return c.normalizer.Normalize(raw, shape)
}

func fillPaths(p Paths) Paths {
	defaults := DefaultPaths()
	fill := func(dst *string, fallback string) {
		if *dst == "" {
			*dst = fallback
		}
	}
	fill(&p.Locations, defaults.Locations)
	fill(&p.Nearby, defaults.Nearby)
	fill(&p.Stations, defaults.Stations)
	fill(&p.Station, defaults.Station)
	fill(&p.Departures, defaults.Departures)
	fill(&p.Arrivals, defaults.Arrivals)
	fill(&p.Lines, defaults.Lines)
	fill(&p.Line, defaults.Line)
	fill(&p.Journeys, defaults.Journeys)
	fill(&p.Refresh, defaults.Refresh)
	fill(&p.Trip, defaults.Trip)
	fill(&p.Map, defaults.Map)
	fill(&p.Radar, defaults.Radar)
	fill(&p.JourneysWhen, defaults.JourneysWhen)
	return p
}
