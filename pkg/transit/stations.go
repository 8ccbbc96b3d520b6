package transit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
)

// Locations searches for stops, addresses and POIs matching a text query.
func (c *Client) Locations(ctx context.Context, query string, opts *LocationsOptions) ([]Place, error) {
	if err := requireID("query", query); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &LocationsOptions{}
	}
	if err := c.checkCount("results", opts.Results); err != nil {
		return nil, err
	}

	p := opts.params()
	p["query"] = query
	setInt(p, "results", opts.Results)
	setBool(p, "fuzzy", opts.Fuzzy)
	setBool(p, "stops", opts.Stops)
	setBool(p, "addresses", opts.Addresses)
	setBool(p, "poi", opts.POI)
	setTrue(p, "linesOfStops", opts.LinesOfStops)
	setString(p, "language", opts.Language)

	doc, err := c.Do(ctx, c.paths.Locations, p, ShapeLocations)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}

	var places []Place
	if err := doc.Decode(&places); err != nil {
		return nil, err
	}
	return places, nil
}

// Nearby finds stops (and optionally POIs) around a coordinate.
func (c *Client) Nearby(ctx context.Context, at Point, opts *NearbyOptions) ([]Place, error) {
	if err := c.checkPoint("location", at); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &NearbyOptions{}
	}
	if err := c.checkCount("results", opts.Results); err != nil {
		return nil, err
	}
	if err := c.checkCount("distance", opts.Distance); err != nil {
		return nil, err
	}

	p := opts.params()
	p["latitude"] = at.Latitude
	p["longitude"] = at.Longitude
	setInt(p, "results", opts.Results)
	setInt(p, "distance", opts.Distance)
	setBool(p, "stops", opts.Stops)
	setBool(p, "poi", opts.POI)
	setTrue(p, "linesOfStops", opts.LinesOfStops)
	setString(p, "language", opts.Language)

	doc, err := c.Do(ctx, c.paths.Nearby, p, ShapeLocations)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nearby locations: %w", err)
	}

	var places []Place
	if err := doc.Decode(&places); err != nil {
		return nil, err
	}
	sortPlacesByDistance(places)
	return places, nil
}

// Stations runs an autocompletion search over stations and returns the
// matches at once.
func (c *Client) Stations(ctx context.Context, query string, opts *StationsOptions) ([]Place, error) {
	if err := requireID("query", query); err != nil {
		return nil, err
	}
	p, err := c.stationsParams(opts)
	if err != nil {
		return nil, err
	}
	p["query"] = query
	p["completion"] = true

	doc, err := c.Do(ctx, c.paths.Stations, p, ShapeStations)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stations: %w", err)
	}
	return decodePlaceList(doc)
}

// StationsStream lists stations as newline delimited JSON. An empty query
// lists every station the API knows.
func (c *Client) StationsStream(ctx context.Context, query string, opts *StationsOptions) (*Stream, error) {
	p, err := c.stationsParams(opts)
	if err != nil {
		return nil, err
	}
	setString(p, "query", query)
	return c.Stream(ctx, c.paths.Stations, p, ShapeStations)
}

// Station fetches a single stop or station by id.
func (c *Client) Station(ctx context.Context, id string, opts *CallOptions) (*Place, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}

	doc, err := c.Do(ctx, fmt.Sprintf(c.paths.Station, url.PathEscape(id)), opts.params(), ShapeStation)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station %s: %w", id, err)
	}

	var place Place
	if err := doc.Decode(&place); err != nil {
		return nil, err
	}
	return &place, nil
}

func (c *Client) stationsParams(opts *StationsOptions) (Params, error) {
	if opts == nil {
		opts = &StationsOptions{}
	}
	if err := c.checkCount("results", opts.Results); err != nil {
		return nil, err
	}
	p := opts.params()
	setInt(p, "results", opts.Results)
	setBool(p, "fuzzy", opts.Fuzzy)
	return p, nil
}

func (c *Client) checkPoint(param string, at Point) error {
	if math.IsNaN(at.Latitude) || math.IsInf(at.Latitude, 0) || math.IsNaN(at.Longitude) || math.IsInf(at.Longitude, 0) {
		return invalidArg(param, "coordinates must be finite")
	}
	if c.strict && (at.Latitude < -90 || at.Latitude > 90 || at.Longitude < -180 || at.Longitude > 180) {
		return invalidArg(param, "coordinates out of range")
	}
	return nil
}

// decodePlaceList accepts both a list of stations and an object keyed by
// station id, which some API versions return for completion searches.
func decodePlaceList(doc Normalized) ([]Place, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var byID map[string]Place
		if err := json.Unmarshal(trimmed, &byID); err != nil {
			return nil, &DecodeError{Err: err}
		}
		places := make([]Place, 0, len(byID))
		for _, id := range sortedKeys(byID) {
			places = append(places, byID[id])
		}
		return places, nil
	}

	var places []Place
	if err := doc.Decode(&places); err != nil {
		return nil, err
	}
	return places, nil
}

// unwrap returns the member key of an object document, or the document
// itself when it is not such an envelope.
func unwrap(doc Normalized, key string) Normalized {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return doc
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return doc
	}
	if inner, ok := probe[key]; ok {
		return Normalized(inner)
	}
	return doc
}

func sortPlacesByDistance(places []Place) {
	sort.SliceStable(places, func(i, j int) bool {
		di, dj := places[i].Distance, places[j].Distance
		if di == nil || dj == nil {
			return di != nil
		}
		return *di < *dj
	})
}
