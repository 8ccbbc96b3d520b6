package transit

import (
	"context"
	"fmt"
	"net/url"
)

// Departures gets the departure board of a stop.
func (c *Client) Departures(ctx context.Context, stationID string, opts *BoardOptions) ([]Departure, error) {
	return c.board(ctx, c.paths.Departures, "departures", ShapeDepartures, stationID, opts)
}

// Arrivals gets the arrival board of a stop.
func (c *Client) Arrivals(ctx context.Context, stationID string, opts *BoardOptions) ([]Arrival, error) {
	return c.board(ctx, c.paths.Arrivals, "arrivals", ShapeArrivals, stationID, opts)
}

func (c *Client) board(ctx context.Context, pathTmpl, key string, shape Shape, stationID string, opts *BoardOptions) ([]StationBoardEntry, error) {
	if err := requireID("id", stationID); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &BoardOptions{}
	}
	if err := c.checkCount("duration", opts.Duration); err != nil {
		return nil, err
	}
	if err := c.checkCount("results", opts.Results); err != nil {
		return nil, err
	}

	p := opts.params()
	setTime(p, "when", opts.When)
	setInt(p, "duration", opts.Duration)
	setInt(p, "results", opts.Results)
	setString(p, "direction", opts.Direction)
	setTrue(p, "linesOfStops", opts.LinesOfStops)
	setBool(p, "remarks", opts.Remarks)
	setString(p, "language", opts.Language)
	setProducts(p, opts.Products)

	doc, err := c.Do(ctx, fmt.Sprintf(pathTmpl, url.PathEscape(stationID)), p, shape)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}

	var entries []StationBoardEntry
	if err := unwrap(doc, key).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}
