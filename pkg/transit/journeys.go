package transit

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
)

// Journeys plans trips between two locations. from and to may each be a
// Station, Address or POI.
func (c *Client) Journeys(ctx context.Context, from, to Location, opts *JourneysOptions) (*JourneysResult, error) {
	if from == nil {
		return nil, &InvalidLocationError{Param: "from", Reason: "location is missing"}
	}
	if to == nil {
		return nil, &InvalidLocationError{Param: "to", Reason: "location is missing"}
	}
	if opts == nil {
		opts = &JourneysOptions{}
	}
	if !opts.Departure.IsZero() && !opts.Arrival.IsZero() {
		return nil, invalidArg("arrival", "departure and arrival are mutually exclusive")
	}
	if err := c.checkCount("results", opts.Results); err != nil {
		return nil, err
	}
	if opts.Transfers != nil {
		if err := c.checkCount("transfers", *opts.Transfers); err != nil {
			return nil, err
		}
	}

	p := opts.params()
	p["from"] = from
	p["to"] = to
	if opts.Via != nil {
		p["via"] = opts.Via
	}
	setTime(p, c.paths.JourneysWhen, opts.Departure)
	setTime(p, "arrival", opts.Arrival)
	setString(p, "earlierThan", opts.EarlierThan)
	setString(p, "laterThan", opts.LaterThan)
	setInt(p, "results", opts.Results)
	setTrue(p, "stopovers", opts.Stopovers)
	if opts.Transfers != nil {
		p["transfers"] = *opts.Transfers
	}
	setInt(p, "transferTime", opts.TransferTime)
	setString(p, "accessibility", opts.Accessibility)
	setTrue(p, "bike", opts.Bike)
	setTrue(p, "tickets", opts.Tickets)
	setTrue(p, "polylines", opts.Polylines)
	setBool(p, "remarks", opts.Remarks)
	setString(p, "language", opts.Language)
	setProducts(p, opts.Products)

	doc, err := c.Do(ctx, c.paths.Journeys, p, ShapeJourneys)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch journeys: %w", err)
	}

	var result JourneysResult
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = doc.Decode(&result.Journeys)
	} else {
		err = doc.Decode(&result)
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RefreshJourney fetches up-to-date realtime data for a journey found
// earlier, identified by its refresh token.
func (c *Client) RefreshJourney(ctx context.Context, refreshToken string, opts *RefreshOptions) (*Journey, error) {
	if err := requireID("refreshToken", refreshToken); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &RefreshOptions{}
	}

	p := opts.params()
	setTrue(p, "stopovers", opts.Stopovers)
	setTrue(p, "tickets", opts.Tickets)
	setTrue(p, "polylines", opts.Polylines)
	setBool(p, "remarks", opts.Remarks)
	setString(p, "language", opts.Language)

	doc, err := c.Do(ctx, fmt.Sprintf(c.paths.Refresh, url.PathEscape(refreshToken)), p, ShapeJourney)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh journey: %w", err)
	}

	var journey Journey
	if err := unwrap(doc, "journey").Decode(&journey); err != nil {
		return nil, err
	}
	return &journey, nil
}

// Trip fetches a single vehicle run with its stopovers.
func (c *Client) Trip(ctx context.Context, id, lineName string, opts *TripOptions) (*Trip, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	if err := requireID("lineName", lineName); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &TripOptions{}
	}

	p := opts.params()
	p["lineName"] = lineName
	setBool(p, "stopovers", opts.Stopovers)
	setBool(p, "remarks", opts.Remarks)
	setTrue(p, "polyline", opts.Polyline)
	setString(p, "language", opts.Language)

	doc, err := c.Do(ctx, fmt.Sprintf(c.paths.Trip, url.PathEscape(id)), p, ShapeTrip)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}

	var trip Trip
	if err := unwrap(doc, "trip").Decode(&trip); err != nil {
		return nil, err
	}
	return &trip, nil
}
