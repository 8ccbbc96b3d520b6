package transit

import (
	"context"
	"fmt"
	"net/url"
)

// Lines streams every line the API knows, one record per line.
func (c *Client) Lines(ctx context.Context, opts *LinesOptions) (*Stream, error) {
	if opts == nil {
		opts = &LinesOptions{}
	}
	p := opts.params()
	setString(p, "name", opts.Name)
	setBool(p, "variants", opts.Variants)
	return c.Stream(ctx, c.paths.Lines, p, ShapeLines)
}

// Line fetches a single line by id.
func (c *Client) Line(ctx context.Context, id string, opts *CallOptions) (*Line, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}

	doc, err := c.Do(ctx, fmt.Sprintf(c.paths.Line, url.PathEscape(id)), opts.params(), ShapeLine)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch line %s: %w", id, err)
	}

	var line Line
	if err := doc.Decode(&line); err != nil {
		return nil, err
	}
	return &line, nil
}

// Map streams the records of a network map such as "bvg-night".
func (c *Client) Map(ctx context.Context, mapType string, opts *CallOptions) (*Stream, error) {
	if err := requireID("type", mapType); err != nil {
		return nil, err
	}
	return c.Stream(ctx, fmt.Sprintf(c.paths.Map, url.PathEscape(mapType)), opts.params(), ShapeMap)
}

// Radar returns the vehicles currently moving inside bbox.
func (c *Client) Radar(ctx context.Context, bbox BoundingBox, opts *RadarOptions) ([]Movement, error) {
	if err := c.checkBoundingBox(bbox); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &RadarOptions{}
	}
	if err := c.checkCount("results", opts.Results); err != nil {
		return nil, err
	}
	if err := c.checkCount("frames", opts.Frames); err != nil {
		return nil, err
	}

	p := opts.params()
	p["north"] = bbox.North
	p["west"] = bbox.West
	p["south"] = bbox.South
	p["east"] = bbox.East
	setTime(p, "when", opts.When)
	setInt(p, "results", opts.Results)
	setInt(p, "duration", opts.Duration)
	setInt(p, "frames", opts.Frames)
	setTrue(p, "polylines", opts.Polylines)

	doc, err := c.Do(ctx, c.paths.Radar, p, ShapeRadar)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch radar: %w", err)
	}

	var movements []Movement
	if err := unwrap(doc, "movements").Decode(&movements); err != nil {
		return nil, err
	}
	return movements, nil
}

func (c *Client) checkBoundingBox(b BoundingBox) error {
	if b == (BoundingBox{}) {
		return invalidArg("bbox", "bounding box is empty")
	}
	if err := c.checkPoint("bbox", Point{Latitude: b.North, Longitude: b.West}); err != nil {
		return err
	}
	if err := c.checkPoint("bbox", Point{Latitude: b.South, Longitude: b.East}); err != nil {
		return err
	}
	if c.strict {
		if b.North <= b.South {
			return invalidArg("north", "must be north of south")
		}
		if b.East <= b.West {
			return invalidArg("east", "must be east of west")
		}
	}
	return nil
}
