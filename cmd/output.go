package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"

	"transitctl/pkg/cache"
	"transitctl/pkg/transit"
	"transitctl/pkg/tui"

	"github.com/charmbracelet/huh/spinner"
)

// fetch runs action behind a spinner, or directly when printing JSON so
// stdout stays machine readable.
func fetch(title string, action func()) {
	if jsonOut {
		action()
		return
	}
	_ = spinner.New().
		Title(title).
		Action(action).
		Run()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// drain writes every record of s as one JSON line, or hands each decoded
// record to render.
func drain[T any](s *transit.Stream, render func(T)) error {
	if jsonOut {
		for rec, err := range s.Records() {
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(rec))
		}
		return nil
	}
	for v, err := range transit.Each[T](s) {
		if err != nil {
			return err
		}
		render(v)
	}
	return nil
}

var stationIDPattern = regexp.MustCompile(`^\d+$`)

// resolveLocation turns a command line argument into a Location: numeric
// ids are stops, "lat,lon" pairs are coordinates, "home" is the saved home
// stop and anything else is searched for.
func resolveLocation(ctx context.Context, arg string) (transit.Location, string, error) {
	switch {
	case stationIDPattern.MatchString(arg):
		return transit.Station{ID: arg}, arg, nil
	case arg == "home":
		if appCfg == nil || appCfg.HomeStationID == "" {
			return nil, "", fmt.Errorf("home address is not configured. Please run 'transitctl config --set-home \"Your Address\"' first")
		}
		return transit.Station{ID: appCfg.HomeStationID}, appCfg.HomeAddress, nil
	}

	if p, err := tui.ParsePoint(arg); err == nil {
		return transit.Address{Name: arg, Latitude: p.Latitude, Longitude: p.Longitude}, arg, nil
	}

	places, err := searchPlaces(ctx, arg, false)
	if err != nil {
		return nil, "", err
	}
	if len(places) == 0 {
		return nil, "", fmt.Errorf("no matching stations or addresses found for '%s'", arg)
	}
	loc, err := places[0].AsLocation()
	if err != nil {
		return nil, "", err
	}
	return loc, tui.PlaceName(&places[0]), nil
}

// resolveStop is resolveLocation restricted to stops, for boards.
func resolveStop(ctx context.Context, arg string) (string, string, error) {
	if stationIDPattern.MatchString(arg) {
		return arg, arg, nil
	}
	if arg == "home" {
		loc, label, err := resolveLocation(ctx, arg)
		if err != nil {
			return "", "", err
		}
		return loc.(transit.Station).ID, label, nil
	}

	places, err := searchPlaces(ctx, arg, true)
	if err != nil {
		return "", "", err
	}
	if len(places) == 0 || places[0].ID == "" {
		return "", "", fmt.Errorf("no stop found for '%s'", arg)
	}
	return string(places[0].ID), tui.PlaceName(&places[0]), nil
}

// searchPlaces returns the best match for query, from the disk cache when
// the same search was made before.
func searchPlaces(ctx context.Context, query string, stopsOnly bool) ([]transit.Place, error) {
	key := cache.Key(client.Endpoint(), query, stopsOnly)
	if placeCache != nil {
		if places, ok := placeCache.Get(key); ok {
			logger.Debug("location cache hit", "query", query)
			return places, nil
		}
	}

	opts := &transit.LocationsOptions{Results: 1}
	if stopsOnly {
		no := false
		opts.Addresses = &no
		opts.POI = &no
	}
	places, err := client.Locations(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	if placeCache != nil {
		if err := placeCache.Put(key, places); err != nil {
			logger.Warn("could not cache location search", "query", query, "error", err)
		}
	}
	return places, nil
}
