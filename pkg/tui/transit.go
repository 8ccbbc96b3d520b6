package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"transitctl/pkg/config"
	"transitctl/pkg/transit"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// errNoMatch is returned by the pickers when a search found nothing.
var errNoMatch = errors.New("no matching locations")

// RunTransitTUI lets the user find a stop and shows its departure or
// arrival board.
func RunTransitTUI(ctx context.Context, client *transit.Client) error {
	stop, err := pickPlace(ctx, client, "Which stop?", true)
	if errors.Is(err, errNoMatch) {
		return nil
	}
	if err != nil {
		return err
	}

	var action string
	minutes := "60"

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What do you want to see?").
				Options(
					huh.NewOption("Departures", "departures"),
					huh.NewOption("Arrivals", "arrivals"),
				).
				Value(&action),

			huh.NewSelect[string]().
				Title("Time window").
				Options(
					huh.NewOption("30 minutes", "30"),
					huh.NewOption("1 hour", "60"),
					huh.NewOption("2 hours", "120"),
				).
				Value(&minutes),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	duration, _ := strconv.Atoi(minutes)
	opts := &transit.BoardOptions{Duration: duration}

	var entries []transit.StationBoardEntry
	_ = spinner.New().
		Title(fmt.Sprintf("Fetching live %s...", action)).
		Action(func() {
			if action == "arrivals" {
				entries, err = client.Arrivals(ctx, string(stop.ID), opts)
			} else {
				entries, err = client.Departures(ctx, string(stop.ID), opts)
			}
		}).
		Run()

	if err != nil {
		return fmt.Errorf("could not fetch %s: %w", action, err)
	}

	title := fmt.Sprintf("🚌 Next Departures at %s", PlaceName(stop))
	if action == "arrivals" {
		title = fmt.Sprintf("🚌 Next Arrivals at %s", PlaceName(stop))
	}
	PrintBoard(os.Stdout, title, entries, 2)
	return nil
}

// RunRouteHomeTUI routes from a chosen stop to the saved home stop.
func RunRouteHomeTUI(ctx context.Context, client *transit.Client) error {
	cfg, err := config.Load()
	if err != nil || cfg.HomeStationID == "" {
		fmt.Println(errorStyle.Render("Home address is not configured."))
		fmt.Println("Please run 'transitctl config --set-home \"Your Address\"' in your terminal first.")
		return nil
	}

	from, err := pickPlace(ctx, client, "Where are you now?", true)
	if errors.Is(err, errNoMatch) {
		return nil
	}
	if err != nil {
		return err
	}

	home := &transit.Place{Type: "stop", ID: transit.ID(cfg.HomeStationID), Name: cfg.HomeAddress}
	_, err = showJourneys(ctx, client, from, home, &transit.JourneysOptions{Results: 1})
	return err
}

// RunNearbyTUI lists the stops around a coordinate.
func RunNearbyTUI(ctx context.Context, client *transit.Client) error {
	var input string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter a coordinate").
				Description("Latitude and longitude separated by a comma.").
				Placeholder("52.5219,13.4132").
				Value(&input).
				Validate(func(s string) error {
					_, err := ParsePoint(s)
					return err
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	at, _ := ParsePoint(input)

	var places []transit.Place
	var err error
	_ = spinner.New().
		Title("Looking for stops nearby...").
		Action(func() {
			places, err = client.Nearby(ctx, at, &transit.NearbyOptions{Results: 10})
		}).
		Run()

	if err != nil {
		return fmt.Errorf("could not fetch nearby stops: %w", err)
	}
	if len(places) == 0 {
		fmt.Println(errorStyle.Render("No stops found around this coordinate."))
		return nil
	}

	fmt.Println(accentStyle.Render("\n--- 📍 Stops Nearby ---"))
	PrintPlaces(os.Stdout, places)
	fmt.Println()
	return nil
}

// pickPlace asks for a search text and lets the user choose one match.
func pickPlace(ctx context.Context, client *transit.Client, title string, stopsOnly bool) (*transit.Place, error) {
	var query string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("e.g. Berlin Hbf or Torfstraße 17...").
				Value(&query),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		fmt.Println("Operation cancelled: nothing entered.")
		return nil, errNoMatch
	}

	opts := &transit.LocationsOptions{Results: 10}
	if stopsOnly {
		no := false
		opts.Addresses = &no
		opts.POI = &no
	}

	var places []transit.Place
	var err error
	_ = spinner.New().
		Title(fmt.Sprintf("Searching transit network for '%s'...", query)).
		Action(func() {
			places, err = client.Locations(ctx, query, opts)
		}).
		Run()

	if err != nil {
		return nil, fmt.Errorf("could not search locations: %w", err)
	}
	if len(places) == 0 {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ Nothing found for '%s'", query)))
		return nil, errNoMatch
	}
	if len(places) == 1 {
		return &places[0], nil
	}

	options := make([]huh.Option[int], len(places))
	for i := range places {
		options[i] = huh.NewOption(placeLabel(&places[i]), i)
	}

	var choice int
	selectForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Pick one").
				Options(options...).
				Value(&choice),
		),
	).WithTheme(GetTheme())

	if err := selectForm.Run(); err != nil {
		return nil, err
	}
	return &places[choice], nil
}

func placeLabel(p *transit.Place) string {
	if p.ID == "" {
		return PlaceName(p)
	}
	return fmt.Sprintf("%s (%s)", PlaceName(p), p.ID)
}
