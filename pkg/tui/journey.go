package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"transitctl/pkg/exporter"
	"transitctl/pkg/transit"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// RunJourneyTUI plans a journey between two searched locations and offers
// to export the results to a calendar file.
func RunJourneyTUI(ctx context.Context, client *transit.Client) error {
	fmt.Println(accentStyle.Render("Plan a Journey"))

	from, err := pickPlace(ctx, client, "From", false)
	if errors.Is(err, errNoMatch) {
		return nil
	}
	if err != nil {
		return err
	}
	to, err := pickPlace(ctx, client, "To", false)
	if errors.Is(err, errNoMatch) {
		return nil
	}
	if err != nil {
		return err
	}

	var mode, when string
	mode = "depart"

	timeForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("When?").
				Options(
					huh.NewOption("Depart at", "depart"),
					huh.NewOption("Arrive by", "arrive"),
				).
				Value(&mode),

			huh.NewInput().
				Title("Time").
				Description("Leave empty for now. Examples: 17:30, +20m, 2026-10-19 08:00").
				Value(&when).
				Validate(func(s string) error {
					_, err := ParseWhen(s, time.Now())
					return err
				}),
		),
	).WithTheme(GetTheme())

	if err := timeForm.Run(); err != nil {
		return err
	}

	at, _ := ParseWhen(when, time.Now())
	opts := &transit.JourneysOptions{Results: 3}
	if mode == "arrive" && !at.IsZero() {
		opts.Arrival = at
	} else {
		opts.Departure = at
	}

	journeys, err := showJourneys(ctx, client, from, to, opts)
	if err != nil || len(journeys) == 0 {
		return err
	}

	var export bool
	var filename string
	exportForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Export these journeys to a calendar file?").
				Value(&export),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("File name").
				Placeholder("journeys.ics").
				Value(&filename),
		).WithHideFunc(func() bool { return !export }),
	).WithTheme(GetTheme())

	if err := exportForm.Run(); err != nil {
		return err
	}
	if !export {
		return nil
	}

	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = "journeys.ics"
	}
	if err := WriteJourneyICS(filename, journeys); err != nil {
		return err
	}
	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✨ Successfully exported %d journey(s) to: %s\n", len(journeys), filename)))
	return nil
}

// WriteJourneyICS writes journeys as calendar events to filename.
func WriteJourneyICS(filename string, journeys []transit.Journey) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := exporter.JourneyICS(journeys, file); err != nil {
		return fmt.Errorf("failed to generate ICS: %w", err)
	}
	return file.Close()
}

func showJourneys(ctx context.Context, client *transit.Client, from, to *transit.Place, opts *transit.JourneysOptions) ([]transit.Journey, error) {
	fromLoc, err := from.AsLocation()
	if err != nil {
		return nil, err
	}
	toLoc, err := to.AsLocation()
	if err != nil {
		return nil, err
	}

	var res *transit.JourneysResult
	_ = spinner.New().
		Title(fmt.Sprintf("Routing trip from %s to %s...", PlaceName(from), PlaceName(to))).
		Action(func() {
			res, err = client.Journeys(ctx, fromLoc, toLoc, opts)
		}).
		Run()

	if err != nil {
		return nil, fmt.Errorf("could not route journey: %w", err)
	}
	if len(res.Journeys) == 0 {
		fmt.Println(errorStyle.Render("No routes could be found. It might be too late at night."))
		return nil, nil
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n--- 🧭 %s -> %s ---", PlaceName(from), PlaceName(to))))
	for _, j := range res.Journeys {
		PrintJourney(os.Stdout, j)
	}
	return res.Journeys, nil
}
