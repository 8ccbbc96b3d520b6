package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"transitctl/pkg/config"
	"transitctl/pkg/transit"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
)

// RunConfigTUI launches the interactive experience for managing configurations
func RunConfigTUI(ctx context.Context, client *transit.Client) error {
	for {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set Accent Color (Theme)", "theme"),
						huh.NewOption("Set Home Address (For Route Home)", "home"),
						huh.NewOption("Set API Endpoint", "api"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back to Main Menu", "back"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme())

		if err := initialForm.Run(); err != nil {
			return err
		}

		switch action {
		case "back":
			return nil
		case "theme":
			err = runSetThemeTUI(cfg)
		case "home":
			err = runSetHomeTUI(ctx, client, cfg)
		case "api":
			err = runSetAPITUI(cfg)
		case "view":
			printConfig(cfg)
		}

		if err != nil {
			return err
		}
	}
}

func printConfig(cfg *config.AppConfig) {
	orUnset := func(s string) string {
		if s == "" {
			return "Not set"
		}
		return s
	}

	fmt.Println(accentStyle.Render("\n--- Current Configuration (~/.transitctl.json) ---"))
	fmt.Printf("Home Address: %s\n", orUnset(cfg.HomeAddress))
	fmt.Printf("Home Stop ID: %s\n", orUnset(cfg.HomeStationID))
	fmt.Printf("Endpoint: %s\n", orUnset(cfg.Endpoint))
	fmt.Printf("Time Encoding: %s\n", orUnset(cfg.TimeEncoding))
	fmt.Printf("Identifier: %s\n", orUnset(cfg.Identifier))
	fmt.Printf("Strict Validation: %t\n", cfg.StrictValidation)
	fmt.Printf("Accent Color: %s\n", orUnset(cfg.AccentColor))
	fmt.Println()
}

// ResolveHome looks query up and returns the stop to route home to. When
// the best match is an address or POI, the closest stop to it is used.
func ResolveHome(ctx context.Context, client *transit.Client, query string) (*transit.Place, error) {
	places, err := client.Locations(ctx, query, &transit.LocationsOptions{Results: 5})
	if err != nil {
		return nil, fmt.Errorf("could not lookup address: %w", err)
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("no matching stations or addresses found for '%s'", query)
	}

	for i := range places {
		if places[i].IsStop() {
			return &places[i], nil
		}
	}

	lat, lon, ok := places[0].Coordinates()
	if !ok {
		return nil, fmt.Errorf("'%s' matched no stop and has no coordinates", query)
	}
	nearby, err := client.Nearby(ctx, transit.Point{Latitude: lat, Longitude: lon}, &transit.NearbyOptions{Results: 1})
	if err != nil {
		return nil, fmt.Errorf("could not find a stop near '%s': %w", query, err)
	}
	if len(nearby) == 0 {
		return nil, fmt.Errorf("no stop found near '%s'", query)
	}
	stop := nearby[0]
	if stop.Name == "" {
		stop.Name = PlaceName(&places[0])
	}
	return &stop, nil
}

func runSetHomeTUI(ctx context.Context, client *transit.Client, cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your home address or nearest stop").
				Description("This will be saved to your local config for fast routing home.").
				Placeholder("e.g. Braunschweig Hbf or Musterstraße 12, Berlin...").
				Value(&input),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return err
	}

	if strings.TrimSpace(input) == "" {
		fmt.Println("Operation cancelled: No address provided.")
		return nil
	}

	var match *transit.Place
	var fetchErr error

	_ = spinner.New().
		Title(fmt.Sprintf("Searching transit network for '%s'...", input)).
		Action(func() {
			match, fetchErr = ResolveHome(ctx, client, input)
		}).
		Run()

	if fetchErr != nil {
		fmt.Println(errorStyle.Render("❌ " + fetchErr.Error()))
		return nil
	}

	cfg.HomeAddress = PlaceName(match)
	cfg.HomeStationID = string(match.ID)

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Successfully saved home location: %s (ID: %s)\n", cfg.HomeAddress, cfg.HomeStationID)))
	return nil
}

func runSetAPITUI(cfg *config.AppConfig) error {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = transit.DefaultEndpoint
	}
	encoding := cfg.TimeEncoding
	if encoding == "" {
		encoding = transit.EncodingISO8601.String()
	}
	identifier := cfg.Identifier
	strict := strconv.FormatBool(cfg.StrictValidation)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Endpoint").
				Description("Base URL of a hafas-rest-api deployment.").
				Value(&endpoint).
				Validate(func(s string) error {
					_, err := transit.NewClient(transit.Options{Endpoint: s})
					return err
				}),

			huh.NewSelect[string]().
				Title("Timestamp encoding").
				Options(
					huh.NewOption("ISO 8601 (v5/v6 APIs)", transit.EncodingISO8601.String()),
					huh.NewOption("Unix seconds (first generation APIs)", transit.EncodingUnixSeconds.String()),
					huh.NewOption("Unix milliseconds", transit.EncodingUnixMillis.String()),
				).
				Value(&encoding),

			huh.NewInput().
				Title("Identifier").
				Description("Sent as X-Identifier so the API operator can reach you.").
				Value(&identifier),

			huh.NewSelect[string]().
				Title("Strict validation").
				Options(
					huh.NewOption("Off", "false"),
					huh.NewOption("On (range check coordinates and counts)", "true"),
				).
				Value(&strict),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Endpoint = strings.TrimSpace(endpoint)
	cfg.TimeEncoding = encoding
	cfg.Identifier = strings.TrimSpace(identifier)
	cfg.StrictValidation = strict == "true"

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ API settings saved. They apply from the next command on.\n"))
	return nil
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

func runSetThemeTUI(cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color for transitctl").
				Description("Select a curated Charm style or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s Violet", colorBlock("99")), "99"),
					huh.NewOption(fmt.Sprintf("%s S-Bahn Green", colorBlock("34")), "34"),
					huh.NewOption(fmt.Sprintf("%s U-Bahn Blue", colorBlock("27")), "27"),
					huh.NewOption(fmt.Sprintf("%s Tram Red", colorBlock("160")), "160"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "custom" {
		var hexInput string
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #FF00FF").
					Placeholder("#").
					Value(&hexInput).
					Validate(func(str string) error {
						if len(str) != 7 || !strings.HasPrefix(str, "#") {
							return fmt.Errorf("must be a valid 6-character hex code starting with #")
						}
						return nil
					}),
			),
		).WithTheme(GetTheme())

		if err := hexForm.Run(); err != nil {
			return err
		}
		cfg.AccentColor = hexInput
	} else {
		cfg.AccentColor = input
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ The theme color is now saved.\n"))
	return nil
}
