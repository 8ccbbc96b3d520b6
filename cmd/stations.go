package cmd

import (
	"fmt"
	"os"

	"transitctl/pkg/transit"
	"transitctl/pkg/tui"

	"github.com/spf13/cobra"
)

var locationsCmd = &cobra.Command{
	Use:   "locations QUERY",
	Short: "Search stops, addresses and points of interest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		results, _ := flags.GetInt("results")
		stopsOnly, _ := flags.GetBool("stops-only")

		opts := &transit.LocationsOptions{Results: results}
		if stopsOnly {
			no := false
			opts.Addresses = &no
			opts.POI = &no
		}

		var places []transit.Place
		var err error
		fetch(fmt.Sprintf("Searching for '%s'...", args[0]), func() {
			places, err = client.Locations(cmd.Context(), args[0], opts)
		})
		if err != nil {
			return err
		}
		return printPlaces(places, "No matching locations found.")
	},
}

var nearbyCmd = &cobra.Command{
	Use:   "nearby LAT,LON",
	Short: "List stops close to a coordinate, nearest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := tui.ParsePoint(args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		results, _ := flags.GetInt("results")
		distance, _ := flags.GetInt("distance")

		var places []transit.Place
		fetch("Looking for stops nearby...", func() {
			places, err = client.Nearby(cmd.Context(), at, &transit.NearbyOptions{Results: results, Distance: distance})
		})
		if err != nil {
			return err
		}
		return printPlaces(places, "No stops nearby.")
	},
}

var stationCmd = &cobra.Command{
	Use:   "station ID",
	Short: "Show a single stop or station",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var place *transit.Place
		var err error
		fetch("Fetching station...", func() {
			place, err = client.Station(cmd.Context(), args[0], nil)
		})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(os.Stdout, place)
		}
		tui.PrintPlaces(os.Stdout, []transit.Place{*place})
		if place.Station != nil {
			fmt.Printf("  part of %s (%s)\n", tui.PlaceName(place.Station), place.Station.ID)
		}
		for _, l := range place.Lines {
			fmt.Printf("  %s %s\n", l.Name, l.ProductName)
		}
		return nil
	},
}

var stationsCmd = &cobra.Command{
	Use:   "stations [QUERY]",
	Short: "List stations known to the API",
	Long: `Lists stations, optionally filtered by QUERY. Without --completion the list is
streamed from the API and printed as it arrives.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		flags := cmd.Flags()
		results, _ := flags.GetInt("results")
		completion, _ := flags.GetBool("completion")
		opts := &transit.StationsOptions{Results: results}

		if completion {
			var places []transit.Place
			var err error
			fetch("Fetching stations...", func() {
				places, err = client.Stations(cmd.Context(), query, opts)
			})
			if err != nil {
				return err
			}
			return printPlaces(places, "No stations found.")
		}

		s, err := client.StationsStream(cmd.Context(), query, opts)
		if err != nil {
			return err
		}
		defer s.Close()
		return drain(s, func(p transit.Place) {
			tui.PrintPlaces(os.Stdout, []transit.Place{p})
		})
	},
}

func printPlaces(places []transit.Place, empty string) error {
	if jsonOut {
		return printJSON(os.Stdout, places)
	}
	if len(places) == 0 {
		fmt.Println(empty)
		return nil
	}
	tui.PrintPlaces(os.Stdout, places)
	return nil
}

func init() {
	rootCmd.AddCommand(locationsCmd)
	rootCmd.AddCommand(nearbyCmd)
	rootCmd.AddCommand(stationCmd)
	rootCmd.AddCommand(stationsCmd)

	locationsCmd.Flags().IntP("results", "n", 5, "maximum number of matches")
	locationsCmd.Flags().Bool("stops-only", false, "leave out addresses and points of interest")

	nearbyCmd.Flags().IntP("results", "n", 8, "maximum number of stops")
	nearbyCmd.Flags().Int("distance", 0, "search radius in metres")

	stationsCmd.Flags().IntP("results", "n", 0, "maximum number of stations")
	stationsCmd.Flags().Bool("completion", false, "use the autocompletion endpoint instead of streaming")
}
