package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"transitctl/pkg/transit"
	"transitctl/pkg/tui"

	"github.com/spf13/cobra"
)

var journeysCmd = &cobra.Command{
	Use:   "journeys FROM TO",
	Short: "Plan journeys between two places",
	Long: `Plans journeys from FROM to TO. Both may be a stop id, "home", a "lat,lon"
coordinate or a search text.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		opts, err := journeysOptions(cmd)
		if err != nil {
			return err
		}

		from, fromLabel, err := resolveLocation(ctx, args[0])
		if err != nil {
			return err
		}
		to, toLabel, err := resolveLocation(ctx, args[1])
		if err != nil {
			return err
		}
		if via, _ := cmd.Flags().GetString("via"); via != "" {
			if opts.Via, _, err = resolveLocation(ctx, via); err != nil {
				return err
			}
		}

		var res *transit.JourneysResult
		fetch(fmt.Sprintf("Routing trip from %s to %s...", fromLabel, toLabel), func() {
			res, err = client.Journeys(ctx, from, to, opts)
		})
		if err != nil {
			return err
		}

		if icsFile, _ := cmd.Flags().GetString("ics"); icsFile != "" && len(res.Journeys) > 0 {
			if err := tui.WriteJourneyICS(icsFile, res.Journeys); err != nil {
				return err
			}
			logger.Info("journeys exported", "file", icsFile, "count", len(res.Journeys))
		}

		if jsonOut {
			return printJSON(os.Stdout, res)
		}
		if len(res.Journeys) == 0 {
			fmt.Println(tui.Error("No routes could be found. It might be too late at night."))
			return nil
		}
		fmt.Println(tui.Accent(fmt.Sprintf("--- 🧭 %s -> %s ---", fromLabel, toLabel)))
		for _, j := range res.Journeys {
			tui.PrintJourney(os.Stdout, j)
		}
		if res.LaterRef != "" {
			fmt.Printf("\nLater journeys: --later-than %q\n", res.LaterRef)
		}
		return nil
	},
}

func journeysOptions(cmd *cobra.Command) (*transit.JourneysOptions, error) {
	flags := cmd.Flags()
	depStr, _ := flags.GetString("departure")
	arrStr, _ := flags.GetString("arrival")
	results, _ := flags.GetInt("results")
	stopovers, _ := flags.GetBool("stopovers")
	laterThan, _ := flags.GetString("later-than")
	earlierThan, _ := flags.GetString("earlier-than")

	if depStr != "" && arrStr != "" {
		return nil, errors.New("--departure and --arrival are mutually exclusive")
	}
	now := time.Now()
	dep, err := tui.ParseWhen(depStr, now)
	if err != nil {
		return nil, err
	}
	arr, err := tui.ParseWhen(arrStr, now)
	if err != nil {
		return nil, err
	}

	opts := &transit.JourneysOptions{
		Results:     results,
		Stopovers:   stopovers,
		LaterThan:   laterThan,
		EarlierThan: earlierThan,
	}
	if arrStr != "" {
		opts.Arrival = arr
	} else if depStr != "" {
		opts.Departure = dep
	}
	if flags.Changed("transfers") {
		n, _ := flags.GetInt("transfers")
		opts.Transfers = &n
	}
	return opts, nil
}

var refreshCmd = &cobra.Command{
	Use:   "refresh TOKEN",
	Short: "Fetch up to date data for a journey by its refresh token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stopovers, _ := cmd.Flags().GetBool("stopovers")

		var j *transit.Journey
		var err error
		fetch("Refreshing journey...", func() {
			j, err = client.RefreshJourney(cmd.Context(), args[0], &transit.RefreshOptions{Stopovers: stopovers})
		})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(os.Stdout, j)
		}
		tui.PrintJourney(os.Stdout, *j)
		return nil
	},
}

var tripCmd = &cobra.Command{
	Use:   "trip ID LINE",
	Short: "Show a single trip with its stopovers",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var trip *transit.Trip
		var err error
		fetch("Fetching trip...", func() {
			trip, err = client.Trip(cmd.Context(), args[0], args[1], nil)
		})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(os.Stdout, trip)
		}

		lineName := args[1]
		if trip.Line != nil {
			lineName = trip.Line.Name
		}
		fmt.Println(tui.Accent(fmt.Sprintf("%s -> %s", lineName, trip.Direction)))
		for _, s := range trip.Stopovers {
			t := s.Departure
			if t == nil {
				t = s.Arrival
			}
			when := "--:--"
			if t != nil {
				when = t.Local().Format("15:04")
			}
			mark := ""
			if s.Cancelled {
				mark = " " + tui.Error("cancelled")
			}
			fmt.Printf("  %s  %s%s\n", when, tui.PlaceName(s.Stop), mark)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(journeysCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(tripCmd)

	flags := journeysCmd.Flags()
	flags.String("departure", "", "depart at (15:04, +30m, RFC 3339)")
	flags.String("arrival", "", "arrive by (15:04, +30m, RFC 3339)")
	flags.IntP("results", "n", 3, "number of journeys")
	flags.String("via", "", "place the journeys must pass through")
	flags.Int("transfers", 0, "maximum number of transfers")
	flags.Bool("stopovers", false, "include intermediate stops")
	flags.String("later-than", "", "page forward from a previous search")
	flags.String("earlier-than", "", "page backward from a previous search")
	flags.String("ics", "", "also write the journeys to this calendar file")

	refreshCmd.Flags().Bool("stopovers", false, "include intermediate stops")
}
