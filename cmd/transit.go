package cmd

import (
	"fmt"
	"os"
	"time"

	"transitctl/pkg/transit"
	"transitctl/pkg/tui"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var departuresCmd = &cobra.Command{
	Use:   "departures STOP",
	Short: "Show the live departure board of a stop",
	Long: `Fetches live departures for a stop. STOP is a stop id, "home" or a search text;
departures are grouped by line and direction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard(cmd, args[0], false)
	},
}

var arrivalsCmd = &cobra.Command{
	Use:   "arrivals STOP",
	Short: "Show the live arrival board of a stop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard(cmd, args[0], true)
	},
}

func runBoard(cmd *cobra.Command, stop string, arrivals bool) error {
	ctx := cmd.Context()
	opts, perRoute, err := boardOptions(cmd)
	if err != nil {
		return err
	}

	stopID, label, err := resolveStop(ctx, stop)
	if err != nil {
		return err
	}

	kind := "departures"
	if arrivals {
		kind = "arrivals"
	}

	var entries []transit.StationBoardEntry
	fetch(fmt.Sprintf("Fetching live %s for %s...", kind, label), func() {
		if arrivals {
			entries, err = client.Arrivals(ctx, stopID, opts)
		} else {
			entries, err = client.Departures(ctx, stopID, opts)
		}
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(os.Stdout, entries)
	}

	title := fmt.Sprintf("🚌 Next %s: %s", cases.Title(language.English).String(kind), label)
	if len(entries) == 0 {
		fmt.Println(tui.Accent(title))
		fmt.Printf("No %s found in the next %d minutes.\n", kind, opts.Duration)
		return nil
	}
	tui.PrintBoard(os.Stdout, title, entries, perRoute)
	return nil
}

func boardOptions(cmd *cobra.Command) (*transit.BoardOptions, int, error) {
	flags := cmd.Flags()
	whenStr, _ := flags.GetString("when")
	duration, _ := flags.GetInt("duration")
	results, _ := flags.GetInt("results")
	direction, _ := flags.GetString("direction")
	perRoute, _ := flags.GetInt("per-route")
	products, _ := flags.GetStringToString("products")

	when, err := tui.ParseWhen(whenStr, time.Now())
	if err != nil {
		return nil, 0, err
	}

	opts := &transit.BoardOptions{
		When:      when,
		Duration:  duration,
		Results:   results,
		Direction: direction,
	}
	if len(products) > 0 {
		opts.Products, err = parseProducts(products)
		if err != nil {
			return nil, 0, err
		}
	}
	return opts, perRoute, nil
}

func parseProducts(in map[string]string) (map[string]bool, error) {
	out := make(map[string]bool, len(in))
	for name, v := range in {
		switch v {
		case "true", "on", "1":
			out[name] = true
		case "false", "off", "0":
			out[name] = false
		default:
			return nil, fmt.Errorf("invalid value %q for product %s (use true or false)", v, name)
		}
	}
	return out, nil
}

func addBoardFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("when", "w", "", "start of the time window (15:04, +30m, RFC 3339)")
	cmd.Flags().IntP("duration", "d", 60, "length of the time window in minutes")
	cmd.Flags().IntP("results", "n", 0, "maximum number of entries")
	cmd.Flags().String("direction", "", "only show entries heading to this stop id")
	cmd.Flags().Int("per-route", 2, "entries shown per line and direction")
	cmd.Flags().StringToString("products", nil, "enable or disable products, e.g. bus=false,tram=true")
}

func init() {
	rootCmd.AddCommand(departuresCmd)
	rootCmd.AddCommand(arrivalsCmd)
	addBoardFlags(departuresCmd)
	addBoardFlags(arrivalsCmd)
}
