package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"transitctl/pkg/transit"
	"transitctl/pkg/tui"

	"github.com/spf13/cobra"
)

var linesCmd = &cobra.Command{
	Use:   "lines",
	Short: "Stream every line of the network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		opts := &transit.LinesOptions{Name: name}
		if flags.Changed("variants") {
			v, _ := flags.GetBool("variants")
			opts.Variants = &v
		}

		s, err := client.Lines(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer s.Close()

		n := 0
		err = drain(s, func(l transit.Line) {
			n++
			fmt.Printf("%-8s %-10s %s\n", l.Name, l.ProductName, l.ID)
		})
		logger.Debug("lines streamed", "count", n)
		return err
	},
}

var lineCmd = &cobra.Command{
	Use:   "line ID",
	Short: "Show a single line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var line *transit.Line
		var err error
		fetch("Fetching line...", func() {
			line, err = client.Line(cmd.Context(), args[0], nil)
		})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(os.Stdout, line)
		}
		fmt.Println(tui.Accent(line.Name))
		fmt.Printf("ID: %s\nProduct: %s (%s)\nMode: %s\n", line.ID, line.ProductName, line.Product, line.Mode)
		if line.Operator != nil {
			fmt.Printf("Operator: %s\n", line.Operator.Name)
		}
		return nil
	},
}

var radarCmd = &cobra.Command{
	Use:   "radar NORTH,WEST,SOUTH,EAST",
	Short: "Show vehicles moving inside a bounding box",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bbox, err := parseBoundingBox(args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		results, _ := flags.GetInt("results")
		frames, _ := flags.GetInt("frames")

		var movements []transit.Movement
		fetch("Scanning for vehicles...", func() {
			movements, err = client.Radar(cmd.Context(), bbox, &transit.RadarOptions{Results: results, Frames: frames})
		})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(os.Stdout, movements)
		}
		if len(movements) == 0 {
			fmt.Println("No vehicles in this area right now.")
			return nil
		}
		tui.PrintMovements(os.Stdout, movements)
		return nil
	},
}

var mapCmd = &cobra.Command{
	Use:   "map TYPE",
	Short: "Stream the records of a network map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := client.Map(cmd.Context(), args[0], nil)
		if err != nil {
			return err
		}
		defer s.Close()
		return drain(s, func(rec json.RawMessage) {
			fmt.Println(string(rec))
		})
	},
}

func parseBoundingBox(s string) (transit.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return transit.BoundingBox{}, fmt.Errorf("invalid bounding box '%s': expected north,west,south,east", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return transit.BoundingBox{}, fmt.Errorf("invalid bounding box '%s': %w", s, err)
		}
		v[i] = f
	}
	return transit.BoundingBox{North: v[0], West: v[1], South: v[2], East: v[3]}, nil
}

func init() {
	rootCmd.AddCommand(linesCmd)
	rootCmd.AddCommand(lineCmd)
	rootCmd.AddCommand(radarCmd)
	rootCmd.AddCommand(mapCmd)

	linesCmd.Flags().String("name", "", "only lines with this name")
	linesCmd.Flags().Bool("variants", false, "include line variants")

	radarCmd.Flags().IntP("results", "n", 32, "maximum number of vehicles")
	radarCmd.Flags().Int("frames", 3, "positions per vehicle")
}
