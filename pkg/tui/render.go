package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"transitctl/pkg/transit"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	lineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	productCaser = cases.Title(language.English)
)

// Accent renders s in the configured accent color.
func Accent(s string) string { return accentStyle.Render(s) }

// Error renders s as an error message.
func Error(s string) string { return errorStyle.Render(s) }

// PrintBoard prints a departure or arrival board grouped by line and
// direction, at most perRoute entries per group.
func PrintBoard(w io.Writer, title string, entries []transit.StationBoardEntry, perRoute int) {
	fmt.Fprintln(w, accentStyle.Render(fmt.Sprintf("\n--- %s ---", title)))

	// arrivals carry their origin as provenance
	board := make([]transit.StationBoardEntry, len(entries))
	for i, e := range entries {
		if e.Direction == "" {
			e.Direction = e.Provenance
		}
		board[i] = e
	}

	summary := transit.SummarizeDepartures(board, perRoute)
	if len(summary) == 0 {
		fmt.Fprintln(w, errorStyle.Render("Nothing scheduled in this time window."))
		return
	}

	for _, route := range summary {
		fmt.Fprintf(w, "\n%s -> %s\n", lineStyle.Render(route.LineName), route.Direction)

		for _, d := range route.Departures {
			at, _ := d.Time()
			fmt.Fprintf(w, "  • [%s]%s%s\n", timeStyle.Render(clock(at)), delayText(d.Delay), platformText(d.Platform))
		}
	}
	fmt.Fprintln(w)
}

// PrintJourney prints the legs of j, one line per leg.
func PrintJourney(w io.Writer, j transit.Journey) {
	legs := j.AllLegs()
	dep, _ := j.DepartureTime()
	arr, _ := j.ArrivalTime()
	if !dep.IsZero() && !arr.IsZero() {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s - %s, %s, %d transfer(s)",
			clock(dep), clock(arr), arr.Sub(dep).Round(time.Minute), transfers(legs))))
	}

	for i, leg := range legs {
		lineName := "Walk🚶"
		if !leg.Walking && leg.Line != nil {
			lineName = leg.Line.Name
			if leg.Line.Product != "" {
				lineName += " " + mutedStyle.Render(productCaser.String(leg.Line.Product))
			}
		}

		legDep, _ := leg.DepartureTime()
		legArr, _ := leg.ArrivalTime()

		status := ""
		if leg.Cancelled {
			status = errorStyle.Render(" CANCELLED")
		}

		fmt.Fprintf(w, "%d. [%s]%s %s -> %s (%s)%s\n",
			i+1,
			timeStyle.Render(clock(legDep)),
			delayText(leg.DepartureDelay),
			lineStyle.Render(lineName),
			PlaceName(leg.Destination),
			mutedStyle.Render("Arrive: "+clock(legArr)),
			status,
		)
	}
	if j.RefreshToken != "" {
		fmt.Fprintln(w, mutedStyle.Render("refresh token: "+j.RefreshToken))
	}
	fmt.Fprintln(w)
}

// PrintPlaces prints search results with their ids and distances.
func PrintPlaces(w io.Writer, places []transit.Place) {
	for _, p := range places {
		kind := p.Type
		switch {
		case p.POI:
			kind = "poi"
		case kind == "location" && p.Address != "":
			kind = "address"
		}

		line := fmt.Sprintf("  • %s", lineStyle.Render(PlaceName(&p)))
		if p.ID != "" {
			line += " " + mutedStyle.Render("("+string(p.ID)+")")
		}
		if kind != "" {
			line += " " + mutedStyle.Render("["+kind+"]")
		}
		if p.Distance != nil {
			line += fmt.Sprintf(" %d m", *p.Distance)
		}
		if products := activeProducts(p.Products); products != "" {
			line += " " + mutedStyle.Render(products)
		}
		fmt.Fprintln(w, line)
	}
}

// PrintMovements prints the vehicles found by a radar query.
func PrintMovements(w io.Writer, movements []transit.Movement) {
	for _, m := range movements {
		pos := "?"
		if m.Location != nil {
			pos = fmt.Sprintf("%.5f,%.5f", m.Location.Latitude, m.Location.Longitude)
		}
		lineName := "?"
		if m.Line != nil {
			lineName = m.Line.Name
		}
		next := ""
		if len(m.NextStopovers) > 0 {
			next = " next: " + PlaceName(m.NextStopovers[0].Stop)
		}
		fmt.Fprintf(w, "  • %s -> %s %s%s\n", lineStyle.Render(lineName), m.Direction, mutedStyle.Render(pos), next)
	}
}

// PlaceName returns the most readable label of p.
func PlaceName(p *transit.Place) string {
	switch {
	case p == nil:
		return "?"
	case p.Name != "":
		return p.Name
	case p.Address != "":
		return p.Address
	default:
		return string(p.ID)
	}
}

func clock(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Local().Format("15:04")
}

func delayText(delay *int) string {
	if delay == nil || *delay < 60 {
		return ""
	}
	return errorStyle.Render(fmt.Sprintf(" (+%d min delay)", *delay/60))
}

func platformText(platform *string) string {
	if platform == nil || *platform == "" {
		return ""
	}
	return mutedStyle.Render(" platform " + *platform)
}

func transfers(legs []transit.Leg) int {
	rides := 0
	for _, l := range legs {
		if !l.Walking {
			rides++
		}
	}
	if rides == 0 {
		return 0
	}
	return rides - 1
}

func activeProducts(p transit.Products) string {
	var names []string
	for name, on := range p {
		if on {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
