package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"transitctl/pkg/transit"

	ics "github.com/arran4/golang-ical"
)

// JourneyICS writes one calendar event per journey, spanning first
// departure to last arrival, with the legs listed in the description.
// Journeys without times are skipped.
func JourneyICS(journeys []transit.Journey, w io.Writer) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//transitctl//journeys//EN")

	for i, j := range journeys {
		start, ok := j.DepartureTime()
		if !ok {
			continue
		}
		end, ok := j.ArrivalTime()
		if !ok || end.Before(start) {
			continue
		}

		legs := j.AllLegs()
		event := cal.AddEvent(fmt.Sprintf("%s-%d@transitctl", start.UTC().Format("20060102T150405Z"), i))
		event.SetCreatedTime(time.Now())
		event.SetDtStampTime(time.Now())
		event.SetModifiedAt(time.Now())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(summary(legs))
		if len(legs) > 0 {
			event.SetLocation(placeName(legs[0].Origin))
		}
		event.SetDescription(describeLegs(legs))
	}

	return cal.SerializeTo(w)
}

func summary(legs []transit.Leg) string {
	if len(legs) == 0 {
		return "Journey"
	}
	return fmt.Sprintf("%s → %s", placeName(legs[0].Origin), placeName(legs[len(legs)-1].Destination))
}

func describeLegs(legs []transit.Leg) string {
	var b strings.Builder
	for _, leg := range legs {
		dep, _ := leg.DepartureTime()
		arr, _ := leg.ArrivalTime()

		mode := "Walk"
		if !leg.Walking && leg.Line != nil {
			mode = leg.Line.Name
		}
		fmt.Fprintf(&b, "%s %s → %s %s (%s)", clock(dep), placeName(leg.Origin), clock(arr), placeName(leg.Destination), mode)
		if leg.DeparturePlatform != nil && *leg.DeparturePlatform != "" {
			fmt.Fprintf(&b, ", platform %s", *leg.DeparturePlatform)
		}
		if leg.Cancelled {
			b.WriteString(", CANCELLED")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func placeName(p *transit.Place) string {
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
	return t.Format("15:04")
}
