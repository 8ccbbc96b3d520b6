package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"transitctl/pkg/transit"
)

func at(t time.Time) *time.Time { return &t }

func TestPrintBoard(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local)
	delay := 180
	platform := "2"

	entries := []transit.StationBoardEntry{
		{Line: transit.Line{Name: "U6"}, Direction: "Alt-Mariendorf", When: at(now.Add(4 * time.Minute)), Delay: &delay, Platform: &platform},
		{Line: transit.Line{Name: "M10"}, Provenance: "S+U Hauptbahnhof", When: at(now.Add(2 * time.Minute))},
		{Line: transit.Line{Name: "U6"}, Direction: "Alt-Mariendorf", When: at(now.Add(9 * time.Minute)), Cancelled: true},
	}

	var buf bytes.Buffer
	PrintBoard(&buf, "Departures", entries, 2)
	out := buf.String()

	for _, want := range []string{
		"--- Departures ---",
		"M10 -> S+U Hauptbahnhof",
		"U6 -> Alt-Mariendorf",
		"[10:04] (+3 min delay) platform 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "10:09") {
		t.Errorf("cancelled departure must not be listed:\n%s", out)
	}
	if strings.Index(out, "M10") > strings.Index(out, "U6") {
		t.Errorf("routes not ordered by first departure:\n%s", out)
	}
}

func TestPrintBoard_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintBoard(&buf, "Arrivals", nil, 2)
	if !strings.Contains(buf.String(), "Nothing scheduled") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPrintJourney(t *testing.T) {
	start := time.Date(2026, 10, 19, 10, 2, 0, 0, time.Local)
	j := transit.Journey{
		RefreshToken: "T$A=1",
		Legs: []transit.Leg{
			{
				Destination: &transit.Place{Name: "U Friedrichstr."},
				Departure:   at(start),
				Arrival:     at(start.Add(5 * time.Minute)),
				Walking:     true,
			},
			{
				Destination: &transit.Place{Name: "U Hermannplatz"},
				Departure:   at(start.Add(8 * time.Minute)),
				Arrival:     at(start.Add(25 * time.Minute)),
				Line:        &transit.Line{Name: "U6", Product: "subway"},
			},
		},
	}

	var buf bytes.Buffer
	PrintJourney(&buf, j)
	out := buf.String()

	for _, want := range []string{
		"10:02 - 10:27, 25m0s, 0 transfer(s)",
		"1. [10:02] Walk🚶 -> U Friedrichstr. (Arrive: 10:07)",
		"2. [10:10] U6 Subway -> U Hermannplatz (Arrive: 10:27)",
		"refresh token: T$A=1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}

func TestPrintPlaces(t *testing.T) {
	distance := 120
	places := []transit.Place{
		{Type: "stop", ID: "900000100001", Name: "S+U Alexanderplatz", Distance: &distance, Products: transit.Products{"suburban": true, "bus": false, "subway": true}},
		{Type: "location", Address: "Torfstraße 17, 13353 Berlin"},
	}

	var buf bytes.Buffer
	PrintPlaces(&buf, places)
	out := buf.String()

	if !strings.Contains(out, "S+U Alexanderplatz (900000100001) [stop] 120 m suburban,subway") {
		t.Errorf("stop line wrong:\n%s", out)
	}
	if !strings.Contains(out, "Torfstraße 17, 13353 Berlin [address]") {
		t.Errorf("address line wrong:\n%s", out)
	}
}
