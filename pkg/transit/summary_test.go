package transit

import (
	"testing"
	"time"
)

func at(t time.Time) *time.Time { return &t }

func TestSummarizeDepartures(t *testing.T) {
	now := time.Date(2026, 2, 25, 8, 0, 0, 0, time.UTC)

	deps := []Departure{
		{Line: Line{Name: "Bus 420"}, Direction: "Campus", When: at(now.Add(5 * time.Minute))},
		{Line: Line{Name: "Bus 420"}, Direction: "Campus", When: at(now.Add(15 * time.Minute))},
		{Line: Line{Name: "Tram 1"}, Direction: "City Center", When: at(now.Add(2 * time.Minute))},
		{Line: Line{Name: "Bus 420"}, Direction: "Campus", When: at(now.Add(25 * time.Minute))},
		{Line: Line{Name: "Tram 1"}, Direction: "City Center", PlannedWhen: at(now.Add(12 * time.Minute))},
	}

	summary := SummarizeDepartures(deps, 2)

	if len(summary) != 2 {
		t.Fatalf("expected 2 unique routes, got %d", len(summary))
	}

	// Tram 1 leaves first (2 min)
	if summary[0].LineName != "Tram 1" {
		t.Errorf("expected first route to be Tram 1 because it's departing sooner, got %s", summary[0].LineName)
	}
	if len(summary[0].Departures) != 2 {
		t.Errorf("expected 2 departures for Tram 1, got %d", len(summary[0].Departures))
	}

	if summary[1].LineName != "Bus 420" {
		t.Errorf("expected second route to be Bus 420, got %s", summary[1].LineName)
	}
	if len(summary[1].Departures) != 2 {
		t.Errorf("expected exactly 2 departures for Bus 420 (clipping the 3rd), got %d", len(summary[1].Departures))
	}

	first, _ := summary[1].Departures[0].Time()
	second, _ := summary[1].Departures[1].Time()
	if first.After(second) {
		t.Errorf("departures within route are not sorted chronologically")
	}
}

func TestSummarizeDepartures_DropsCancelledAndUntimed(t *testing.T) {
	now := time.Date(2026, 2, 25, 8, 0, 0, 0, time.UTC)
	deps := []Departure{
		{Line: Line{Name: "RB 40"}, Direction: "Braunschweig"},
		{Line: Line{Name: "RB 40"}, Direction: "Braunschweig", When: at(now), Cancelled: true},
	}

	if summary := SummarizeDepartures(deps, 5); len(summary) != 0 {
		t.Errorf("expected no routes, got %+v", summary)
	}
}

func TestSummarizeDepartures_Empty(t *testing.T) {
	summary := SummarizeDepartures([]Departure{}, 5)
	if len(summary) != 0 {
		t.Errorf("expected empty output for empty input, got %d", len(summary))
	}
}
