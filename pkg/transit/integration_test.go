package transit

import (
	"context"
	"testing"
	"time"
)

func integrationClient(t *testing.T) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	client, err := NewClient(DefaultOptions())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestTransitIntegration_Locations(t *testing.T) {
	client := integrationClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	locations, err := client.Locations(ctx, "Wolfenbüttel Fachhochschule", &LocationsOptions{Results: 5})
	if err != nil {
		t.Fatalf("Failed to fetch locations: %v", err)
	}
	if len(locations) == 0 {
		t.Fatal("Expected at least one location, got 0")
	}
	for _, loc := range locations {
		if loc.Name == "" && loc.Address == "" {
			t.Errorf("Location missing name: %+v", loc)
		}
	}
}

func TestTransitIntegration_Departures(t *testing.T) {
	client := integrationClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 8000049 is Braunschweig Hbf, served around the clock
	deps, err := client.Departures(ctx, "8000049", &BoardOptions{Duration: 120})
	if err != nil {
		t.Fatalf("Failed to fetch departures: %v", err)
	}
	if len(deps) == 0 {
		t.Logf("Got 0 departures. Note: this might happen late at night.")
	}
	for _, dep := range deps {
		if dep.Line.Name == "" {
			t.Errorf("Departure missing line name: %+v", dep)
		}
		if _, ok := dep.Time(); !ok && !dep.Cancelled {
			t.Errorf("Departure missing time: %+v", dep)
		}
	}
}

func TestTransitIntegration_Journeys(t *testing.T) {
	client := integrationClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Braunschweig Hbf to Wolfsburg Hbf
	res, err := client.Journeys(ctx, StationID(8000049), StationID(8006552), &JourneysOptions{Results: 1})
	if err != nil {
		t.Fatalf("Failed to fetch journeys: %v", err)
	}
	if len(res.Journeys) == 0 {
		t.Fatal("Expected at least one journey")
	}
	dep, ok1 := res.Journeys[0].DepartureTime()
	arr, ok2 := res.Journeys[0].ArrivalTime()
	if ok1 && ok2 && arr.Before(dep) {
		t.Errorf("arrival %v before departure %v", arr, dep)
	}
}
