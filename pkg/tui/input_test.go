package tui

import (
	"testing"
	"time"
)

func TestParseWhen(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, loc)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "", want: time.Time{}},
		{in: "now", want: now},
		{in: "+45m", want: now.Add(45 * time.Minute)},
		{in: "17:05", want: time.Date(2026, 10, 19, 17, 5, 0, 0, loc)},
		{in: "2026-10-20 08:00", want: time.Date(2026, 10, 20, 8, 0, 0, 0, loc)},
		{in: "2026-10-19T10:00:00+02:00", want: time.Date(2026, 10, 19, 10, 0, 0, 0, loc)},
		{in: "tomorrow", wantErr: true},
		{in: "+soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWhen(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWhen(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseWhen(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint(" 52.5219 , 13.4132")
	if err != nil {
		t.Fatalf("ParsePoint() error = %v", err)
	}
	if p.Latitude != 52.5219 || p.Longitude != 13.4132 {
		t.Errorf("got %+v", p)
	}

	for _, bad := range []string{"52.5", "north,13.4", "52.5,east"} {
		if _, err := ParsePoint(bad); err == nil {
			t.Errorf("ParsePoint(%q) accepted invalid input", bad)
		}
	}
}
