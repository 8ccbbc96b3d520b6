package transit

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

// legacyRoutes is a first generation /routes response: unix seconds,
// nested parts and passed stops.
const legacyRoutes = `[
	{
		"start": 1760860800,
		"end": 1760863200,
		"parts": [
			{
				"start": 1760860800,
				"end": 1760861700,
				"from": {"type": "station", "id": 900000012103, "name": "U Friedrichstr."},
				"to": {"type": "station", "id": 900000100001, "name": "S+U Alexanderplatz"},
				"product": {"line": "U6", "type": {"unicode": "U"}},
				"passed": [
					{"station": {"id": 900000100027}, "arrival": 1760861100, "departure": 1760861160},
					{"station": {"id": 900000100028}, "arrival": null, "departure": 1760861400}
				]
			},
			{
				"start": 1760862000,
				"end": 1760863200,
				"from": {"type": "station", "id": 900000100001},
				"to": {"type": "station", "id": 900000013102},
				"delay": 120,
				"future": {"fields": ["kept"], "count": 1e3}
			}
		]
	}
]`

func secondsNormalizer() Normalizer {
	return Normalizer{Encoding: EncodingUnixSeconds}
}

func TestNormalize_UnixSecondsToMillis(t *testing.T) {
	raw := `[{"when": 1760860800, "direction": "S Hoppegarten"}, {"when": 1760861100}]`

	doc, err := secondsNormalizer().Normalize([]byte(raw), ShapeDepartures)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	var deps []Departure
	if err := doc.Decode(&deps); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	for i, want := range []int64{1760860800, 1760861100} {
		if deps[i].When == nil {
			t.Fatalf("departure %d lost its when", i)
		}
		if got := deps[i].When.UnixMilli(); got != want*1000 {
			t.Errorf("departure %d: epoch millis = %d, want %d", i, got, want*1000)
		}
	}
}

func TestNormalize_ConvertsEveryNestedTimestamp(t *testing.T) {
	doc, err := secondsNormalizer().Normalize([]byte(legacyRoutes), ShapeJourneys)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	var tree any
	if err := json.Unmarshal(doc, &tree); err != nil {
		t.Fatalf("normalized output is not JSON: %v", err)
	}

	converted := 0
	var check func(v any, path string)
	check = func(v any, path string) {
		switch n := v.(type) {
		case map[string]any:
			for k, child := range n {
				if ShapeJourneys.fields[k] && child != nil {
					s, ok := child.(string)
					if !ok {
						t.Errorf("%s.%s left unconverted: %v", path, k, child)
						continue
					}
					if _, err := time.Parse(time.RFC3339, s); err != nil {
						t.Errorf("%s.%s = %q is not RFC 3339", path, k, s)
					}
					converted++
					continue
				}
				check(child, path+"."+k)
			}
		case []any:
			for _, child := range n {
				check(child, path+"[]")
			}
		}
	}
	check(tree, "$")

	// 2 journey + 4 part + 3 passed timestamps
	if converted != 9 {
		t.Errorf("converted %d timestamps, want 9", converted)
	}

	var journeys []Journey
	if err := doc.Decode(&journeys); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	passed := journeys[0].Parts[0].IntermediateStops()
	if len(passed) != 2 || passed[0].Arrival == nil || passed[0].Arrival.Unix() != 1760861100 {
		t.Errorf("passed stops not converted: %+v", passed)
	}
	if passed[1].Arrival != nil {
		t.Errorf("null arrival must stay absent, got %v", passed[1].Arrival)
	}
}

func TestNormalize_PassesUnknownFieldsThrough(t *testing.T) {
	doc, err := secondsNormalizer().Normalize([]byte(legacyRoutes), ShapeJourneys)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	for _, want := range []string{
		`"future":{"count":1e3,"fields":["kept"]}`,
		`"id":900000012103`,
		`"delay":120`,
		`"unicode":"U"`,
	} {
		if !bytes.Contains(doc, []byte(want)) {
			t.Errorf("normalized output lost %s:\n%s", want, doc)
		}
	}
}

func TestNormalize_NullAndAbsentStayAbsent(t *testing.T) {
	doc, err := Normalizer{}.Normalize([]byte(`{"departures":[{"when":null,"plannedWhen":"2026-10-19T10:00:00+02:00"},{"direction":"x"}]}`), ShapeDepartures)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	want := `{"departures":[{"plannedWhen":"2026-10-19T10:00:00+02:00","when":null},{"direction":"x"}]}`
	if string(doc) != want {
		t.Errorf("Normalize() = %s\nwant          %s", doc, want)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := Normalizer{Encoding: EncodingUnixSeconds, Location: time.FixedZone("CEST", 2*60*60)}

	first, err := n.Normalize([]byte(legacyRoutes), ShapeJourneys)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := n.Normalize([]byte(legacyRoutes), ShapeJourneys)
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d produced different bytes:\n%s\n%s", i, first, again)
		}
	}
	if !bytes.Contains(first, []byte(`"start":"2025-10-19T10:00:00+02:00"`)) {
		t.Errorf("expected timestamps rendered in the configured zone:\n%s", first)
	}
}

func TestNormalize_SecondApplicationIsNoop(t *testing.T) {
	for _, enc := range []TimeEncoding{EncodingUnixSeconds, EncodingUnixMillis, EncodingISO8601} {
		t.Run(enc.String(), func(t *testing.T) {
			n := Normalizer{Encoding: enc}
			raw := legacyRoutes
			if enc == EncodingUnixMillis {
				raw = `[{"start": 1760860800000, "end": 1760863200500, "legs": [{"departure": 1760860800000}]}]`
			}
			if enc == EncodingISO8601 {
				raw = `{"journeys":[{"legs":[{"departure":"2025-10-19T10:00:00+02:00","arrival":"2025-10-19T10:40:00.5+02:00"}]}]}`
			}

			once, err := n.Normalize([]byte(raw), ShapeJourneys)
			if err != nil {
				t.Fatalf("first Normalize() error = %v", err)
			}
			twice, err := n.Normalize([]byte(once), ShapeJourneys)
			if err != nil {
				t.Fatalf("second Normalize() error = %v", err)
			}
			if !bytes.Equal(once, twice) {
				t.Errorf("second application changed the document:\n%s\n%s", once, twice)
			}
		})
	}
}

func TestNormalize_RoundTripToWire(t *testing.T) {
	tests := []struct {
		encoding TimeEncoding
		raw      string
		want     any
	}{
		{encoding: EncodingUnixSeconds, raw: `{"when": 1760860800}`, want: int64(1760860800)},
		{encoding: EncodingUnixMillis, raw: `{"when": 1760860800123}`, want: int64(1760860800123)},
		{encoding: EncodingISO8601, raw: `{"when": "2025-10-19T10:00:00+02:00"}`, want: "2025-10-19T10:00:00+02:00"},
	}

	for _, tt := range tests {
		t.Run(tt.encoding.String(), func(t *testing.T) {
			doc, err := Normalizer{Encoding: tt.encoding}.Normalize([]byte(tt.raw), ShapeDepartures)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			var dep Departure
			if err := doc.Decode(&dep); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got := tt.encoding.Encode(*dep.When); got != tt.want {
				t.Errorf("Encode() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name     string
		encoding TimeEncoding
		raw      string
		shape    Shape
	}{
		{name: "number under iso encoding", encoding: EncodingISO8601, raw: `{"when": 1760860800}`, shape: ShapeDepartures},
		{name: "relative time", encoding: EncodingISO8601, raw: `{"when": "10:00"}`, shape: ShapeDepartures},
		{name: "date without offset", encoding: EncodingUnixSeconds, raw: `{"when": "2025-10-19T10:00:00"}`, shape: ShapeDepartures},
		{name: "boolean", encoding: EncodingUnixSeconds, raw: `{"legs":[{"arrival": true}]}`, shape: ShapeJourneys},
		{name: "malformed json", encoding: EncodingUnixSeconds, raw: `{"when": `, shape: ShapeDepartures},
		{name: "trailing data", encoding: EncodingUnixSeconds, raw: `{} {}`, shape: ShapeDepartures},
		{name: "unknown shape", encoding: EncodingUnixSeconds, raw: `{}`, shape: Shape{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalizer{Encoding: tt.encoding}.Normalize([]byte(tt.raw), tt.shape)
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("Normalize() error = %v, want *DecodeError", err)
			}
		})
	}
}

func TestNormalize_ErrorNamesPath(t *testing.T) {
	_, err := Normalizer{}.Normalize([]byte(`{"journeys":[{"legs":[{"departure": 5}]}]}`), ShapeJourneys)
	if err == nil || !strings.Contains(err.Error(), "$.journeys[0].legs[0].departure") {
		t.Errorf("error = %v, want it to name the offending path", err)
	}
}

func TestShape_FieldsDeclared(t *testing.T) {
	if got := ShapeStations.TimestampFields(); len(got) != 0 {
		t.Errorf("stations carry no timestamps, got %v", got)
	}
	got := strings.Join(ShapeDepartures.TimestampFields(), ",")
	if got != "plannedWhen,prognosedWhen,when" {
		t.Errorf("departure fields = %s", got)
	}
}
