package transit

import (
	"errors"
	"math"
	"strconv"
	"testing"
	"time"
)

func TestQueryBuilder_StationVariant(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
	}{
		{name: "value", loc: Station{ID: "900000012103"}},
		{name: "pointer", loc: &Station{ID: "900000012103"}},
		{name: "numeric helper", loc: StationID(900000012103)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _, err := QueryBuilder{}.Build(Params{"p": tt.loc})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if q.Len() != 1 {
				t.Fatalf("expected exactly one key, got %+v", q.Params())
			}
			if v, ok := q.Get("p"); !ok || v != "900000012103" {
				t.Errorf("p = %q (present %v), want 900000012103", v, ok)
			}
		})
	}
}

func TestQueryBuilder_CoordinateVariants(t *testing.T) {
	tests := []struct {
		name     string
		loc      Location
		lat, lon float64
		wantKeys []string
	}{
		{
			name:     "address",
			loc:      Address{Name: "Torfstraße 17", Address: "13353 Berlin, Torfstraße 17", Latitude: 52.5416823, Longitude: 13.3491223},
			lat:      52.5416823,
			lon:      13.3491223,
			wantKeys: []string{"to.name", "to.address", "to.latitude", "to.longitude"},
		},
		{
			name:     "poi",
			loc:      POI{ID: "900980720", Name: "Berlin, Atze Musiktheater", Latitude: 52.543333, Longitude: 13.351686},
			lat:      52.543333,
			lon:      13.351686,
			wantKeys: []string{"to.id", "to.name", "to.latitude", "to.longitude"},
		},
		{
			name:     "negative coordinates",
			loc:      Address{Name: "Somewhere", Latitude: -33.8688, Longitude: -151.2093},
			lat:      -33.8688,
			lon:      -151.2093,
			wantKeys: []string{"to.name", "to.latitude", "to.longitude"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _, err := QueryBuilder{}.Build(Params{"to": tt.loc})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			params := q.Params()
			if len(params) != len(tt.wantKeys) {
				t.Fatalf("got keys %+v, want %v", params, tt.wantKeys)
			}
			for i, key := range tt.wantKeys {
				if params[i].Key != key {
					t.Errorf("key %d = %q, want %q", i, params[i].Key, key)
				}
			}

			for key, want := range map[string]float64{"to.latitude": tt.lat, "to.longitude": tt.lon} {
				raw, _ := q.Get(key)
				got, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					t.Fatalf("%s = %q is not a number", key, raw)
				}
				if math.Abs(got-want) > 1e-9 {
					t.Errorf("%s = %v, want %v", key, got, want)
				}
			}
		})
	}
}

type foreignLocation struct{}

func (foreignLocation) location() {}

func TestQueryBuilder_InvalidLocations(t *testing.T) {
	var nilStation *Station
	tests := []struct {
		name   string
		loc    any
		strict bool
	}{
		{name: "empty station id", loc: Station{}},
		{name: "nil station pointer", loc: nilStation},
		{name: "address without name", loc: Address{Latitude: 52.5, Longitude: 13.4}},
		{name: "poi without id", loc: POI{Name: "Zoo", Latitude: 52.5, Longitude: 13.4}},
		{name: "nan latitude", loc: Address{Name: "x", Latitude: math.NaN(), Longitude: 13.4}},
		{name: "infinite longitude", loc: POI{ID: "1", Latitude: 52.5, Longitude: math.Inf(1)}},
		{name: "out of range in strict mode", loc: Address{Name: "x", Latitude: 152.5, Longitude: 13.4}, strict: true},
		{name: "foreign implementation", loc: foreignLocation{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := QueryBuilder{Strict: tt.strict}.Build(Params{"from": tt.loc})
			var locErr *InvalidLocationError
			if !errors.As(err, &locErr) {
				t.Fatalf("Build() error = %v, want *InvalidLocationError", err)
			}
			if locErr.Param != "from" {
				t.Errorf("Param = %q, want from", locErr.Param)
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected error to match ErrInvalidArgument")
			}
		})
	}
}

func TestQueryBuilder_OutOfRangeAllowedWhenLenient(t *testing.T) {
	_, _, err := QueryBuilder{}.Build(Params{"from": Address{Name: "x", Latitude: 152.5, Longitude: 13.4}})
	if err != nil {
		t.Fatalf("Build() error = %v, want nil without strict validation", err)
	}
}

func TestQueryBuilder_WhenEncoding(t *testing.T) {
	when := time.Date(2026, 10, 19, 10, 0, 0, 400e6, time.FixedZone("CEST", 2*60*60))

	tests := []struct {
		encoding TimeEncoding
		want     string
	}{
		{encoding: EncodingUnixSeconds, want: strconv.FormatInt(when.Unix(), 10)},
		{encoding: EncodingUnixMillis, want: strconv.FormatInt(when.UnixMilli(), 10)},
		{encoding: EncodingISO8601, want: "2026-10-19T10:00:00+02:00"},
	}

	for _, tt := range tests {
		t.Run(tt.encoding.String(), func(t *testing.T) {
			q, _, err := QueryBuilder{Encoding: tt.encoding}.Build(Params{"when": when})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got, _ := q.Get("when"); got != tt.want {
				t.Errorf("when = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQueryBuilder_IdentifierPromoted(t *testing.T) {
	q, identifier, err := QueryBuilder{}.Build(Params{"identifier": "my-app", "results": 3})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if identifier != "my-app" {
		t.Errorf("identifier = %q, want my-app", identifier)
	}
	if _, ok := q.Get("identifier"); ok {
		t.Errorf("identifier must not remain in the query: %s", q.Encode())
	}

	if _, _, err := (QueryBuilder{}).Build(Params{"identifier": 42}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("non-string identifier: error = %v, want invalid argument", err)
	}
}

func TestQueryBuilder_Flattening(t *testing.T) {
	q, _, err := QueryBuilder{}.Build(Params{
		"products": map[string]bool{"bus": false, "suburban": true},
		"results":  5,
		"duration": 10 * time.Minute,
		"lines":    []string{"U6", "M10"},
		"filter":   Params{"operator": "BVG", "accessible": true},
		"skip":     nil,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := "duration=10&filter.accessible=true&filter.operator=BVG&lines=U6%2CM10&bus=false&suburban=true&results=5"
	if got := q.Encode(); got != want {
		t.Errorf("Encode() = %q\nwant        %q", got, want)
	}
}

func TestQueryBuilder_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{name: "unsupported type", params: Params{"results": struct{}{}}},
		{name: "nan", params: Params{"distance": math.NaN()}},
		{name: "duplicate after flattening", params: Params{"bus": true, "products": map[string]bool{"bus": false}}},
		{name: "empty key", params: Params{"": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := QueryBuilder{}.Build(tt.params)
			var argErr *InvalidArgumentError
			if !errors.As(err, &argErr) {
				t.Fatalf("Build() error = %v, want *InvalidArgumentError", err)
			}
		})
	}
}

func TestQuery_EncodeEscapes(t *testing.T) {
	var q Query
	q.Add("query", "Wolfenbüttel Fachhochschule & Co")
	q.Add("from.name", "a=b")

	want := "query=Wolfenb%C3%BCttel+Fachhochschule+%26+Co&from.name=a%3Db"
	if got := q.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}
