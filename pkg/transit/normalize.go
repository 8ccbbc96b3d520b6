package transit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Shape names a response document kind and the timestamp fields it carries.
type Shape struct {
	name   string
	fields map[string]bool
}

func newShape(name string, fields ...string) Shape {
	s := Shape{name: name, fields: make(map[string]bool, len(fields))}
	for _, f := range fields {
		s.fields[f] = true
	}
	return s
}

func (s Shape) String() string { return s.name }

// TimestampFields lists the keys converted at any depth of this shape.
func (s Shape) TimestampFields() []string { return sortedKeys(s.fields) }

var (
	boardFields = []string{"when", "plannedWhen", "prognosedWhen"}
	tripFields  = []string{
		"when", "plannedWhen", "prognosedWhen",
		"departure", "plannedDeparture", "prognosedDeparture",
		"arrival", "plannedArrival", "prognosedArrival",
		"start", "end",
	}
)

var (
	ShapeLocations  = newShape("locations")
	ShapeStations   = newShape("stations")
	ShapeStation    = newShape("station")
	ShapeDepartures = newShape("departures", boardFields...)
	ShapeArrivals   = newShape("arrivals", boardFields...)
	ShapeLines      = newShape("lines")
	ShapeLine       = newShape("line")
	ShapeJourneys   = newShape("journeys", tripFields...)
	ShapeJourney    = newShape("journey", tripFields...)
	ShapeTrip       = newShape("trip", tripFields...)
	ShapeRadar      = newShape("radar", tripFields...)
	ShapeMap        = newShape("map")
)

// Normalized is a response document whose timestamps have been rewritten to
// RFC 3339 strings. It is a separate type so it cannot be passed back into
// Normalize by accident.
type Normalized json.RawMessage

// MarshalJSON lets Normalized be embedded in other documents unchanged.
func (n Normalized) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return n, nil
}

// Decode unmarshals the normalized document into v.
func (n Normalized) Decode(v any) error {
	if err := json.Unmarshal(n, v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// Normalizer rewrites wire timestamps of one API version into RFC 3339.
// It is pure: the same input always yields the same bytes.
type Normalizer struct {
	Encoding TimeEncoding
	// Location is the zone numeric timestamps are rendered in. Nil means UTC.
	Location *time.Location
}

// Normalize converts every timestamp field declared by shape, at any
// depth, and passes all other fields through untouched. Absent and null
// timestamps stay absent and null.
func (n Normalizer) Normalize(raw []byte, shape Shape) (Normalized, error) {
	if shape.fields == nil {
		return nil, &DecodeError{Err: errors.New("unknown response shape")}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &DecodeError{Err: errors.New("trailing data after JSON document")}
	}

	doc, err := n.walk(doc, shape, "$")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return Normalized(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func (n Normalizer) walk(v any, shape Shape, path string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			p := path + "." + k
			var err error
			if shape.fields[k] {
				t[k], err = n.convert(val, shape, p)
			} else {
				t[k], err = n.walk(val, shape, p)
			}
			if err != nil {
				return nil, err
			}
		}
	case []any:
		for i, val := range t {
			w, err := n.walk(val, shape, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			t[i] = w
		}
	}
	return v, nil
}

func (n Normalizer) convert(v any, shape Shape, path string) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		ts, err := n.Encoding.decodeNumber(t)
		if err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		return n.format(ts), nil
	case string:
		ts, err := parseISO(t)
		if err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		if n.Encoding != EncodingISO8601 {
			// A string under a numeric encoding was converted by an earlier pass.
			return t, nil
		}
		return ts.Format(time.RFC3339Nano), nil
	case map[string]any, []any:
		return n.walk(v, shape, path)
	default:
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("unexpected %T in timestamp field", v)}
	}
}

func (n Normalizer) format(t time.Time) string {
	loc := n.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(time.RFC3339Nano)
}
