package transit

import (
	"strings"
	"time"
)

// Paths holds the route templates of an API generation. %s is replaced by
// the escaped id.
type Paths struct {
	Locations  string
	Nearby     string
	Stations   string
	Station    string
	Departures string
	Arrivals   string
	Lines      string
	Line       string
	Journeys   string
	Refresh    string
	Trip       string
	Map        string
	Radar      string

	// JourneysWhen is the query key carrying a journey's departure time.
	JourneysWhen string
}

// DefaultPaths are the routes of hafas-rest-api v5 and v6.
func DefaultPaths() Paths {
	return Paths{
		Locations:  "/locations",
		Nearby:     "/locations/nearby",
		Stations:   "/stations",
		Station:    "/stops/%s",
		Departures: "/stops/%s/departures",
		Arrivals:   "/stops/%s/arrivals",
		Lines:      "/lines",
		Line:       "/lines/%s",
		Journeys:   "/journeys",
		Refresh:    "/journeys/%s",
		Trip:       "/trips/%s",
		Map:        "/maps/%s",
		Radar:      "/radar",

		JourneysWhen: "departure",
	}
}

// LegacyPaths are the routes of the first generation vbb-rest API.
func LegacyPaths() Paths {
	p := DefaultPaths()
	p.Nearby = "/stations/nearby"
	p.Station = "/stations/%s"
	p.Departures = "/stations/%s/departures"
	p.Arrivals = "/stations/%s/arrivals"
	p.Journeys = "/routes"
	p.Refresh = "/routes/%s"
	p.JourneysWhen = "when"
	return p
}

// CallOptions are accepted by every operation.
type CallOptions struct {
	// Identifier is sent as X-Identifier for this call only.
	Identifier string
	// Params are passed through to the query string. Typed option fields
	// take precedence over entries with the same key.
	Params Params
}

func (o *CallOptions) params() Params {
	p := Params{}
	if o == nil {
		return p
	}
	for k, v := range o.Params {
		p[k] = v
	}
	if o.Identifier != "" {
		p["identifier"] = o.Identifier
	}
	return p
}

// LocationsOptions tune a free text location search.
type LocationsOptions struct {
	CallOptions
	Results      int
	Fuzzy        *bool
	Stops        *bool
	Addresses    *bool
	POI          *bool
	LinesOfStops bool
	Language     string
}

// NearbyOptions tune a nearby stop search.
type NearbyOptions struct {
	CallOptions
	Results      int
	Distance     int // metres
	Stops        *bool
	POI          *bool
	LinesOfStops bool
	Language     string
}

// StationsOptions tune a station search.
type StationsOptions struct {
	CallOptions
	Results int
	Fuzzy   *bool
}

// BoardOptions tune departure and arrival boards.
type BoardOptions struct {
	CallOptions
	When time.Time
	// Duration is the window after When, in minutes.
	Duration     int
	Results      int
	Direction    string
	LinesOfStops bool
	Remarks      *bool
	Language     string
	Products     map[string]bool
}

// JourneysOptions tune a journey search. Departure and Arrival are
// mutually exclusive.
type JourneysOptions struct {
	CallOptions
	Departure     time.Time
	Arrival       time.Time
	EarlierThan   string
	LaterThan     string
	Results       int
	Via           Location
	Stopovers     bool
	Transfers     *int
	TransferTime  int // minutes
	Accessibility string
	Bike          bool
	Tickets       bool
	Polylines     bool
	Remarks       *bool
	Language      string
	Products      map[string]bool
}

// RefreshOptions tune a journey refresh.
type RefreshOptions struct {
	CallOptions
	Stopovers bool
	Tickets   bool
	Polylines bool
	Remarks   *bool
	Language  string
}

// TripOptions tune a trip lookup.
type TripOptions struct {
	CallOptions
	Stopovers *bool
	Remarks   *bool
	Polyline  bool
	Language  string
}

// LinesOptions tune the line listing.
type LinesOptions struct {
	CallOptions
	Name     string
	Variants *bool
}

// RadarOptions tune a radar query.
type RadarOptions struct {
	CallOptions
	When      time.Time
	Results   int
	Duration  int // seconds
	Frames    int
	Polylines bool
}

func setString(p Params, key, v string) {
	if v != "" {
		p[key] = v
	}
}

func setInt(p Params, key string, v int) {
	if v != 0 {
		p[key] = v
	}
}

func setTrue(p Params, key string, v bool) {
	if v {
		p[key] = true
	}
}

func setBool(p Params, key string, v *bool) {
	if v != nil {
		p[key] = *v
	}
}

// setProducts merges products into p. A raw param with the name of a
// product is dropped in favour of the typed value.
func setProducts(p Params, products map[string]bool) {
	if len(products) == 0 {
		return
	}
	for name := range products {
		delete(p, name)
	}
	p["products"] = products
}

func setTime(p Params, key string, t time.Time) {
	if !t.IsZero() {
		p[key] = t
	}
}

func requireID(param, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalidArg(param, "must not be empty")
	}
	return nil
}

func (c *Client) checkCount(param string, n int) error {
	if c.strict && n < 0 {
		return invalidArg(param, "must not be negative, got %d", n)
	}
	return nil
}
