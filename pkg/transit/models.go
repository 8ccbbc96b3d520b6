package transit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ID accepts both the numeric ids of the old APIs and the string ids of
// the current ones.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Coordinates is the nested location object of the current APIs.
type Coordinates struct {
	Type      string  `json:"type,omitempty"`
	ID        ID      `json:"id,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Products maps product names ("bus", "suburban", ...) to availability.
type Products map[string]bool

// Place is a station, stop, address or POI as returned by the API.
type Place struct {
	Type     string       `json:"type"`
	ID       ID           `json:"id,omitempty"`
	Name     string       `json:"name,omitempty"`
	Address  string       `json:"address,omitempty"`
	POI      bool         `json:"poi,omitempty"`
	Location *Coordinates `json:"location,omitempty"`
	// Latitude and Longitude are set directly by the first generation API.
	Latitude  float64  `json:"latitude,omitempty"`
	Longitude float64  `json:"longitude,omitempty"`
	Products  Products `json:"products,omitempty"`
	Distance  *int     `json:"distance,omitempty"`
	Station   *Place   `json:"station,omitempty"`
	Lines     []Line   `json:"lines,omitempty"`
}

// Coordinates returns the place's position, whichever API shape carried it.
func (p Place) Coordinates() (lat, lon float64, ok bool) {
	if p.Location != nil {
		return p.Location.Latitude, p.Location.Longitude, true
	}
	if p.Latitude != 0 || p.Longitude != 0 {
		return p.Latitude, p.Longitude, true
	}
	return 0, 0, false
}

// IsStop reports whether the place can be used as a departure board.
func (p Place) IsStop() bool {
	return p.Type == "station" || p.Type == "stop"
}

// AsLocation converts a search result back into a query Location.
func (p Place) AsLocation() (Location, error) {
	lat, lon, _ := p.Coordinates()
	switch {
	case p.IsStop():
		return Station{ID: string(p.ID)}, nil
	case p.POI || p.Type == "poi" || (p.Location != nil && p.Location.Type == "poi"):
		return POI{ID: string(p.ID), Name: p.Name, Latitude: lat, Longitude: lon}, nil
	case p.Type == "location" || p.Type == "address" || p.Address != "":
		addr := p.Address
		if addr == "" && p.Location != nil {
			addr = p.Location.Address
		}
		name := p.Name
		if name == "" {
			name = addr
		}
		return Address{Name: name, Address: addr, Latitude: lat, Longitude: lon}, nil
	}
	return nil, &InvalidLocationError{Param: string(p.ID), Reason: fmt.Sprintf("place type %q has no query form", p.Type)}
}

// Operator runs a line.
type Operator struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Line holds the information about the specific bus/train
type Line struct {
	Type        string    `json:"type,omitempty"`
	ID          ID        `json:"id,omitempty"`
	FahrtNr     string    `json:"fahrtNr,omitempty"`
	Name        string    `json:"name"`
	Public      bool      `json:"public,omitempty"`
	Mode        string    `json:"mode,omitempty"`
	Product     string    `json:"product,omitempty"`
	ProductName string    `json:"productName,omitempty"` // e.g. "Bus", "RB"
	Operator    *Operator `json:"operator,omitempty"`
}

// Remark is a hint or warning attached to a departure, leg or journey.
type Remark struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Summary string `json:"summary,omitempty"`
	Text    string `json:"text,omitempty"`
}

// StationBoardEntry is one departure or arrival at a stop.
type StationBoardEntry struct {
	TripID string `json:"tripId,omitempty"`
	Stop   *Place `json:"stop,omitempty"`
	// Station is where the first generation API put the stop.
	Station         *Place     `json:"station,omitempty"`
	When            *time.Time `json:"when,omitempty"`
	PlannedWhen     *time.Time `json:"plannedWhen,omitempty"`
	Delay           *int       `json:"delay,omitempty"`
	Platform        *string    `json:"platform,omitempty"`
	PlannedPlatform *string    `json:"plannedPlatform,omitempty"`
	Direction       string     `json:"direction,omitempty"`
	Provenance      string     `json:"provenance,omitempty"`
	Line            Line       `json:"line"`
	Cancelled       bool       `json:"cancelled,omitempty"`
	Remarks         []Remark   `json:"remarks,omitempty"`
	// Product is the first generation form of Line.
	Product *LegacyProduct `json:"product,omitempty"`
}

// LegacyProduct describes the line of a first generation board entry.
type LegacyProduct struct {
	Line string `json:"line"`
	Type struct {
		Type  string `json:"type,omitempty"`
		Name  string `json:"name,omitempty"`
		Short string `json:"short,omitempty"`
	} `json:"type"`
}

// UnmarshalJSON fills Line from Product when the entry comes from the
// first generation API.
func (e *StationBoardEntry) UnmarshalJSON(data []byte) error {
	type plain StationBoardEntry
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = StationBoardEntry(v)
	if e.Line.Name == "" && e.Product != nil {
		e.Line.Name = e.Product.Line
		e.Line.Product = e.Product.Type.Type
		e.Line.ProductName = e.Product.Type.Name
	}
	return nil
}

// Departure represents a single transport leaving a station
type Departure = StationBoardEntry

// Arrival represents a single transport reaching a station
type Arrival = StationBoardEntry

// Time is the realtime instant if known, otherwise the planned one.
func (e StationBoardEntry) Time() (time.Time, bool) {
	if e.When != nil {
		return *e.When, true
	}
	if e.PlannedWhen != nil {
		return *e.PlannedWhen, true
	}
	return time.Time{}, false
}

// Stopover is a stop passed during a leg or trip.
type Stopover struct {
	Stop              *Place     `json:"stop,omitempty"`
	Arrival           *time.Time `json:"arrival,omitempty"`
	PlannedArrival    *time.Time `json:"plannedArrival,omitempty"`
	ArrivalDelay      *int       `json:"arrivalDelay,omitempty"`
	ArrivalPlatform   *string    `json:"arrivalPlatform,omitempty"`
	Departure         *time.Time `json:"departure,omitempty"`
	PlannedDeparture  *time.Time `json:"plannedDeparture,omitempty"`
	DepartureDelay    *int       `json:"departureDelay,omitempty"`
	DeparturePlatform *string    `json:"departurePlatform,omitempty"`
	Cancelled         bool       `json:"cancelled,omitempty"`
	Remarks           []Remark   `json:"remarks,omitempty"`
}

// Leg is a single continuous part of a journey (e.g., walking, or one bus ride)
type Leg struct {
	TripID            string     `json:"tripId,omitempty"`
	Origin            *Place     `json:"origin,omitempty"`
	Destination       *Place     `json:"destination,omitempty"`
	Departure         *time.Time `json:"departure,omitempty"`
	PlannedDeparture  *time.Time `json:"plannedDeparture,omitempty"`
	DepartureDelay    *int       `json:"departureDelay,omitempty"`
	DeparturePlatform *string    `json:"departurePlatform,omitempty"`
	Arrival           *time.Time `json:"arrival,omitempty"`
	PlannedArrival    *time.Time `json:"plannedArrival,omitempty"`
	ArrivalDelay      *int       `json:"arrivalDelay,omitempty"`
	ArrivalPlatform   *string    `json:"arrivalPlatform,omitempty"`
	// Start and End are the first generation names for departure and arrival.
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
	Line      *Line      `json:"line,omitempty"`
	Direction string     `json:"direction,omitempty"`
	Walking   bool       `json:"walking,omitempty"`
	Distance  *int       `json:"distance,omitempty"`
	Cancelled bool       `json:"cancelled,omitempty"`
	Stopovers []Stopover `json:"stopovers,omitempty"`
	// Passed is the first generation name for Stopovers.
	Passed  []Stopover `json:"passed,omitempty"`
	Remarks []Remark   `json:"remarks,omitempty"`
}

// DepartureTime returns the realtime, planned or legacy start time.
func (l Leg) DepartureTime() (time.Time, bool) {
	return firstTime(l.Departure, l.PlannedDeparture, l.Start)
}

// ArrivalTime returns the realtime, planned or legacy end time.
func (l Leg) ArrivalTime() (time.Time, bool) {
	return firstTime(l.Arrival, l.PlannedArrival, l.End)
}

// IntermediateStops returns the stops passed during the leg.
func (l Leg) IntermediateStops() []Stopover {
	if len(l.Stopovers) > 0 {
		return l.Stopovers
	}
	return l.Passed
}

// Journey represents a start-to-finish trip, potentially with transfers
type Journey struct {
	Type         string `json:"type,omitempty"`
	Legs         []Leg  `json:"legs,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	// Parts, Start and End are the first generation journey layout.
	Parts   []Leg      `json:"parts,omitempty"`
	Start   *time.Time `json:"start,omitempty"`
	End     *time.Time `json:"end,omitempty"`
	Remarks []Remark   `json:"remarks,omitempty"`
	Price   *Price     `json:"price,omitempty"`
}

// Price is the fare estimate of a journey.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
	Hint     string  `json:"hint,omitempty"`
}

// AllLegs returns the legs whichever API shape carried them.
func (j Journey) AllLegs() []Leg {
	if len(j.Legs) > 0 {
		return j.Legs
	}
	return j.Parts
}

// DepartureTime is the departure of the first leg.
func (j Journey) DepartureTime() (time.Time, bool) {
	if j.Start != nil {
		return *j.Start, true
	}
	legs := j.AllLegs()
	if len(legs) == 0 {
		return time.Time{}, false
	}
	return legs[0].DepartureTime()
}

// ArrivalTime is the arrival of the last leg.
func (j Journey) ArrivalTime() (time.Time, bool) {
	if j.End != nil {
		return *j.End, true
	}
	legs := j.AllLegs()
	if len(legs) == 0 {
		return time.Time{}, false
	}
	return legs[len(legs)-1].ArrivalTime()
}

// JourneysResult is the response of a journey search.
type JourneysResult struct {
	Journeys              []Journey `json:"journeys"`
	EarlierRef            string    `json:"earlierRef,omitempty"`
	LaterRef              string    `json:"laterRef,omitempty"`
	RealtimeDataUpdatedAt *int64    `json:"realtimeDataUpdatedAt,omitempty"`
}

// Trip is a single vehicle run from its first to its last stop.
type Trip struct {
	ID string `json:"id"`
	Leg
}

// Frame is one interpolated position step of a Movement.
type Frame struct {
	Origin      *Place `json:"origin,omitempty"`
	Destination *Place `json:"destination,omitempty"`
	T           int64  `json:"t"`
}

// Movement is a vehicle position returned by radar.
type Movement struct {
	Direction     string       `json:"direction,omitempty"`
	TripID        string       `json:"tripId,omitempty"`
	Line          *Line        `json:"line,omitempty"`
	Location      *Coordinates `json:"location,omitempty"`
	NextStopovers []Stopover   `json:"nextStopovers,omitempty"`
	Frames        []Frame      `json:"frames,omitempty"`
}

func firstTime(ts ...*time.Time) (time.Time, bool) {
	for _, t := range ts {
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}
