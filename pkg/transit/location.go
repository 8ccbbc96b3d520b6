package transit

import (
	"math"
	"strconv"
)

// Location is a from/to/origin parameter. It is closed: only Station,
// Address and POI implement it.
type Location interface {
	location()
}

// Station refers to a stop or station by its opaque id.
type Station struct {
	ID string
}

// Address is a free text address at a coordinate.
type Address struct {
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
}

// POI is a named, identified place that is not a stop.
type POI struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
}

func (Station) location() {}
func (Address) location() {}
func (POI) location()     {}

// StationID builds a Station from a numeric id, as used by the older APIs.
func StationID(id int64) Station {
	return Station{ID: strconv.FormatInt(id, 10)}
}

// Point is a bare coordinate, used by nearby queries.
type Point struct {
	Latitude  float64
	Longitude float64
}

// BoundingBox limits radar queries.
type BoundingBox struct {
	North float64
	West  float64
	South float64
	East  float64
}

// expandLocation appends the query keys for loc under prefix.
func expandLocation(q *Query, prefix string, loc Location, strict bool) error {
	switch l := loc.(type) {
	case Station:
		if l.ID == "" {
			return &InvalidLocationError{Param: prefix, Reason: "station id is empty"}
		}
		q.Add(prefix, l.ID)
	case *Station:
		if l == nil {
			return &InvalidLocationError{Param: prefix, Reason: "nil station"}
		}
		return expandLocation(q, prefix, *l, strict)
	case Address:
		if l.Name == "" && l.Address == "" {
			return &InvalidLocationError{Param: prefix, Reason: "address needs a name or an address"}
		}
		if err := checkCoords(prefix, l.Latitude, l.Longitude, strict); err != nil {
			return err
		}
		if l.Name != "" {
			q.Add(prefix+".name", l.Name)
		}
		if l.Address != "" {
			q.Add(prefix+".address", l.Address)
		}
		q.Add(prefix+".latitude", formatCoord(l.Latitude))
		q.Add(prefix+".longitude", formatCoord(l.Longitude))
	case *Address:
		if l == nil {
			return &InvalidLocationError{Param: prefix, Reason: "nil address"}
		}
		return expandLocation(q, prefix, *l, strict)
	case POI:
		if l.ID == "" {
			return &InvalidLocationError{Param: prefix, Reason: "poi id is empty"}
		}
		if err := checkCoords(prefix, l.Latitude, l.Longitude, strict); err != nil {
			return err
		}
		q.Add(prefix+".id", l.ID)
		if l.Name != "" {
			q.Add(prefix+".name", l.Name)
		}
		q.Add(prefix+".latitude", formatCoord(l.Latitude))
		q.Add(prefix+".longitude", formatCoord(l.Longitude))
	case *POI:
		if l == nil {
			return &InvalidLocationError{Param: prefix, Reason: "nil poi"}
		}
		return expandLocation(q, prefix, *l, strict)
	case nil:
		return &InvalidLocationError{Param: prefix, Reason: "location is missing"}
	default:
		return &InvalidLocationError{Param: prefix, Reason: "not a station, address or poi"}
	}
	return nil
}

func checkCoords(param string, lat, lon float64, strict bool) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return &InvalidLocationError{Param: param, Reason: "coordinates must be finite"}
	}
	if strict && (lat < -90 || lat > 90 || lon < -180 || lon > 180) {
		return &InvalidLocationError{Param: param, Reason: "coordinates out of range"}
	}
	return nil
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
