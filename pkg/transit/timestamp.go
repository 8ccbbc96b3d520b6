package transit

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// TimeEncoding is how a given API version carries timestamps on the wire.
// It is chosen once per Client and never guessed from the data.
type TimeEncoding int

const (
	// EncodingISO8601 is used by the v5/v6 hafas-rest-api deployments.
	EncodingISO8601 TimeEncoding = iota
	// EncodingUnixSeconds is used by the first generation vbb-rest API.
	EncodingUnixSeconds
	// EncodingUnixMillis is used by deployments that forward HAFAS epoch millis.
	EncodingUnixMillis
)

func (e TimeEncoding) String() string {
	switch e {
	case EncodingISO8601:
		return "iso8601"
	case EncodingUnixSeconds:
		return "unix"
	case EncodingUnixMillis:
		return "unix-ms"
	default:
		return fmt.Sprintf("TimeEncoding(%d)", int(e))
	}
}

// ParseTimeEncoding accepts the names produced by String.
func ParseTimeEncoding(s string) (TimeEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "iso8601", "iso", "rfc3339", "":
		return EncodingISO8601, nil
	case "unix", "seconds", "unix-s":
		return EncodingUnixSeconds, nil
	case "unix-ms", "millis", "milliseconds":
		return EncodingUnixMillis, nil
	default:
		return EncodingISO8601, fmt.Errorf("invalid time encoding %q (allowed: iso8601, unix, unix-ms)", s)
	}
}

// Encode renders t in the wire form expected in query strings and
// response documents.
func (e TimeEncoding) Encode(t time.Time) any {
	switch e {
	case EncodingUnixSeconds:
		return t.Round(time.Second).Unix()
	case EncodingUnixMillis:
		return t.Round(time.Millisecond).UnixMilli()
	default:
		return t.Format(time.RFC3339)
	}
}

// decodeNumber converts a wire number into an instant.
func (e TimeEncoding) decodeNumber(n json.Number) (time.Time, error) {
	if e == EncodingISO8601 {
		return time.Time{}, fmt.Errorf("numeric timestamp %s where ISO 8601 was expected", n)
	}
	if i, err := n.Int64(); err == nil {
		if e == EncodingUnixSeconds {
			return time.Unix(i, 0), nil
		}
		return time.UnixMilli(i), nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("invalid numeric timestamp %s", n)
	}
	if e == EncodingUnixSeconds {
		return time.UnixMilli(int64(math.Round(f * 1000))), nil
	}
	return time.UnixMilli(int64(math.Round(f))), nil
}

// parseISO parses an absolute RFC 3339 timestamp. Anything without a
// date and an offset is relative and rejected.
func parseISO(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q is not an absolute RFC 3339 time", s)
	}
	return t, nil
}
