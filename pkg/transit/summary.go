package transit

import (
	"sort"
)

// SummarizedRoute holds the next few departures for a unique line and destination.
type SummarizedRoute struct {
	LineName   string
	Direction  string
	Departures []Departure
}

// SummarizeDepartures sorts departures by effective time and groups them by Line and Direction,
// limiting the output to maxPerRoute departures per unique route.
// Cancelled departures and entries without any time are dropped.
func SummarizeDepartures(deps []Departure, maxPerRoute int) []SummarizedRoute {
	var valid []Departure
	for _, d := range deps {
		if _, ok := d.Time(); ok && !d.Cancelled {
			valid = append(valid, d)
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		ti, _ := valid[i].Time()
		tj, _ := valid[j].Time()
		return ti.Before(tj)
	})

	routeMap := make(map[string]*SummarizedRoute)
	var routeKeys []string // order of first appearance, which is chronological now

	for _, d := range valid {
		key := d.Line.Name + "|" + d.Direction
		if _, exists := routeMap[key]; !exists {
			routeMap[key] = &SummarizedRoute{
				LineName:  d.Line.Name,
				Direction: d.Direction,
			}
			routeKeys = append(routeKeys, key)
		}

		if len(routeMap[key].Departures) < maxPerRoute {
			routeMap[key].Departures = append(routeMap[key].Departures, d)
		}
	}

	var result []SummarizedRoute
	for _, key := range routeKeys {
		result = append(result, *routeMap[key])
	}

	return result
}
