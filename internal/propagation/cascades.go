package propagation

import (
	"sort"
	"time"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/features"
)

// CascadePair is one observed upstream/downstream pairing on a route where
// the upstream departure delay plausibly cascades into the next departure.
type CascadePair struct {
	Route          string    `json:"route"`
	FlightNumber   string    `json:"flight_number"`
	Date           string    `json:"date"`
	DelayMinutes   float64   `json:"delay_minutes"`
	GapMinutes     float64   `json:"time_gap_minutes"`
	CascadeImpact  float64   `json:"cascade_impact"`
	NextFlight     string    `json:"next_flight"`
	NextFlightTime time.Time `json:"next_flight_time"`
}

// Cascades lists route-adjacent flight pairs whose cascade impact — the
// upstream departure delay scaled by the remaining buffer fraction
// (horizon − gap)/horizon — meets minImpact. Pairs are ordered by
// descending impact, ties keeping scan order. Unlike the propagation
// graph, the gap here is between scheduled departures: this view asks how
// tightly the route's schedule is packed, not whether a late arrival ate
// the turnaround buffer.
func (b *Builder) Cascades(t *features.Table, minImpact float64) []CascadePair {
	routes := make(map[string][]int)
	var routeOrder []string
	for i := range t.Rows {
		route := t.Rows[i].Record.Route
		if _, seen := routes[route]; !seen {
			routeOrder = append(routeOrder, route)
		}
		routes[route] = append(routes[route], i)
	}
	sort.Strings(routeOrder)

	var out []CascadePair
	for _, route := range routeOrder {
		seq := routes[route]
		if len(seq) < 2 {
			continue
		}
		sort.SliceStable(seq, func(a, b int) bool {
			return t.Rows[seq[a]].Record.ScheduledDep.Before(t.Rows[seq[b]].Record.ScheduledDep)
		})
		for k := 0; k+1 < len(seq); k++ {
			up := t.Rows[seq[k]].Record
			down := t.Rows[seq[k+1]].Record
			gap := down.ScheduledDep.Sub(up.ScheduledDep).Minutes()
			if up.DepDelayMin <= 0 || gap < 0 || gap >= b.params.HorizonMinutes {
				continue
			}
			impact := up.DepDelayMin * (b.params.HorizonMinutes - gap) / b.params.HorizonMinutes
			if impact < minImpact {
				continue
			}
			out = append(out, CascadePair{
				Route:          route,
				FlightNumber:   up.FlightNumber,
				Date:           up.Date,
				DelayMinutes:   up.DepDelayMin,
				GapMinutes:     gap,
				CascadeImpact:  impact,
				NextFlight:     down.FlightNumber,
				NextFlightTime: down.ScheduledDep,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CascadeImpact > out[j].CascadeImpact })
	return out
}
