// Package impact computes the composite cascading-impact scores and the
// per-flight ranking. Both stages are documented weighted heuristics over
// raw minute/count units — not calibrated models — so every coefficient
// comes from configuration.
package impact

import (
	"sort"

	"go.uber.org/zap"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/config"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/features"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/propagation"
)

// FlightImpact is the per-flight-identity impact aggregate. Instances are
// recomputed wholesale each run and never mutated after creation.
type FlightImpact struct {
	FlightNumber string  `json:"flight_number"`
	Route        string  `json:"route"` // first observed route
	Score        float64 `json:"comprehensive_impact_score"`
	CascadeScore float64 `json:"cascading_impact_score"` // mean over occurrences
	AvgDepDelay  float64 `json:"avg_departure_delay_minutes"`
	AvgArrDelay  float64 `json:"avg_arrival_delay_minutes"`
	FlightFreq   float64 `json:"flight_frequency"` // first observed
	RouteFreq    float64 `json:"route_frequency"`  // first observed
	Betweenness  float64 `json:"betweenness_centrality"`
	Closeness    float64 `json:"closeness_centrality"`
	Eigenvector  float64 `json:"eigenvector_centrality"`
	NetworkScore float64 `json:"network_centrality"`
}

// Scorer produces impact scores and rankings.
type Scorer struct {
	cascade config.CascadeWeights
	comp    config.ComprehensiveWeights
	logger  *zap.Logger
}

// NewScorer creates a Scorer. A nil logger is replaced with a nop.
func NewScorer(cascade config.CascadeWeights, comp config.ComprehensiveWeights, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{cascade: cascade, comp: comp, logger: logger}
}

// Score joins the centrality measures onto the feature table, fills each
// row's CascadeScore, and returns per-flight impact aggregates ranked by
// descending comprehensive score. Ties keep first-seen order (stable sort),
// so identical input always produces an identical ranking.
func (s *Scorer) Score(t *features.Table, c *propagation.Centrality) []FlightImpact {
	// Per-record stage: cascade score and centrality join.
	for i := range t.Rows {
		row := &t.Rows[i]
		row.Betweenness = c.Betweenness[row.Record.FlightNumber]
		row.Closeness = c.Closeness[row.Record.FlightNumber]
		row.Eigenvector = c.EigenSlot[row.Record.FlightNumber]
		row.CascadeScore = s.cascade.DepDelay*row.Record.DepDelayMin +
			s.cascade.ArrDelay*row.Record.ArrDelayMin +
			s.cascade.Risk*row.PropagationRisk +
			s.cascade.FlightFreq*row.FlightFreq +
			s.cascade.RouteFreq*row.RouteFreq
	}

	// Per-identity aggregation, in first-seen flight order.
	out := make([]FlightImpact, 0, len(t.Flights()))
	for _, fn := range t.Flights() {
		rows := t.FlightRows(fn)
		fi := FlightImpact{FlightNumber: fn}
		first := t.Rows[rows[0]]
		fi.Route = first.Record.Route
		fi.FlightFreq = first.FlightFreq
		fi.RouteFreq = first.RouteFreq
		fi.Betweenness = c.Betweenness[fn]
		fi.Closeness = c.Closeness[fn]
		fi.Eigenvector = c.EigenSlot[fn]

		var cascadeSum, depSum, arrSum, netSum, compSum float64
		for _, ri := range rows {
			row := t.Rows[ri]
			network := row.FlightFreq * row.RouteFreq / 1000
			comp := s.comp.Cascade*row.CascadeScore +
				s.comp.Betweenness*row.Betweenness +
				s.comp.Closeness*row.Closeness +
				s.comp.Eigenvector*row.Eigenvector +
				s.comp.Network*network
			cascadeSum += row.CascadeScore
			depSum += row.Record.DepDelayMin
			arrSum += row.Record.ArrDelayMin
			netSum += network
			compSum += comp
		}
		n := float64(len(rows))
		fi.CascadeScore = cascadeSum / n
		fi.AvgDepDelay = depSum / n
		fi.AvgArrDelay = arrSum / n
		fi.NetworkScore = netSum / n
		fi.Score = compSum / n
		out = append(out, fi)
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })

	s.logger.Debug("impact ranking computed",
		zap.Int("flights", len(out)),
		zap.String("eigenvector_measure", c.MeasureUsed))
	return out
}

// TopN returns the first n entries of a ranking (all of it when n exceeds
// the length).
func TopN(ranked []FlightImpact, n int) []FlightImpact {
	if n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
