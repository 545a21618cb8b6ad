package predict

import (
	"gonum.org/v1/gonum/stat"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/features"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

// Target selects what the fitted model predicts.
type Target int

const (
	// TargetImpactScore predicts the per-record cascading impact score from
	// the engineered feature set (diagnostic model).
	TargetImpactScore Target = iota

	// TargetTotalDelay predicts departure+arrival delay from schedule
	// features only; this is the model the schedule simulator queries.
	// Delay columns are deliberately excluded from its inputs — historical
	// per-flight delay aggregates stand in for them.
	TargetTotalDelay
)

func (t Target) String() string {
	if t == TargetTotalDelay {
		return "total_delay"
	}
	return "impact_score"
}

// flightAgg holds per-flight historical delay aggregates used as features
// by the delay model.
type flightAgg struct {
	avgDep     float64
	avgArr     float64
	volatility float64 // sample std of departure delay; 0 for singletons
}

// Vectorizer assembles model feature vectors from feature-table rows. One
// Vectorizer is built per training run and captured by the fitted model, so
// prediction-time vectors always match the training layout.
type Vectorizer struct {
	target Target
	aggs   map[string]flightAgg
}

// NewVectorizer prepares vector assembly for the given target over t.
func NewVectorizer(t *features.Table, target Target) *Vectorizer {
	v := &Vectorizer{target: target}
	if target != TargetTotalDelay {
		return v
	}
	v.aggs = make(map[string]flightAgg, len(t.Flights()))
	for _, fn := range t.Flights() {
		rows := t.FlightRows(fn)
		dep := make([]float64, len(rows))
		arr := make([]float64, len(rows))
		for k, ri := range rows {
			dep[k] = t.Rows[ri].Record.DepDelayMin
			arr[k] = t.Rows[ri].Record.ArrDelayMin
		}
		agg := flightAgg{avgDep: stat.Mean(dep, nil), avgArr: stat.Mean(arr, nil)}
		if len(dep) > 1 {
			agg.volatility = stat.StdDev(dep, nil)
		}
		v.aggs[fn] = agg
	}
	return v
}

// Names returns the feature names in vector order.
func (v *Vectorizer) Names() []string {
	if v.target == TargetTotalDelay {
		return []string{
			"hour_of_day", "minute", "day_of_week", "weekend", "peak_time",
			"duration_minutes", "peak_weekend", "hour_peak",
			"avg_departure_delay", "avg_arrival_delay", "delay_volatility",
			"flight_code", "route_code", "origin_code", "dest_code",
		}
	}
	return []string{
		"departure_delay_minutes", "arrival_delay_minutes", "duration_minutes",
		"flight_frequency", "route_frequency", "delay_propagation_risk",
		"route_avg_delay", "hour_avg_delay",
		"betweenness_centrality", "closeness_centrality", "eigenvector_centrality",
		"network_centrality", "peak_time", "weekend",
		"flight_code", "route_code", "origin_code", "dest_code",
	}
}

// Row assembles the feature vector for a row at its recorded schedule.
func (v *Vectorizer) Row(row *features.Row) []float64 {
	return v.RowWithTime(row, row.Record.HourOfDay, row.Record.ScheduledDep.Minute())
}

// RowWithTime assembles the feature vector for a row as if it were
// scheduled at hour:minute. The time-dependent features (hour, peak flag,
// peak×weekend, hour×peak) are recomputed; everything else keeps the row's
// historical values. This is the hook the schedule simulator uses.
func (v *Vectorizer) RowWithTime(row *features.Row, hour, minute int) []float64 {
	peak := models.IsPeakHour(hour)
	if v.target == TargetTotalDelay {
		agg := v.aggs[row.Record.FlightNumber]
		return []float64{
			float64(hour), float64(minute), float64(row.Record.DayOfWeek),
			b2f(row.Record.Weekend), b2f(peak),
			row.Record.DurationMin,
			b2f(peak) * b2f(row.Record.Weekend),
			float64(hour) * b2f(peak),
			agg.avgDep, agg.avgArr, agg.volatility,
			row.FlightCode, row.RouteCode, row.OriginCode, row.DestCode,
		}
	}
	return []float64{
		row.Record.DepDelayMin, row.Record.ArrDelayMin, row.Record.DurationMin,
		row.FlightFreq, row.RouteFreq, row.PropagationRisk,
		row.RouteAvgDelay, row.HourAvgDelay,
		row.Betweenness, row.Closeness, row.Eigenvector,
		row.FlightFreq * row.RouteFreq / 1000,
		b2f(peak), b2f(row.Record.Weekend),
		row.FlightCode, row.RouteCode, row.OriginCode, row.DestCode,
	}
}

// TargetValue extracts the training target for a row.
func (v *Vectorizer) TargetValue(row *features.Row) float64 {
	if v.target == TargetTotalDelay {
		return row.Record.TotalDelayMin()
	}
	return row.CascadeScore
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
