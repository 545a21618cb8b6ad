// Package features derives per-record analysis features from raw flight
// records: frequency tallies, group-mean delays joined back onto each
// record, and stable identity encodings. The transform is pure — it builds
// a fresh Table and never mutates the input records.
package features

import (
	"go.uber.org/zap"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

// Row pairs one flight record with its derived features. The propagation
// and impact stages fill PropagationRisk, the centrality fields and
// CascadeScore after the table is built; everything else is computed here.
type Row struct {
	Record models.FlightRecord

	FlightFreq    float64 // records sharing the flight number
	RouteFreq     float64 // records sharing the route
	RouteAvgDelay float64 // mean departure delay on the route
	HourAvgDelay  float64 // mean departure delay in the scheduled hour

	PropagationRisk float64 // accumulated by the propagation graph builder
	CascadeScore    float64 // weighted heuristic, set by the impact scorer

	Betweenness float64
	Closeness   float64
	Eigenvector float64 // degree centrality when the power iteration fails

	// Insertion-ordered identity encodings for the predictor.
	FlightCode float64
	RouteCode  float64
	OriginCode float64
	DestCode   float64
}

// Table is one feature-engineered dataset. It is produced fresh per
// analysis invocation and treated as immutable by readers; only the
// propagation builder and impact scorer write into their designated fields.
type Table struct {
	Rows []Row

	flightRows map[string][]int // flight number → row indices, in input order
	routeRows  map[string][]int
	flights    []string // distinct flight numbers, insertion order
}

// Engineer computes derived features.
type Engineer struct {
	logger *zap.Logger
}

// NewEngineer creates an Engineer. A nil logger is replaced with a nop.
func NewEngineer(logger *zap.Logger) *Engineer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engineer{logger: logger}
}

// Compute builds the feature table for records. It fails with
// *models.DataError when a record is missing a required field; routes
// without a "-" separator are tolerated (origin/destination stay unset).
func (e *Engineer) Compute(records []models.FlightRecord) (*Table, error) {
	if err := validate(records); err != nil {
		return nil, err
	}

	t := &Table{
		Rows:       make([]Row, len(records)),
		flightRows: make(map[string][]int),
		routeRows:  make(map[string][]int),
	}

	// Frequency tallies and group sums in one pass.
	routeDelaySum := make(map[string]float64)
	hourDelaySum := make(map[int]float64)
	hourCount := make(map[int]float64)

	for i, rec := range records {
		t.Rows[i].Record = rec
		if _, seen := t.flightRows[rec.FlightNumber]; !seen {
			t.flights = append(t.flights, rec.FlightNumber)
		}
		t.flightRows[rec.FlightNumber] = append(t.flightRows[rec.FlightNumber], i)
		t.routeRows[rec.Route] = append(t.routeRows[rec.Route], i)
		routeDelaySum[rec.Route] += rec.DepDelayMin
		hourDelaySum[rec.HourOfDay] += rec.DepDelayMin
		hourCount[rec.HourOfDay]++
	}

	// Insertion-ordered label encodings keep re-runs deterministic.
	flightEnc := make(map[string]int)
	routeEnc := make(map[string]int)
	originEnc := make(map[string]int)
	destEnc := make(map[string]int)

	for i := range t.Rows {
		rec := &t.Rows[i].Record
		t.Rows[i].FlightFreq = float64(len(t.flightRows[rec.FlightNumber]))
		t.Rows[i].RouteFreq = float64(len(t.routeRows[rec.Route]))
		t.Rows[i].RouteAvgDelay = routeDelaySum[rec.Route] / float64(len(t.routeRows[rec.Route]))
		t.Rows[i].HourAvgDelay = hourDelaySum[rec.HourOfDay] / hourCount[rec.HourOfDay]
		t.Rows[i].FlightCode = float64(encode(flightEnc, rec.FlightNumber))
		t.Rows[i].RouteCode = float64(encode(routeEnc, rec.Route))
		t.Rows[i].OriginCode = float64(encode(originEnc, rec.Origin()))
		t.Rows[i].DestCode = float64(encode(destEnc, rec.Destination()))
	}

	e.logger.Debug("feature table built",
		zap.Int("records", len(records)),
		zap.Int("flights", len(t.flights)),
		zap.Int("routes", len(t.routeRows)))
	return t, nil
}

func validate(records []models.FlightRecord) error {
	for _, rec := range records {
		switch {
		case rec.FlightNumber == "":
			return &models.DataError{Column: "Flight_Number", Reason: "empty flight number"}
		case rec.Route == "":
			return &models.DataError{Column: "Route", Reason: "empty route"}
		case rec.ScheduledDep.IsZero():
			return &models.DataError{Column: "STD_DateTime", Reason: "missing scheduled departure"}
		case rec.ActualArr.IsZero():
			return &models.DataError{Column: "ATA_DateTime", Reason: "missing actual arrival"}
		}
	}
	return nil
}

func encode(enc map[string]int, key string) int {
	if v, ok := enc[key]; ok {
		return v
	}
	v := len(enc)
	enc[key] = v
	return v
}

// Flights returns the distinct flight numbers in first-seen order.
func (t *Table) Flights() []string { return t.flights }

// FlightRows returns the row indices for a flight number, in input order.
func (t *Table) FlightRows(flightNumber string) []int {
	return t.flightRows[flightNumber]
}

// RouteRows returns the row indices for a route, in input order.
func (t *Table) RouteRows(route string) []int { return t.routeRows[route] }

// Routes returns the number of distinct routes.
func (t *Table) Routes() int { return len(t.routeRows) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }
