package propagation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/features"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

// ---------------------------------------------------------------------------
// Test data
// ---------------------------------------------------------------------------

func day(hour, min int) time.Time {
	return time.Date(2025, 7, 21, hour, min, 0, 0, time.UTC)
}

func propRec(flight, route string, schedDep, actualArr time.Time, depDelay, arrDelay float64) models.FlightRecord {
	return models.FlightRecord{
		FlightNumber: flight,
		Route:        route,
		Date:         "2025-07-21",
		ScheduledDep: schedDep,
		ActualDep:    schedDep.Add(time.Duration(depDelay) * time.Minute),
		ScheduledArr: actualArr.Add(-time.Duration(arrDelay) * time.Minute),
		ActualArr:    actualArr,
		DepDelayMin:  depDelay,
		ArrDelayMin:  arrDelay,
		DurationMin:  120,
		HourOfDay:    schedDep.Hour(),
	}
}

func buildTable(t *testing.T, records []models.FlightRecord) *features.Table {
	t.Helper()
	table, err := features.NewEngineer(nil).Compute(records)
	require.NoError(t, err)
	return table
}

// ---------------------------------------------------------------------------
// Edge weight
// ---------------------------------------------------------------------------

func TestEdgeWeight(t *testing.T) {
	b := NewBuilder(Params{HorizonMinutes: 120}, nil)

	assert.Equal(t, 1.0, b.EdgeWeight(0))
	assert.InDelta(t, 0.5, b.EdgeWeight(60), 1e-9)
	assert.Equal(t, 0.0, b.EdgeWeight(120))
	assert.Equal(t, 0.0, b.EdgeWeight(500))
	assert.Equal(t, 0.0, b.EdgeWeight(-1))

	// Strictly decreasing across the open horizon.
	prev := b.EdgeWeight(0)
	for gap := 10.0; gap < 120; gap += 10 {
		w := b.EdgeWeight(gap)
		assert.Less(t, w, prev, "gap %v", gap)
		prev = w
	}
}

// ---------------------------------------------------------------------------
// Graph construction
// ---------------------------------------------------------------------------

func TestBuildCreatesQualifyingEdge(t *testing.T) {
	// AI101 arrives 10 minutes late at 10:00; AI202 departs at 10:40 with
	// its own departure delay. 40-minute gap inside the horizon.
	records := []models.FlightRecord{
		propRec("AI101", "BOM-DEL", day(8, 0), day(10, 0), 12, 10),
		propRec("AI202", "DEL-BLR", day(10, 40), day(12, 40), 5, 5),
	}
	table := buildTable(t, records)
	g := NewBuilder(Params{HorizonMinutes: 120}, nil).Build(table)

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 1, g.EdgeCount())

	w, ok := g.Weight("AI101", "AI202")
	require.True(t, ok)
	assert.InDelta(t, 1-40.0/120.0, w, 1e-9)

	// Risk accumulates on the downstream flight only.
	assert.InDelta(t, w, table.Rows[1].PropagationRisk, 1e-9)
	assert.Equal(t, 0.0, table.Rows[0].PropagationRisk)

	avg, freq, ok := g.NodeStats("AI101")
	require.True(t, ok)
	assert.Equal(t, 12.0, avg)
	assert.Equal(t, 1, freq)
}

func TestBuildSkipsNonQualifyingPairs(t *testing.T) {
	for _, tc := range []struct {
		name    string
		records []models.FlightRecord
	}{
		{
			"upstream on time",
			[]models.FlightRecord{
				propRec("AI101", "BOM-DEL", day(8, 0), day(10, 0), 12, 0),
				propRec("AI202", "DEL-BLR", day(10, 40), day(12, 40), 5, 5),
			},
		},
		{
			"downstream on time",
			[]models.FlightRecord{
				propRec("AI101", "BOM-DEL", day(8, 0), day(10, 0), 12, 10),
				propRec("AI202", "DEL-BLR", day(10, 40), day(12, 40), 0, 5),
			},
		},
		{
			"gap beyond horizon",
			[]models.FlightRecord{
				propRec("AI101", "BOM-DEL", day(6, 0), day(8, 0), 12, 10),
				propRec("AI202", "DEL-BLR", day(10, 30), day(12, 30), 5, 5),
			},
		},
		{
			"downstream departs before upstream lands",
			[]models.FlightRecord{
				propRec("AI101", "BOM-DEL", day(8, 0), day(11, 0), 12, 10),
				propRec("AI202", "DEL-BLR", day(10, 30), day(13, 0), 5, 5),
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			table := buildTable(t, tc.records)
			g := NewBuilder(Params{HorizonMinutes: 120}, nil).Build(table)
			assert.Equal(t, 0, g.EdgeCount())
			// Both identities still become nodes.
			assert.Equal(t, 2, g.Len())
		})
	}
}

func TestBuildPerRouteMode(t *testing.T) {
	// Cross-route pair qualifies in global mode but not in per-route mode:
	// the two flights serve different routes.
	records := []models.FlightRecord{
		propRec("AI101", "BOM-DEL", day(8, 0), day(10, 0), 12, 10),
		propRec("AI202", "DEL-BLR", day(10, 40), day(12, 40), 5, 5),
	}

	global := NewBuilder(Params{HorizonMinutes: 120, Mode: ModeGlobal}, nil).
		Build(buildTable(t, records))
	assert.Equal(t, 1, global.EdgeCount())

	perRoute := NewBuilder(Params{HorizonMinutes: 120, Mode: ModePerRoute}, nil).
		Build(buildTable(t, records))
	assert.Equal(t, 0, perRoute.EdgeCount())
}

func TestBuildSeparatesDates(t *testing.T) {
	// Same pairing split across two dates never forms an edge.
	a := propRec("AI101", "BOM-DEL", day(8, 0), day(10, 0), 12, 10)
	b := propRec("AI202", "DEL-BLR", day(10, 40).AddDate(0, 0, 1), day(12, 40).AddDate(0, 0, 1), 5, 5)
	b.Date = "2025-07-22"

	g := NewBuilder(Params{HorizonMinutes: 120}, nil).
		Build(buildTable(t, []models.FlightRecord{a, b}))
	assert.Equal(t, 0, g.EdgeCount())
}

func TestBuildDeterministic(t *testing.T) {
	records := []models.FlightRecord{
		propRec("AI303", "BLR-DEL", day(7, 0), day(9, 30), 8, 12),
		propRec("AI101", "BOM-DEL", day(8, 0), day(10, 0), 12, 10),
		propRec("AI202", "DEL-BLR", day(10, 40), day(12, 40), 5, 5),
	}
	g1 := NewBuilder(Params{HorizonMinutes: 120}, nil).Build(buildTable(t, records))
	g2 := NewBuilder(Params{HorizonMinutes: 120}, nil).Build(buildTable(t, records))

	assert.Equal(t, g1.Nodes(), g2.Nodes())
	assert.Equal(t, g1.EdgeCount(), g2.EdgeCount())
}

func TestParseModeNames(t *testing.T) {
	assert.Equal(t, ModePerRoute, ParseMode("per_route"))
	assert.Equal(t, ModeGlobal, ParseMode("global"))
	assert.Equal(t, ModeGlobal, ParseMode("anything-else"))
	assert.Equal(t, "global", ModeGlobal.String())
	assert.Equal(t, "per_route", ModePerRoute.String())
}
