package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

func rec(flight, route string, hour int, depDelay float64) models.FlightRecord {
	dep := time.Date(2025, 7, 21, hour, 0, 0, 0, time.UTC)
	return models.FlightRecord{
		FlightNumber: flight,
		Route:        route,
		Date:         "2025-07-21",
		ScheduledDep: dep,
		ActualDep:    dep.Add(time.Duration(depDelay) * time.Minute),
		ScheduledArr: dep.Add(2 * time.Hour),
		ActualArr:    dep.Add(2 * time.Hour),
		DepDelayMin:  depDelay,
		DurationMin:  120,
		HourOfDay:    hour,
	}
}

func TestComputeFrequenciesAndGroupMeans(t *testing.T) {
	records := []models.FlightRecord{
		rec("AI101", "BOM-DEL", 9, 10),
		rec("AI101", "BOM-DEL", 9, 20),
		rec("AI202", "BOM-DEL", 14, 30),
		rec("AI303", "DEL-BLR", 14, 40),
	}
	table, err := NewEngineer(nil).Compute(records)
	require.NoError(t, err)
	require.Equal(t, 4, table.Len())

	assert.Equal(t, 2.0, table.Rows[0].FlightFreq)
	assert.Equal(t, 1.0, table.Rows[2].FlightFreq)
	assert.Equal(t, 3.0, table.Rows[0].RouteFreq)
	assert.Equal(t, 1.0, table.Rows[3].RouteFreq)

	// BOM-DEL mean departure delay: (10+20+30)/3.
	assert.InDelta(t, 20.0, table.Rows[0].RouteAvgDelay, 1e-9)
	assert.InDelta(t, 40.0, table.Rows[3].RouteAvgDelay, 1e-9)

	// Hour 14 mean: (30+40)/2.
	assert.InDelta(t, 35.0, table.Rows[2].HourAvgDelay, 1e-9)
	assert.InDelta(t, 15.0, table.Rows[0].HourAvgDelay, 1e-9)
}

func TestComputeEncodingsAreInsertionOrdered(t *testing.T) {
	records := []models.FlightRecord{
		rec("AI303", "DEL-BLR", 8, 5),
		rec("AI101", "BOM-DEL", 9, 5),
		rec("AI303", "DEL-BLR", 10, 5),
	}
	table, err := NewEngineer(nil).Compute(records)
	require.NoError(t, err)

	assert.Equal(t, 0.0, table.Rows[0].FlightCode)
	assert.Equal(t, 1.0, table.Rows[1].FlightCode)
	assert.Equal(t, 0.0, table.Rows[2].FlightCode)
	assert.Equal(t, 0.0, table.Rows[0].OriginCode) // DEL
	assert.Equal(t, 1.0, table.Rows[1].OriginCode) // BOM

	assert.Equal(t, []string{"AI303", "AI101"}, table.Flights())
	assert.Equal(t, []int{0, 2}, table.FlightRows("AI303"))
	assert.Equal(t, 2, table.Routes())
}

func TestComputeValidation(t *testing.T) {
	good := rec("AI101", "BOM-DEL", 9, 10)

	for _, tc := range []struct {
		name   string
		mutate func(*models.FlightRecord)
		column string
	}{
		{"empty flight number", func(r *models.FlightRecord) { r.FlightNumber = "" }, "Flight_Number"},
		{"empty route", func(r *models.FlightRecord) { r.Route = "" }, "Route"},
		{"zero scheduled dep", func(r *models.FlightRecord) { r.ScheduledDep = time.Time{} }, "STD_DateTime"},
		{"zero actual arr", func(r *models.FlightRecord) { r.ActualArr = time.Time{} }, "ATA_DateTime"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			bad := good
			tc.mutate(&bad)
			_, err := NewEngineer(nil).Compute([]models.FlightRecord{good, bad})
			require.Error(t, err)
			var derr *models.DataError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tc.column, derr.Column)
		})
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	records := []models.FlightRecord{rec("AI101", "BOM-DEL", 9, 10)}
	before := records[0]
	_, err := NewEngineer(nil).Compute(records)
	require.NoError(t, err)
	assert.Equal(t, before, records[0])
}
