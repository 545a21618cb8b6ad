package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteOriginDestination(t *testing.T) {
	r := FlightRecord{Route: "BOM-DEL"}
	assert.Equal(t, "BOM", r.Origin())
	assert.Equal(t, "DEL", r.Destination())

	// Routes without a separator are tolerated, not rejected.
	r = FlightRecord{Route: "BOMDEL"}
	assert.Equal(t, "", r.Origin())
	assert.Equal(t, "", r.Destination())
}

func TestTotalDelayMin(t *testing.T) {
	r := FlightRecord{DepDelayMin: 12.5, ArrDelayMin: -2.5}
	assert.Equal(t, 10.0, r.TotalDelayMin())
}

func TestIsPeakHour(t *testing.T) {
	for _, tc := range []struct {
		hour int
		peak bool
	}{
		{5, false},
		{6, true},
		{9, true},
		{10, false},
		{16, false},
		{17, true},
		{20, true},
		{21, false},
		{0, false},
		{23, false},
	} {
		assert.Equal(t, tc.peak, IsPeakHour(tc.hour), "hour %d", tc.hour)
	}
}

func TestTypedErrors(t *testing.T) {
	assert.Contains(t, (&DataError{Column: "Route", Reason: "empty"}).Error(), "Route")
	assert.Contains(t, (&InsufficientDataError{Required: 20, Got: 3}).Error(), "20")
	assert.Contains(t, (&NotFoundError{Kind: "flight", Key: "AI101"}).Error(), "AI101")
	assert.Contains(t, (&ConfigurationError{Param: "cluster.k", Reason: "must be positive"}).Error(), "cluster.k")
}
