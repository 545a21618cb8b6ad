package propagation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

func TestCascadesListsHighImpactPairs(t *testing.T) {
	// Two BOM-DEL departures 60 scheduled minutes apart: the upstream's
	// 20-minute delay scaled by the remaining buffer gives impact 10.
	records := []models.FlightRecord{
		propRec("AI101", "BOM-DEL", day(8, 0), day(10, 0), 20, 15),
		propRec("AI102", "BOM-DEL", day(9, 0), day(11, 0), 5, 5),
		propRec("AI303", "DEL-BLR", day(9, 30), day(11, 30), 30, 10),
	}
	b := NewBuilder(Params{HorizonMinutes: 120}, nil)
	pairs := b.Cascades(buildTable(t, records), 5)

	require.Len(t, pairs, 1)
	p := pairs[0]
	assert.Equal(t, "BOM-DEL", p.Route)
	assert.Equal(t, "AI101", p.FlightNumber)
	assert.Equal(t, "AI102", p.NextFlight)
	assert.Equal(t, 60.0, p.GapMinutes)
	assert.Equal(t, 20.0, p.DelayMinutes)
	assert.InDelta(t, 10.0, p.CascadeImpact, 1e-9)
	assert.Equal(t, day(9, 0), p.NextFlightTime)
}

func TestCascadesThresholdAndOrdering(t *testing.T) {
	records := []models.FlightRecord{
		propRec("AI101", "BOM-DEL", day(8, 0), day(10, 0), 20, 15),
		propRec("AI102", "BOM-DEL", day(9, 0), day(11, 0), 40, 5),
		propRec("AI103", "BOM-DEL", day(9, 30), day(11, 30), 5, 5),
	}
	b := NewBuilder(Params{HorizonMinutes: 120}, nil)

	// AI101→AI102: 20·(120−60)/120 = 10. AI102→AI103: 40·(120−30)/120 = 30.
	pairs := b.Cascades(buildTable(t, records), 0)
	require.Len(t, pairs, 2)
	assert.Equal(t, "AI102", pairs[0].FlightNumber)
	assert.InDelta(t, 30.0, pairs[0].CascadeImpact, 1e-9)
	assert.InDelta(t, 10.0, pairs[1].CascadeImpact, 1e-9)

	// Raising the threshold drops the weaker pair.
	pairs = b.Cascades(buildTable(t, records), 15)
	require.Len(t, pairs, 1)
	assert.Equal(t, "AI102", pairs[0].FlightNumber)
}

func TestCascadesSkipsOnTimeAndWideGaps(t *testing.T) {
	records := []models.FlightRecord{
		propRec("AI101", "BOM-DEL", day(6, 0), day(8, 0), 0, 0), // on time
		propRec("AI102", "BOM-DEL", day(7, 0), day(9, 0), 20, 5),
		propRec("AI103", "BOM-DEL", day(11, 0), day(13, 0), 5, 5), // 240 min gap
	}
	b := NewBuilder(Params{HorizonMinutes: 120}, nil)
	pairs := b.Cascades(buildTable(t, records), 0)
	assert.Empty(t, pairs)
}
