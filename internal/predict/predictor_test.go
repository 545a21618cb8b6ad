package predict

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/config"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/features"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

// trainTable builds a table where total delay grows with the hour of day,
// so the candidate models have real structure to fit.
func trainTable(t *testing.T, n int) *features.Table {
	t.Helper()
	var records []models.FlightRecord
	for i := 0; i < n; i++ {
		hour := 6 + i%14
		delay := float64(2*hour) + float64(i%5)
		dep := time.Date(2025, 7, 1+i%28, hour, (i*7)%60, 0, 0, time.UTC)
		records = append(records, models.FlightRecord{
			FlightNumber: fmt.Sprintf("AI%d", 100+i%4),
			Route:        []string{"BOM-DEL", "DEL-BOM"}[i%2],
			Date:         dep.Format("2006-01-02"),
			ScheduledDep: dep,
			ActualDep:    dep.Add(time.Duration(delay) * time.Minute),
			ScheduledArr: dep.Add(2 * time.Hour),
			ActualArr:    dep.Add(2*time.Hour + time.Duration(delay)*time.Minute),
			DepDelayMin:  delay,
			ArrDelayMin:  delay,
			DurationMin:  120,
			HourOfDay:    hour,
			DayOfWeek:    i % 7,
			Weekend:      i%7 >= 5,
			PeakTime:     models.IsPeakHour(hour),
		})
	}
	table, err := features.NewEngineer(nil).Compute(records)
	require.NoError(t, err)
	return table
}

func TestTrainRejectsSmallDatasets(t *testing.T) {
	cfg := config.Default().Predictor
	_, err := NewTrainer(cfg, nil).Train(trainTable(t, 10), TargetTotalDelay)
	require.Error(t, err)
	var ierr *models.InsufficientDataError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, cfg.MinRecords, ierr.Required)
	assert.Equal(t, 10, ierr.Got)
}

func TestTrainSplitSizes(t *testing.T) {
	cfg := config.Default().Predictor
	model, err := NewTrainer(cfg, nil).Train(trainTable(t, 50), TargetTotalDelay)
	require.NoError(t, err)

	m := model.Metrics()
	assert.Equal(t, 10, m.TestSize) // round(50 · 0.2)
	assert.Equal(t, 40, m.TrainSize)
	assert.NotEmpty(t, m.Model)
}

func TestTrainIsDeterministic(t *testing.T) {
	cfg := config.Default().Predictor
	table := trainTable(t, 60)

	m1, err := NewTrainer(cfg, nil).Train(table, TargetTotalDelay)
	require.NoError(t, err)
	m2, err := NewTrainer(cfg, nil).Train(table, TargetTotalDelay)
	require.NoError(t, err)

	assert.Equal(t, m1.Metrics(), m2.Metrics())
	assert.InDelta(t, m1.PredictRow(&table.Rows[0]), m2.PredictRow(&table.Rows[0]), 1e-12)
}

func TestTrainedModelTracksHourTrend(t *testing.T) {
	// The synthetic target grows with the hour, so the fitted model's
	// predictions for the same flight must rise with later schedules.
	cfg := config.Default().Predictor
	table := trainTable(t, 80)
	model, err := NewTrainer(cfg, nil).Train(table, TargetTotalDelay)
	require.NoError(t, err)

	row := &table.Rows[0]
	early := model.PredictRowAt(row, 6, 0)
	late := model.PredictRowAt(row, 19, 0)
	assert.Greater(t, late, early)
	assert.Greater(t, model.Metrics().R2, 0.0)
}

func TestModelTarget(t *testing.T) {
	cfg := config.Default().Predictor
	model, err := NewTrainer(cfg, nil).Train(trainTable(t, 40), TargetTotalDelay)
	require.NoError(t, err)
	assert.Equal(t, TargetTotalDelay, model.Target())
	assert.Equal(t, "total_delay", model.Target().String())
	assert.Equal(t, "impact_score", TargetImpactScore.String())
}

// ---------------------------------------------------------------------------
// Standardizer
// ---------------------------------------------------------------------------

func TestStandardizerFitTransform(t *testing.T) {
	X := [][]float64{{1, 10}, {3, 10}, {5, 10}}
	s := &Standardizer{}
	out := s.FitTransform(X)

	// Column 0: mean 3, sample std 2.
	assert.InDelta(t, -1.0, out[0][0], 1e-9)
	assert.InDelta(t, 0.0, out[1][0], 1e-9)
	assert.InDelta(t, 1.0, out[2][0], 1e-9)

	// Constant column: centred, unscaled.
	for i := range out {
		assert.Equal(t, 0.0, out[i][1])
	}
}

func TestStandardizerReusesTrainingStats(t *testing.T) {
	s := &Standardizer{}
	s.Fit([][]float64{{0}, {10}})

	// New data is scaled with the fitted statistics, not its own.
	row := s.TransformRow([]float64{20})
	assert.InDelta(t, (20.0-5.0)/7.0710678, row[0], 1e-6)
}

// ---------------------------------------------------------------------------
// Candidate regressors
// ---------------------------------------------------------------------------

func TestRidgeFitsLinearData(t *testing.T) {
	X := [][]float64{{-2}, {-1}, {0}, {1}, {2}}
	y := []float64{1, 3, 5, 7, 9} // y = 2x + 5

	r, err := fitRidge(X, y, 0.001)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, r.intercept, 1e-6)
	assert.InDelta(t, 7.0, r.Predict([]float64{1}), 0.05)
	assert.Equal(t, "ridge_regression", r.Name())
}

func TestBoostedTreesFitStepFunction(t *testing.T) {
	var X [][]float64
	var y []float64
	for i := 0; i < 20; i++ {
		X = append(X, []float64{float64(i)})
		if i < 10 {
			y = append(y, 1)
		} else {
			y = append(y, 9)
		}
	}
	b := fitBoostedTrees(X, y, 50, 0.1)
	assert.Equal(t, "gradient_boosted_trees", b.Name())
	assert.Less(t, b.Predict([]float64{2}), b.Predict([]float64{15}))
}

func TestVectorizerShapes(t *testing.T) {
	table := trainTable(t, 30)

	for _, target := range []Target{TargetImpactScore, TargetTotalDelay} {
		v := NewVectorizer(table, target)
		names := v.Names()
		row := v.Row(&table.Rows[0])
		assert.Len(t, row, len(names), target.String())
	}
}

func TestVectorizerRowWithTimeRecomputesPeakFeatures(t *testing.T) {
	table := trainTable(t, 30)
	v := NewVectorizer(table, TargetTotalDelay)
	row := &table.Rows[0]

	offPeak := v.RowWithTime(row, 12, 0)
	peak := v.RowWithTime(row, 8, 0)

	names := v.Names()
	idx := map[string]int{}
	for i, n := range names {
		idx[n] = i
	}
	assert.Equal(t, 12.0, offPeak[idx["hour_of_day"]])
	assert.Equal(t, 0.0, offPeak[idx["peak_time"]])
	assert.Equal(t, 1.0, peak[idx["peak_time"]])
	assert.Equal(t, 8.0, peak[idx["hour_peak"]])
}
