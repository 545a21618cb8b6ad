package schedule

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/config"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/features"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/predict"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

// Scenario is one candidate schedule shift for a flight. Improvement is
// original mean delay minus predicted delay, so positive is better.
type Scenario struct {
	HourAdjustment   int     `json:"hour_adjustment"`
	MinuteAdjustment int     `json:"minute_adjustment"`
	NewHour          int     `json:"new_hour"`
	NewMinute        int     `json:"new_minute"`
	NewTime          string  `json:"new_time"` // "HH:MM"
	PredictedDelay   float64 `json:"predicted_delay_minutes"`
	DelayImprovement float64 `json:"delay_improvement_minutes"`
}

// SimulationResult is the full scenario grid plus the best scenario by
// delay improvement. The search is an exhaustive bounded grid — it never
// extrapolates outside it and makes no optimality claim beyond it.
type SimulationResult struct {
	FlightNumber   string     `json:"flight_number"`
	BaselineHour   int        `json:"baseline_hour"`
	BaselineMinute int        `json:"baseline_minute"`
	OriginalDelay  float64    `json:"original_delay_minutes"` // mean total delay
	Scenarios      []Scenario `json:"scenarios"`
	Best           Scenario   `json:"best_scenario"`
}

// Simulator grid-searches schedule shifts against a trained delay model.
type Simulator struct {
	cfg    config.SimulatorConfig
	logger *zap.Logger
}

// NewSimulator creates a Simulator. A nil logger is replaced with a nop.
func NewSimulator(cfg config.SimulatorConfig, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{cfg: cfg, logger: logger}
}

// Simulate explores hour offsets in [-HourRange, +HourRange] and minute
// offsets in [-MinuteRange, +MinuteRange] at MinuteStep around the
// baseline. Shifts landing outside 00:00-23:59 are excluded from the grid
// rather than clipped or treated as errors. It fails with
// *models.NotFoundError when the flight has no records.
func (s *Simulator) Simulate(t *features.Table, model *predict.Model, flightNumber string, baseHour, baseMinute int) (*SimulationResult, error) {
	rows := t.FlightRows(flightNumber)
	if len(rows) == 0 {
		return nil, &models.NotFoundError{Kind: "flight", Key: flightNumber}
	}

	original := 0.0
	for _, ri := range rows {
		original += t.Rows[ri].Record.TotalDelayMin()
	}
	original /= float64(len(rows))

	res := &SimulationResult{
		FlightNumber:   flightNumber,
		BaselineHour:   baseHour,
		BaselineMinute: baseMinute,
		OriginalDelay:  original,
	}

	for hourAdj := -s.cfg.HourRange; hourAdj <= s.cfg.HourRange; hourAdj++ {
		for minAdj := -s.cfg.MinuteRange; minAdj <= s.cfg.MinuteRange; minAdj += s.cfg.MinuteStep {
			newHour := baseHour + hourAdj
			newMinute := baseMinute + minAdj
			if newHour < 0 || newHour > 23 || newMinute < 0 || newMinute > 59 {
				continue
			}

			predicted := 0.0
			for _, ri := range rows {
				predicted += model.PredictRowAt(&t.Rows[ri], newHour, newMinute)
			}
			predicted /= float64(len(rows))

			res.Scenarios = append(res.Scenarios, Scenario{
				HourAdjustment:   hourAdj,
				MinuteAdjustment: minAdj,
				NewHour:          newHour,
				NewMinute:        newMinute,
				NewTime:          fmt.Sprintf("%02d:%02d", newHour, newMinute),
				PredictedDelay:   predicted,
				DelayImprovement: original - predicted,
			})
		}
	}

	for i, sc := range res.Scenarios {
		if i == 0 || sc.DelayImprovement > res.Best.DelayImprovement {
			res.Best = sc
		}
	}

	s.logger.Debug("schedule shift simulated",
		zap.String("flight", flightNumber),
		zap.Int("scenarios", len(res.Scenarios)),
		zap.String("best_time", res.Best.NewTime),
		zap.Float64("best_improvement", res.Best.DelayImprovement))
	return res, nil
}
