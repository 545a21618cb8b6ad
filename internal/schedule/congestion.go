// Package schedule analyzes scheduling windows: congestion and capacity by
// hour of day, optimal takeoff/landing windows, and simulated schedule
// shifts for individual flights.
package schedule

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/config"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

// HourStats aggregates one observed hour of day.
type HourStats struct {
	Hour            int     `json:"hour"`
	FlightCount     int     `json:"flight_count"`
	AvgDepDelay     float64 `json:"avg_departure_delay_minutes"`
	AvgArrDelay     float64 `json:"avg_arrival_delay_minutes"`
	CongestionScore float64 `json:"congestion_score"`
}

// HourUtilization reports capacity utilization for one hour.
type HourUtilization struct {
	Hour        int     `json:"hour"`
	FlightCount int     `json:"flight_count"`
	Utilization float64 `json:"utilization_percent"`
}

// OptimalTimesResult ranks scheduling windows by historical delay.
type OptimalTimesResult struct {
	Filter         string      `json:"filter"`
	BestDeparture  []int       `json:"best_departure_hours"`
	BestArrival    []int       `json:"best_arrival_hours"`
	WorstDeparture []int       `json:"worst_departure_hours"`
	WorstArrival   []int       `json:"worst_arrival_hours"`
	Hourly         []HourStats `json:"hourly_analysis"`
}

// BusySlotsResult classifies hours into peak/quiet congestion windows.
// CongestionByHour covers all 24 hours, zero-filled for hours absent from
// the data; the peak/quiet quantile thresholds are computed over that
// zero-filled distribution.
type BusySlotsResult struct {
	Filter           string      `json:"filter"`
	PeakHours        []int       `json:"peak_hours"`
	QuietHours       []int       `json:"quiet_hours"`
	CongestionByHour [24]float64 `json:"congestion_by_hour"`
	PeakThreshold    float64     `json:"peak_threshold"`
	QuietThreshold   float64     `json:"quiet_threshold"`
}

// CapacityResult reports utilization against a fixed hourly capacity.
type CapacityResult struct {
	Filter        string            `json:"filter"`
	MaxPerHour    int               `json:"max_capacity_per_hour"`
	Bottlenecks   []HourUtilization `json:"bottleneck_hours"`
	Underutilized []HourUtilization `json:"underutilized_hours"`
	Hourly        []HourUtilization `json:"hourly_utilization"`
}

// Analyzer computes congestion and capacity aggregates. Each method is a
// single-shot pure function of the records it is given.
type Analyzer struct {
	cfg    config.CongestionConfig
	logger *zap.Logger
}

// NewAnalyzer creates an Analyzer. A nil logger is replaced with a nop.
func NewAnalyzer(cfg config.CongestionConfig, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// FilterRecords keeps records whose route contains the airport or route
// filter ("" keeps everything). It fails with *models.NotFoundError when
// nothing matches.
func FilterRecords(records []models.FlightRecord, filter string) ([]models.FlightRecord, error) {
	if filter == "" {
		if len(records) == 0 {
			return nil, &models.NotFoundError{Kind: "dataset", Key: "(all)"}
		}
		return records, nil
	}
	var out []models.FlightRecord
	for _, r := range records {
		if strings.Contains(r.Route, filter) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		kind := "airport"
		if strings.Contains(filter, "-") {
			kind = "route"
		}
		return nil, &models.NotFoundError{Kind: kind, Key: filter}
	}
	return out, nil
}

// hourlyStats aggregates records into per-observed-hour statistics, sorted
// by hour.
func (a *Analyzer) hourlyStats(records []models.FlightRecord) []HourStats {
	type acc struct {
		count          int
		depSum, arrSum float64
	}
	byHour := make(map[int]*acc)
	for _, r := range records {
		h := byHour[r.HourOfDay]
		if h == nil {
			h = &acc{}
			byHour[r.HourOfDay] = h
		}
		h.count++
		h.depSum += r.DepDelayMin
		h.arrSum += r.ArrDelayMin
	}

	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	out := make([]HourStats, 0, len(hours))
	for _, h := range hours {
		c := byHour[h]
		avgDep := c.depSum / float64(c.count)
		out = append(out, HourStats{
			Hour:            h,
			FlightCount:     c.count,
			AvgDepDelay:     avgDep,
			AvgArrDelay:     c.arrSum / float64(c.count),
			CongestionScore: a.cfg.FlightCountWeight*float64(c.count) + a.cfg.MeanDelayWeight*avgDep,
		})
	}
	return out
}

// FindOptimalTimes ranks hours by historical mean delay for the filtered
// records and returns the three best and worst departure/arrival windows.
func (a *Analyzer) FindOptimalTimes(records []models.FlightRecord, filter string) (*OptimalTimesResult, error) {
	matched, err := FilterRecords(records, filter)
	if err != nil {
		return nil, err
	}
	hourly := a.hourlyStats(matched)

	res := &OptimalTimesResult{
		Filter:         filter,
		Hourly:         hourly,
		BestDeparture:  topHours(hourly, 3, func(h HourStats) float64 { return h.AvgDepDelay }, true),
		BestArrival:    topHours(hourly, 3, func(h HourStats) float64 { return h.AvgArrDelay }, true),
		WorstDeparture: topHours(hourly, 3, func(h HourStats) float64 { return h.AvgDepDelay }, false),
		WorstArrival:   topHours(hourly, 3, func(h HourStats) float64 { return h.AvgArrDelay }, false),
	}
	a.logger.Debug("optimal times computed",
		zap.String("filter", filter),
		zap.Int("records", len(matched)),
		zap.Int("observed_hours", len(hourly)))
	return res, nil
}

// IdentifyBusySlots classifies hours with a congestion score at or above
// the peak quantile as peak and at or below the quiet quantile as quiet.
func (a *Analyzer) IdentifyBusySlots(records []models.FlightRecord, filter string) (*BusySlotsResult, error) {
	matched, err := FilterRecords(records, filter)
	if err != nil {
		return nil, err
	}
	hourly := a.hourlyStats(matched)

	res := &BusySlotsResult{Filter: filter}
	for _, h := range hourly {
		res.CongestionByHour[h.Hour] = h.CongestionScore
	}

	scores := append([]float64(nil), res.CongestionByHour[:]...)
	sort.Float64s(scores)
	res.PeakThreshold = stat.Quantile(a.cfg.PeakQuantile, stat.LinInterp, scores, nil)
	res.QuietThreshold = stat.Quantile(a.cfg.QuietQuantile, stat.LinInterp, scores, nil)

	for hour, score := range res.CongestionByHour {
		switch {
		case score >= res.PeakThreshold:
			res.PeakHours = append(res.PeakHours, hour)
		case score <= res.QuietThreshold:
			res.QuietHours = append(res.QuietHours, hour)
		}
	}
	a.logger.Debug("busy slots identified",
		zap.String("filter", filter),
		zap.Ints("peak_hours", res.PeakHours),
		zap.Ints("quiet_hours", res.QuietHours))
	return res, nil
}

// AnalyzeCapacity computes utilization against maxPerHour and flags
// bottlenecked and underutilized hours. It fails with
// *models.ConfigurationError for a non-positive capacity.
func (a *Analyzer) AnalyzeCapacity(records []models.FlightRecord, filter string, maxPerHour int) (*CapacityResult, error) {
	if maxPerHour <= 0 {
		return nil, &models.ConfigurationError{
			Param:  "max_capacity_per_hour",
			Reason: fmt.Sprintf("must be positive, got %d", maxPerHour),
		}
	}
	matched, err := FilterRecords(records, filter)
	if err != nil {
		return nil, err
	}

	res := &CapacityResult{Filter: filter, MaxPerHour: maxPerHour}
	for _, h := range a.hourlyStats(matched) {
		u := HourUtilization{
			Hour:        h.Hour,
			FlightCount: h.FlightCount,
			Utilization: float64(h.FlightCount) / float64(maxPerHour) * 100,
		}
		res.Hourly = append(res.Hourly, u)
		switch {
		case u.Utilization > a.cfg.BottleneckPercent:
			res.Bottlenecks = append(res.Bottlenecks, u)
		case u.Utilization < a.cfg.UnderusedPercent:
			res.Underutilized = append(res.Underutilized, u)
		}
	}
	return res, nil
}

// topHours returns up to n hours ranked by the key (ascending when asc).
// Ties keep hour order, so results are deterministic.
func topHours(hourly []HourStats, n int, key func(HourStats) float64, asc bool) []int {
	ranked := append([]HourStats(nil), hourly...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if asc {
			return key(ranked[i]) < key(ranked[j])
		}
		return key(ranked[i]) > key(ranked[j])
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]int, 0, n)
	for _, h := range ranked[:n] {
		out = append(out, h.Hour)
	}
	return out
}
