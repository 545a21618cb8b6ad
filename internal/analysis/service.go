// Package analysis exposes the single-shot analysis entry points. Each
// call consumes the full record set it is given, builds everything it
// needs fresh (feature table, propagation graph, fitted model), and
// returns a complete structured result or a typed error — there is no
// session state, cache, or shared graph between calls.
package analysis

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/cluster"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/config"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/features"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/impact"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/metrics"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/predict"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/propagation"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/schedule"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

// Diagnostics accompanies every result: run identity, input size, graph
// shape, which eigenvector-slot measure was actually used, model quality
// when a model was fitted, and stage wall times.
type Diagnostics struct {
	RunID             string                `json:"run_id"`
	Records           int                   `json:"records"`
	GraphNodes        int                   `json:"graph_nodes,omitempty"`
	GraphEdges        int                   `json:"graph_edges,omitempty"`
	CentralityMeasure string                `json:"eigenvector_measure,omitempty"`
	Model             *predict.Metrics      `json:"model,omitempty"`
	Stages            []metrics.StageTiming `json:"stage_timings,omitempty"`
}

// RouteImpact aggregates mean cascading impact per route.
type RouteImpact struct {
	Route           string  `json:"route"`
	AvgCascadeScore float64 `json:"avg_cascading_impact_score"`
	Flights         int     `json:"flights"`
}

// RankResult is the cascading-impact ranking output.
type RankResult struct {
	Ranking     []impact.FlightImpact `json:"ranking"` // descending comprehensive score
	TopRoutes   []RouteImpact         `json:"top_routes"`
	Diagnostics Diagnostics           `json:"diagnostics"`
}

// ClusterResult is the delay-archetype clustering output.
type ClusterResult struct {
	Clusters    *cluster.Result `json:"clusters"`
	Diagnostics Diagnostics     `json:"diagnostics"`
}

// CascadeListResult is the per-route cascade pair listing.
type CascadeListResult struct {
	Pairs       []propagation.CascadePair `json:"high_impact_pairs"`
	TotalPairs  int                       `json:"total_cascading_pairs"`
	Diagnostics Diagnostics               `json:"diagnostics"`
}

// SimulationOutput wraps a schedule-shift simulation with diagnostics.
type SimulationOutput struct {
	Simulation  *schedule.SimulationResult `json:"simulation"`
	Diagnostics Diagnostics                `json:"diagnostics"`
}

// Service wires the analysis components together. It holds configuration
// and a logger only — no dataset, graph, or model survives a call.
type Service struct {
	cfg    config.Config
	logger *zap.Logger
}

// New creates a Service after validating the configuration.
func New(cfg config.Config, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, logger: logger}, nil
}

// pipeline is the shared per-call state: everything is produced fresh and
// discarded with the call.
type pipeline struct {
	table      *features.Table
	graph      *propagation.Graph
	centrality *propagation.Centrality
	ranked     []impact.FlightImpact
	reg        *metrics.Registry
}

// buildPipeline engineers features, builds the propagation graph, computes
// centrality and scores every flight. Errors here abort the whole call: a
// partial graph would make the centrality-derived scores misleading.
func (s *Service) buildPipeline(records []models.FlightRecord) (*pipeline, error) {
	if len(records) == 0 {
		return nil, &models.NotFoundError{Kind: "dataset", Key: "(empty)"}
	}
	p := &pipeline{reg: metrics.NewRegistry()}

	stop := p.reg.Time("feature_engineering")
	table, err := features.NewEngineer(s.logger).Compute(records)
	stop()
	if err != nil {
		return nil, err
	}
	p.table = table

	builder := propagation.NewBuilder(propagation.Params{
		HorizonMinutes: s.cfg.Propagation.HorizonMinutes,
		Mode:           propagation.ParseMode(s.cfg.Propagation.AdjacencyMode),
	}, s.logger)

	stop = p.reg.Time("graph_build")
	p.graph = builder.Build(table)
	stop()

	stop = p.reg.Time("centrality")
	p.centrality = propagation.ComputeCentrality(p.graph, s.logger)
	stop()

	stop = p.reg.Time("impact_scoring")
	p.ranked = impact.NewScorer(s.cfg.Impact.Cascade, s.cfg.Impact.Comprehensive, s.logger).
		Score(table, p.centrality)
	stop()

	return p, nil
}

func (p *pipeline) diagnostics() Diagnostics {
	return Diagnostics{
		RunID:             uuid.NewString(),
		Records:           p.table.Len(),
		GraphNodes:        p.graph.Len(),
		GraphEdges:        p.graph.EdgeCount(),
		CentralityMeasure: p.centrality.MeasureUsed,
		Stages:            p.reg.Timings(),
	}
}

// RankCascadingImpact scores and ranks flights by cascading impact and
// returns the top n (the configured default when n <= 0). The impact-score
// model is fitted for its diagnostic quality report when enough records
// exist; too few records degrade to a ranking without model diagnostics
// rather than an error, since the composite score itself is closed-form.
func (s *Service) RankCascadingImpact(records []models.FlightRecord, topN int) (*RankResult, error) {
	if topN <= 0 {
		topN = s.cfg.Impact.TopN
	}
	p, err := s.buildPipeline(records)
	if err != nil {
		return nil, err
	}

	res := &RankResult{
		Ranking:   impact.TopN(p.ranked, topN),
		TopRoutes: topRoutes(p.table, 10),
	}

	stop := p.reg.Time("model_training")
	model, err := predict.NewTrainer(s.cfg.Predictor, s.logger).Train(p.table, predict.TargetImpactScore)
	stop()
	res.Diagnostics = p.diagnostics()
	if err != nil {
		s.logger.Warn("impact model skipped", zap.Error(err))
	} else {
		m := model.Metrics()
		res.Diagnostics.Model = &m
	}
	return res, nil
}

// FindOptimalTimes ranks scheduling hours by historical delay for an
// airport or route filter.
func (s *Service) FindOptimalTimes(records []models.FlightRecord, filter string) (*schedule.OptimalTimesResult, error) {
	return schedule.NewAnalyzer(s.cfg.Congestion, s.logger).FindOptimalTimes(records, filter)
}

// IdentifyBusySlots classifies peak and quiet congestion windows for an
// airport or route filter.
func (s *Service) IdentifyBusySlots(records []models.FlightRecord, filter string) (*schedule.BusySlotsResult, error) {
	return schedule.NewAnalyzer(s.cfg.Congestion, s.logger).IdentifyBusySlots(records, filter)
}

// AnalyzeCapacity reports bottlenecked and underutilized hours against an
// hourly capacity (the configured default when maxPerHour is 0).
func (s *Service) AnalyzeCapacity(records []models.FlightRecord, filter string, maxPerHour int) (*schedule.CapacityResult, error) {
	if maxPerHour == 0 {
		maxPerHour = s.cfg.Congestion.MaxFlightsPerHour
	}
	return schedule.NewAnalyzer(s.cfg.Congestion, s.logger).AnalyzeCapacity(records, filter, maxPerHour)
}

// SimulateScheduleShift grid-searches schedule shifts for one flight
// around a baseline time, using a delay model trained on this call's
// records. It fails with *models.NotFoundError for unknown flights and
// *models.InsufficientDataError when too few records exist to train.
func (s *Service) SimulateScheduleShift(records []models.FlightRecord, flightNumber string, baseHour, baseMinute int) (*SimulationOutput, error) {
	if baseHour < 0 || baseHour > 23 {
		return nil, &models.ConfigurationError{Param: "baseline_hour", Reason: "must be in [0, 23]"}
	}
	if baseMinute < 0 || baseMinute > 59 {
		return nil, &models.ConfigurationError{Param: "baseline_minute", Reason: "must be in [0, 59]"}
	}

	p, err := s.buildPipeline(records)
	if err != nil {
		return nil, err
	}
	if len(p.table.FlightRows(flightNumber)) == 0 {
		return nil, &models.NotFoundError{Kind: "flight", Key: flightNumber}
	}

	stop := p.reg.Time("model_training")
	model, err := predict.NewTrainer(s.cfg.Predictor, s.logger).Train(p.table, predict.TargetTotalDelay)
	stop()
	if err != nil {
		return nil, err
	}

	stop = p.reg.Time("simulation")
	sim, err := schedule.NewSimulator(s.cfg.Simulator, s.logger).
		Simulate(p.table, model, flightNumber, baseHour, baseMinute)
	stop()
	if err != nil {
		return nil, err
	}

	out := &SimulationOutput{Simulation: sim, Diagnostics: p.diagnostics()}
	m := model.Metrics()
	out.Diagnostics.Model = &m
	return out, nil
}

// AnalyzeDelayClusters groups the records into delay-behavior archetypes.
func (s *Service) AnalyzeDelayClusters(records []models.FlightRecord) (*ClusterResult, error) {
	p, err := s.buildPipeline(records)
	if err != nil {
		return nil, err
	}

	stop := p.reg.Time("clustering")
	clusters, err := cluster.NewClusterer(s.cfg.Cluster, s.logger).Cluster(p.table)
	stop()
	if err != nil {
		return nil, err
	}
	return &ClusterResult{Clusters: clusters, Diagnostics: p.diagnostics()}, nil
}

// AnalyzeCascades lists route-adjacent flight pairs whose cascade impact
// meets minImpact, ranked descending.
func (s *Service) AnalyzeCascades(records []models.FlightRecord, minImpact float64) (*CascadeListResult, error) {
	p, err := s.buildPipeline(records)
	if err != nil {
		return nil, err
	}
	builder := propagation.NewBuilder(propagation.Params{
		HorizonMinutes: s.cfg.Propagation.HorizonMinutes,
		Mode:           propagation.ModePerRoute,
	}, s.logger)

	stop := p.reg.Time("cascade_listing")
	pairs := builder.Cascades(p.table, minImpact)
	stop()

	return &CascadeListResult{
		Pairs:       pairs,
		TotalPairs:  len(pairs),
		Diagnostics: p.diagnostics(),
	}, nil
}

// topRoutes returns the n routes with the highest mean cascading impact.
func topRoutes(t *features.Table, n int) []RouteImpact {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string
	for i := range t.Rows {
		route := t.Rows[i].Record.Route
		if _, seen := counts[route]; !seen {
			order = append(order, route)
		}
		sums[route] += t.Rows[i].CascadeScore
		counts[route]++
	}
	out := make([]RouteImpact, 0, len(order))
	for _, route := range order {
		out = append(out, RouteImpact{
			Route:           route,
			AvgCascadeScore: sums[route] / float64(counts[route]),
			Flights:         counts[route],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgCascadeScore > out[j].AvgCascadeScore })
	if n < len(out) {
		out = out[:n]
	}
	return out
}
