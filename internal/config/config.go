// Package config holds the root configuration for the analyzer. Scoring
// weights, horizons and grid bounds are deliberately configuration rather
// than inline constants: they are hand-tuned heuristics, not derived
// quantities, and operators are expected to override them.
package config

import (
	"github.com/spf13/viper"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

// Config is the root configuration structure.
type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger"`
	Propagation PropagationConfig `mapstructure:"propagation"`
	Impact      ImpactConfig      `mapstructure:"impact"`
	Predictor   PredictorConfig   `mapstructure:"predictor"`
	Cluster     ClusterConfig     `mapstructure:"cluster"`
	Congestion  CongestionConfig  `mapstructure:"congestion"`
	Simulator   SimulatorConfig   `mapstructure:"simulator"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "console" or "json"
	LogFile    string `mapstructure:"log_file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// PropagationConfig controls propagation-edge construction.
type PropagationConfig struct {
	// HorizonMinutes is the buffer-recovery horizon: a downstream departure
	// more than this many minutes after the upstream arrival is assumed to
	// have absorbed the delay. Edge weight decays linearly to zero across it.
	HorizonMinutes float64 `mapstructure:"horizon_minutes"`
	// AdjacencyMode selects how candidate pairs are formed within a date:
	// "global" (time-ordered daily sequence) or "per_route".
	AdjacencyMode string `mapstructure:"adjacency_mode"`
}

// ImpactConfig carries the weighted-sum scoring coefficients.
type ImpactConfig struct {
	Cascade       CascadeWeights       `mapstructure:"cascade"`
	Comprehensive ComprehensiveWeights `mapstructure:"comprehensive"`
	TopN          int                  `mapstructure:"top_n"`
}

// CascadeWeights weight the per-record cascading impact score. The inputs
// are raw minute/count units; the score is a heuristic, not a calibrated
// model.
type CascadeWeights struct {
	DepDelay   float64 `mapstructure:"departure_delay"`
	ArrDelay   float64 `mapstructure:"arrival_delay"`
	Risk       float64 `mapstructure:"propagation_risk"`
	FlightFreq float64 `mapstructure:"flight_frequency"`
	RouteFreq  float64 `mapstructure:"route_frequency"`
}

// ComprehensiveWeights weight the per-flight comprehensive impact score.
type ComprehensiveWeights struct {
	Cascade     float64 `mapstructure:"cascade"`
	Betweenness float64 `mapstructure:"betweenness"`
	Closeness   float64 `mapstructure:"closeness"`
	Eigenvector float64 `mapstructure:"eigenvector"`
	Network     float64 `mapstructure:"network"`
}

// PredictorConfig controls model training.
type PredictorConfig struct {
	Seed           int64   `mapstructure:"seed"`
	TestFraction   float64 `mapstructure:"test_fraction"`
	MinRecords     int     `mapstructure:"min_records"`
	RidgeLambda    float64 `mapstructure:"ridge_lambda"`
	BoostingRounds int     `mapstructure:"boosting_rounds"`
	LearningRate   float64 `mapstructure:"learning_rate"`
}

// ClusterConfig controls the delay clusterer.
type ClusterConfig struct {
	K        int   `mapstructure:"k"`
	Seed     int64 `mapstructure:"seed"`
	MaxIters int   `mapstructure:"max_iters"`
}

// CongestionConfig controls busy/quiet window classification and capacity
// analysis.
type CongestionConfig struct {
	FlightCountWeight float64 `mapstructure:"flight_count_weight"`
	MeanDelayWeight   float64 `mapstructure:"mean_delay_weight"`
	PeakQuantile      float64 `mapstructure:"peak_quantile"`
	QuietQuantile     float64 `mapstructure:"quiet_quantile"`
	MaxFlightsPerHour int     `mapstructure:"max_flights_per_hour"`
	BottleneckPercent float64 `mapstructure:"bottleneck_percent"`
	UnderusedPercent  float64 `mapstructure:"underused_percent"`
}

// SimulatorConfig bounds the schedule-shift grid search.
type SimulatorConfig struct {
	HourRange   int `mapstructure:"hour_range"`   // hour offsets in [-HourRange, +HourRange]
	MinuteRange int `mapstructure:"minute_range"` // minute offsets in [-MinuteRange, +MinuteRange]
	MinuteStep  int `mapstructure:"minute_step"`
}

// SetDefaults registers default values on a viper instance so the analyzer
// can run with no config file at all.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.max_size_mb", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 14)
	v.SetDefault("logger.compress", true)

	v.SetDefault("propagation.horizon_minutes", 120.0)
	v.SetDefault("propagation.adjacency_mode", "global")

	v.SetDefault("impact.cascade.departure_delay", 0.3)
	v.SetDefault("impact.cascade.arrival_delay", 0.3)
	v.SetDefault("impact.cascade.propagation_risk", 0.2)
	v.SetDefault("impact.cascade.flight_frequency", 0.1)
	v.SetDefault("impact.cascade.route_frequency", 0.1)
	v.SetDefault("impact.comprehensive.cascade", 0.4)
	v.SetDefault("impact.comprehensive.betweenness", 0.2)
	v.SetDefault("impact.comprehensive.closeness", 0.2)
	v.SetDefault("impact.comprehensive.eigenvector", 0.1)
	v.SetDefault("impact.comprehensive.network", 0.1)
	v.SetDefault("impact.top_n", 20)

	v.SetDefault("predictor.seed", 42)
	v.SetDefault("predictor.test_fraction", 0.2)
	v.SetDefault("predictor.min_records", 20)
	v.SetDefault("predictor.ridge_lambda", 1.0)
	v.SetDefault("predictor.boosting_rounds", 100)
	v.SetDefault("predictor.learning_rate", 0.1)

	v.SetDefault("cluster.k", 4)
	v.SetDefault("cluster.seed", 42)
	v.SetDefault("cluster.max_iters", 50)

	v.SetDefault("congestion.flight_count_weight", 0.6)
	v.SetDefault("congestion.mean_delay_weight", 0.4)
	v.SetDefault("congestion.peak_quantile", 0.75)
	v.SetDefault("congestion.quiet_quantile", 0.25)
	v.SetDefault("congestion.max_flights_per_hour", 60)
	v.SetDefault("congestion.bottleneck_percent", 80.0)
	v.SetDefault("congestion.underused_percent", 40.0)

	v.SetDefault("simulator.hour_range", 2)
	v.SetDefault("simulator.minute_range", 30)
	v.SetDefault("simulator.minute_step", 15)
}

// Default returns a Config populated with the defaults above.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Unmarshal over defaults cannot fail: the struct mirrors the keys.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Validate rejects parameter values the analysis cannot run with.
func (c *Config) Validate() error {
	if c.Propagation.HorizonMinutes <= 0 {
		return &models.ConfigurationError{Param: "propagation.horizon_minutes", Reason: "must be positive"}
	}
	switch c.Propagation.AdjacencyMode {
	case "global", "per_route":
	default:
		return &models.ConfigurationError{Param: "propagation.adjacency_mode", Reason: `must be "global" or "per_route"`}
	}
	if c.Impact.TopN <= 0 {
		return &models.ConfigurationError{Param: "impact.top_n", Reason: "must be positive"}
	}
	if c.Predictor.TestFraction <= 0 || c.Predictor.TestFraction >= 1 {
		return &models.ConfigurationError{Param: "predictor.test_fraction", Reason: "must be in (0, 1)"}
	}
	if c.Predictor.MinRecords < 5 {
		return &models.ConfigurationError{Param: "predictor.min_records", Reason: "must be at least 5"}
	}
	if c.Cluster.K <= 0 {
		return &models.ConfigurationError{Param: "cluster.k", Reason: "must be positive"}
	}
	if c.Congestion.MaxFlightsPerHour <= 0 {
		return &models.ConfigurationError{Param: "congestion.max_flights_per_hour", Reason: "must be positive"}
	}
	if c.Congestion.PeakQuantile <= c.Congestion.QuietQuantile {
		return &models.ConfigurationError{Param: "congestion.peak_quantile", Reason: "must exceed quiet_quantile"}
	}
	if c.Simulator.HourRange < 0 || c.Simulator.MinuteRange < 0 || c.Simulator.MinuteStep <= 0 {
		return &models.ConfigurationError{Param: "simulator", Reason: "grid bounds must be non-negative and step positive"}
	}
	return nil
}
