// Package cluster groups flights into delay-behavior archetypes via
// centroid-based clustering over the engineered features. Cluster labels
// are unordered grouping keys — never a severity ranking; read the summary
// statistics before interpreting a cluster.
package cluster

import (
	"math"
	"math/rand"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/config"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/features"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/predict"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

// FeatureNames lists the clustered feature subset, in vector order.
var FeatureNames = []string{
	"departure_delay_minutes",
	"arrival_delay_minutes",
	"duration_minutes",
	"flight_frequency",
	"delay_propagation_risk",
	"cascading_impact_score",
}

// Summary describes one cluster: member count plus per-feature mean and
// standard deviation in the original (unstandardized) units.
type Summary struct {
	Cluster int                `json:"cluster"`
	Count   int                `json:"count"`
	Mean    map[string]float64 `json:"mean"`
	Std     map[string]float64 `json:"std"`
}

// Result assigns every input record to exactly one cluster; summary counts
// sum to the record count.
type Result struct {
	K         int       `json:"k"`
	Labels    []int     `json:"labels"` // parallel to the input rows
	Summaries []Summary `json:"summaries"`
}

// Clusterer runs seeded k-means.
type Clusterer struct {
	cfg    config.ClusterConfig
	logger *zap.Logger
}

// NewClusterer creates a Clusterer. A nil logger is replaced with a nop.
func NewClusterer(cfg config.ClusterConfig, logger *zap.Logger) *Clusterer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Clusterer{cfg: cfg, logger: logger}
}

// Cluster partitions the table's rows into k clusters. It fails with
// *models.InsufficientDataError when there are fewer rows than clusters.
func (c *Clusterer) Cluster(t *features.Table) (*Result, error) {
	n := t.Len()
	if n < c.cfg.K {
		return nil, &models.InsufficientDataError{Required: c.cfg.K, Got: n}
	}

	raw := make([][]float64, n)
	for i := range t.Rows {
		row := &t.Rows[i]
		raw[i] = []float64{
			row.Record.DepDelayMin,
			row.Record.ArrDelayMin,
			row.Record.DurationMin,
			row.FlightFreq,
			row.PropagationRisk,
			row.CascadeScore,
		}
	}
	scaler := &predict.Standardizer{}
	X := scaler.FitTransform(raw)

	labels := c.kmeans(X)

	res := &Result{K: c.cfg.K, Labels: labels}
	for k := 0; k < c.cfg.K; k++ {
		sum := Summary{Cluster: k, Mean: map[string]float64{}, Std: map[string]float64{}}
		var memberRows []int
		for i, l := range labels {
			if l == k {
				memberRows = append(memberRows, i)
			}
		}
		sum.Count = len(memberRows)
		for j, name := range FeatureNames {
			vals := make([]float64, len(memberRows))
			for m, i := range memberRows {
				vals[m] = raw[i][j]
			}
			if len(vals) == 0 {
				continue
			}
			sum.Mean[name] = stat.Mean(vals, nil)
			if len(vals) > 1 {
				sum.Std[name] = stat.StdDev(vals, nil)
			}
		}
		res.Summaries = append(res.Summaries, sum)
	}

	c.logger.Debug("delay clusters computed",
		zap.Int("k", c.cfg.K),
		zap.Int("records", n))
	return res, nil
}

// kmeans is Lloyd's algorithm with seeded random initial centroids
// (distinct sample rows) and a bounded iteration count.
func (c *Clusterer) kmeans(X [][]float64) []int {
	n, k := len(X), c.cfg.K
	rng := rand.New(rand.NewSource(c.cfg.Seed))

	centroids := make([][]float64, k)
	for i, p := range rng.Perm(n)[:k] {
		centroids[i] = append([]float64(nil), X[p]...)
	}

	labels := make([]int, n)
	maxIters := c.cfg.MaxIters
	if maxIters <= 0 {
		maxIters = 50
	}
	for iter := 0; iter < maxIters; iter++ {
		changed := false
		for i := range X {
			best, bestDist := 0, math.Inf(1)
			for j := range centroids {
				if d := sqDist(X[i], centroids[j]); d < bestDist {
					best, bestDist = j, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		next := make([][]float64, k)
		for j := range next {
			next[j] = make([]float64, len(X[0]))
		}
		for i, l := range labels {
			counts[l]++
			for j, v := range X[i] {
				next[l][j] += v
			}
		}
		for j := range next {
			if counts[j] == 0 {
				// Empty cluster: reseed from a random sample.
				next[j] = append(next[j][:0], X[rng.Intn(n)]...)
				continue
			}
			for d := range next[j] {
				next[j][d] /= float64(counts[j])
			}
		}
		centroids = next
	}
	return labels
}

func sqDist(a, b []float64) float64 {
	out := 0.0
	for i := range a {
		d := a[i] - b[i]
		out += d * d
	}
	return out
}
