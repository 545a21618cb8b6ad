// Package predict fits the regression models used for impact diagnostics
// and schedule simulation. Two candidates are trained — ridge linear
// regression and gradient-boosted regression trees — and the one with the
// higher holdout R² is kept. Quality metrics are diagnostic outputs, not
// gates: a low-R² model is still used.
package predict

import (
	"math"
	"math/rand"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/config"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/features"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

// Metrics reports holdout quality for a fitted model.
type Metrics struct {
	Model     string  `json:"model"`
	R2        float64 `json:"r2"`
	MSE       float64 `json:"mse"`
	MAE       float64 `json:"mae"`
	TrainSize int     `json:"train_size"`
	TestSize  int     `json:"test_size"`
}

// Model is a fitted predictor: the winning regressor, the standardizer fit
// on its training split, and the vectorizer capturing the feature layout.
// A Model is immutable after training and must only be applied to rows
// drawn from the record set it was trained on.
type Model struct {
	target  Target
	reg     regressor
	scaler  *Standardizer
	vec     *Vectorizer
	metrics Metrics
}

// Metrics returns the holdout quality report.
func (m *Model) Metrics() Metrics { return m.metrics }

// Target returns what the model predicts.
func (m *Model) Target() Target { return m.target }

// PredictRow predicts the target for a feature-table row at its recorded
// schedule.
func (m *Model) PredictRow(row *features.Row) float64 {
	return m.reg.Predict(m.scaler.TransformRow(m.vec.Row(row)))
}

// PredictRowAt predicts the target for a row as if it were scheduled at
// hour:minute (time-dependent features recomputed).
func (m *Model) PredictRowAt(row *features.Row, hour, minute int) float64 {
	return m.reg.Predict(m.scaler.TransformRow(m.vec.RowWithTime(row, hour, minute)))
}

// Trainer fits predictors with a reproducible protocol: seeded shuffle,
// 80/20 holdout, standardization statistics fit on the training split only.
type Trainer struct {
	cfg    config.PredictorConfig
	logger *zap.Logger
}

// NewTrainer creates a Trainer. A nil logger is replaced with a nop.
func NewTrainer(cfg config.PredictorConfig, logger *zap.Logger) *Trainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer{cfg: cfg, logger: logger}
}

// Train fits a model for the target over the feature table. It fails with
// *models.InsufficientDataError when fewer than the configured minimum
// records are available for a stable split.
func (tr *Trainer) Train(t *features.Table, target Target) (*Model, error) {
	n := t.Len()
	if n < tr.cfg.MinRecords {
		return nil, &models.InsufficientDataError{Required: tr.cfg.MinRecords, Got: n}
	}

	vec := NewVectorizer(t, target)
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range t.Rows {
		X[i] = vec.Row(&t.Rows[i])
		y[i] = vec.TargetValue(&t.Rows[i])
	}

	// Seeded shuffle split for reproducibility.
	rng := rand.New(rand.NewSource(tr.cfg.Seed))
	perm := rng.Perm(n)
	testSize := int(math.Round(float64(n) * tr.cfg.TestFraction))
	if testSize < 1 {
		testSize = 1
	}
	if testSize >= n {
		testSize = n - 1
	}
	testIdx, trainIdx := perm[:testSize], perm[testSize:]

	trainX := make([][]float64, len(trainIdx))
	trainY := make([]float64, len(trainIdx))
	for k, i := range trainIdx {
		trainX[k] = X[i]
		trainY[k] = y[i]
	}
	testX := make([][]float64, len(testIdx))
	testY := make([]float64, len(testIdx))
	for k, i := range testIdx {
		testX[k] = X[i]
		testY[k] = y[i]
	}

	scaler := &Standardizer{}
	trainXs := scaler.FitTransform(trainX)
	testXs := scaler.Transform(testX)

	var candidates []regressor
	if lin, err := fitRidge(trainXs, trainY, tr.cfg.RidgeLambda); err == nil {
		candidates = append(candidates, lin)
	} else {
		tr.logger.Warn("ridge candidate failed to fit", zap.Error(err))
	}
	candidates = append(candidates, fitBoostedTrees(trainXs, trainY, tr.cfg.BoostingRounds, tr.cfg.LearningRate))

	var best regressor
	var bestMetrics Metrics
	for _, cand := range candidates {
		m := evaluate(cand, testXs, testY)
		m.TrainSize = len(trainIdx)
		m.TestSize = len(testIdx)
		tr.logger.Debug("candidate model evaluated",
			zap.String("target", target.String()),
			zap.String("model", m.Model),
			zap.Float64("r2", m.R2),
			zap.Float64("mse", m.MSE),
			zap.Float64("mae", m.MAE))
		if best == nil || m.R2 > bestMetrics.R2 {
			best = cand
			bestMetrics = m
		}
	}

	tr.logger.Info("predictor trained",
		zap.String("target", target.String()),
		zap.String("model", bestMetrics.Model),
		zap.Float64("r2", bestMetrics.R2))
	return &Model{target: target, reg: best, scaler: scaler, vec: vec, metrics: bestMetrics}, nil
}

func evaluate(reg regressor, X [][]float64, y []float64) Metrics {
	est := make([]float64, len(X))
	var mse, mae float64
	for i := range X {
		est[i] = reg.Predict(X[i])
		diff := est[i] - y[i]
		mse += diff * diff
		mae += math.Abs(diff)
	}
	n := float64(len(X))
	return Metrics{
		Model: reg.Name(),
		R2:    stat.RSquaredFrom(est, y, nil),
		MSE:   mse / n,
		MAE:   mae / n,
	}
}
