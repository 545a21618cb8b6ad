package predict

import "gonum.org/v1/gonum/stat"

// Standardizer scales features to zero mean and unit variance. Statistics
// are fit on the training split only and reapplied to any later split;
// statistics fit on one subset must never be applied to features derived
// from a different subset.
type Standardizer struct {
	mean []float64
	std  []float64
}

// Fit computes per-column statistics over X (rows × features).
func (s *Standardizer) Fit(X [][]float64) {
	if len(X) == 0 {
		s.mean, s.std = nil, nil
		return
	}
	d := len(X[0])
	s.mean = make([]float64, d)
	s.std = make([]float64, d)
	col := make([]float64, len(X))
	for j := 0; j < d; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		s.mean[j] = stat.Mean(col, nil)
		sd := stat.StdDev(col, nil)
		if len(X) < 2 || sd == 0 {
			sd = 1 // constant column: leave it centred but unscaled
		}
		s.std[j] = sd
	}
}

// Transform returns a standardized copy of X.
func (s *Standardizer) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = s.TransformRow(X[i])
	}
	return out
}

// TransformRow returns a standardized copy of one feature vector.
func (s *Standardizer) TransformRow(x []float64) []float64 {
	out := make([]float64, len(x))
	for j := range x {
		out[j] = (x[j] - s.mean[j]) / s.std[j]
	}
	return out
}

// FitTransform fits on X and returns its standardized copy.
func (s *Standardizer) FitTransform(X [][]float64) [][]float64 {
	s.Fit(X)
	return s.Transform(X)
}
