package predict

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// regressor is the contract both candidate models satisfy.
type regressor interface {
	Predict(x []float64) float64
	Name() string
}

// ridge is L2-regularized linear regression fit by the normal equations.
// The intercept is the training-target mean (features arrive standardized,
// so centring the target is all that is needed).
type ridge struct {
	weights   []float64
	intercept float64
}

func (r *ridge) Name() string { return "ridge_regression" }

func (r *ridge) Predict(x []float64) float64 {
	out := r.intercept
	for j, w := range r.weights {
		out += w * x[j]
	}
	return out
}

// fitRidge solves (XᵀX + λI) w = Xᵀ(y - mean(y)) via Cholesky.
func fitRidge(X [][]float64, y []float64, lambda float64) (*ridge, error) {
	n := len(X)
	if n == 0 {
		return nil, errors.New("ridge: empty training set")
	}
	d := len(X[0])
	intercept := stat.Mean(y, nil)

	xtx := mat.NewSymDense(d, nil)
	xty := mat.NewVecDense(d, nil)
	for i := 0; i < n; i++ {
		yc := y[i] - intercept
		for j := 0; j < d; j++ {
			xty.SetVec(j, xty.AtVec(j)+X[i][j]*yc)
			for k := j; k < d; k++ {
				xtx.SetSym(j, k, xtx.At(j, k)+X[i][j]*X[i][k])
			}
		}
	}

	// A few escalating regularization attempts in case the Gram matrix is
	// numerically singular despite λ.
	w := mat.NewVecDense(d, nil)
	for attempt := 0; attempt < 4; attempt++ {
		reg := mat.NewSymDense(d, nil)
		reg.CopySym(xtx)
		for j := 0; j < d; j++ {
			reg.SetSym(j, j, reg.At(j, j)+lambda)
		}
		var chol mat.Cholesky
		if chol.Factorize(reg) {
			if err := chol.SolveVecTo(w, xty); err == nil {
				weights := make([]float64, d)
				copy(weights, w.RawVector().Data)
				return &ridge{weights: weights, intercept: intercept}, nil
			}
		}
		lambda *= 10
	}
	return nil, errors.New("ridge: normal equations not positive definite")
}
