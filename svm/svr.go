package svm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/core/model"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/metrics"
	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
)

// SVR is an epsilon support vector regressor with an RBF kernel.
//
// The dual problem is solved by cyclic coordinate descent on the
// beta coefficients (beta_i = alpha_i - alpha_i^*), each update being the
// exact one-dimensional minimizer soft-thresholded by Epsilon and clipped
// to [-C, C]. The bias is fixed to the training target mean, which keeps
// the subproblems independent and the solver deterministic.
type SVR struct {
	model.BaseEstimator

	// Hyperparameters
	c       float64 // regularization strength
	gamma   float64 // kernel width; GammaScale selects 1/(n_features*Var(X))
	epsilon float64 // width of the insensitive tube
	tol     float64 // convergence tolerance on the largest coefficient step
	maxIter int     // maximum number of full coordinate sweeps

	// Learned parameters
	supportVectors [][]float64
	coefficients   []float64
	intercept      float64
	gammaFitted    float64 // resolved kernel width
	nFeatures      int
}

// SVROption は設定オプション
type SVROption func(*SVR)

// WithC は正則化パラメータを設定
func WithC(c float64) SVROption {
	return func(s *SVR) { s.c = c }
}

// WithGamma はRBFカーネル幅を設定（GammaScaleでデータ依存のscale則）
func WithGamma(gamma float64) SVROption {
	return func(s *SVR) { s.gamma = gamma }
}

// WithEpsilon は不感帯の幅を設定
func WithEpsilon(epsilon float64) SVROption {
	return func(s *SVR) { s.epsilon = epsilon }
}

// WithTol は収束判定の許容誤差を設定
func WithTol(tol float64) SVROption {
	return func(s *SVR) { s.tol = tol }
}

// WithMaxIter は最大スイープ回数を設定
func WithMaxIter(maxIter int) SVROption {
	return func(s *SVR) { s.maxIter = maxIter }
}

// NewSVR は新しいSVRモデルを作成
func NewSVR(options ...SVROption) *SVR {
	s := &SVR{
		c:       1.0,
		gamma:   GammaScale,
		epsilon: 0.1,
		tol:     1e-4,
		maxIter: 1000,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// C returns the regularization strength.
func (s *SVR) C() float64 { return s.c }

// Gamma returns the configured kernel width (GammaScale if data-dependent).
func (s *SVR) Gamma() float64 { return s.gamma }

// Epsilon returns the insensitive-tube width.
func (s *SVR) Epsilon() float64 { return s.epsilon }

// NSupportVectors returns the number of support vectors after fitting.
func (s *SVR) NSupportVectors() int { return len(s.supportVectors) }

// Fit はモデルを訓練データで学習
func (s *SVR) Fit(X mat.Matrix, y *mat.VecDense) (err error) {
	defer qdErrors.Recover(&err, "SVR.Fit")

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return qdErrors.NewModelError("SVR.Fit", "empty data", qdErrors.ErrEmptyData)
	}
	if y.Len() != r {
		return qdErrors.NewDimensionError("SVR.Fit", r, y.Len(), 0)
	}
	if s.c <= 0 {
		return qdErrors.NewValidationError("C", "must be positive", s.c)
	}
	if s.epsilon < 0 {
		return qdErrors.NewValidationError("Epsilon", "must be non-negative", s.epsilon)
	}
	if err := qdErrors.CheckMatrix("SVR.Fit", X, r, c); err != nil {
		return err
	}

	s.nFeatures = c
	s.gammaFitted = resolveGamma(s.gamma, X)

	rows := matrixRows(X)
	K := kernelMatrix(rows, s.gammaFitted)

	// バイアスを訓練ターゲットの平均に固定し、残差に対して双対問題を解く
	s.intercept = 0.0
	for i := 0; i < r; i++ {
		s.intercept += y.AtVec(i)
	}
	s.intercept /= float64(r)

	residual := make([]float64, r)
	for i := 0; i < r; i++ {
		residual[i] = y.AtVec(i) - s.intercept
	}

	beta := make([]float64, r)
	// f[i] = sum_j K_ij * beta_j
	f := make([]float64, r)

	converged := false
	iter := 0
	for ; iter < s.maxIter; iter++ {
		maxStep := 0.0
		for i := 0; i < r; i++ {
			// K_ii = 1 for the RBF kernel
			q := f[i] - K.At(i, i)*beta[i] - residual[i]
			updated := qdErrors.ClipValue(softThreshold(-q, s.epsilon), -s.c, s.c)

			step := updated - beta[i]
			if step != 0 {
				for j := 0; j < r; j++ {
					f[j] += step * K.At(i, j)
				}
				beta[i] = updated
			}
			if math.Abs(step) > maxStep {
				maxStep = math.Abs(step)
			}
		}
		if maxStep < s.tol {
			converged = true
			break
		}
	}

	if !converged {
		qdErrors.Warn(qdErrors.NewConvergenceWarning("SVR", s.maxIter,
			"coordinate descent did not converge; consider raising MaxIter or Tol"))
	}

	// 係数が0のサンプルはサポートベクトルではない
	s.supportVectors = s.supportVectors[:0]
	s.coefficients = s.coefficients[:0]
	for i := 0; i < r; i++ {
		if beta[i] != 0 {
			s.supportVectors = append(s.supportVectors, rows[i])
			s.coefficients = append(s.coefficients, beta[i])
		}
	}

	s.SetFitted()
	return nil
}

// Predict は学習済みモデルで予測値を計算
func (s *SVR) Predict(X mat.Matrix) (_ *mat.VecDense, err error) {
	defer qdErrors.Recover(&err, "SVR.Predict")

	if !s.IsFitted() {
		return nil, qdErrors.NewNotFittedError("SVR", "Predict")
	}

	r, c := X.Dims()
	if c != s.nFeatures {
		return nil, qdErrors.NewDimensionError("SVR.Predict", s.nFeatures, c, 1)
	}

	rows := matrixRows(X)
	pred := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		sum := s.intercept
		for k, sv := range s.supportVectors {
			sum += s.coefficients[k] * rbf(rows[i], sv, s.gammaFitted)
		}
		pred.SetVec(i, sum)
	}
	return pred, nil
}

// Score はテストデータに対する決定係数R²を返す
func (s *SVR) Score(X mat.Matrix, y *mat.VecDense) (float64, error) {
	pred, err := s.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(y, pred)
}

// String returns a short description of the model configuration.
func (s *SVR) String() string {
	gamma := "scale"
	if s.gamma > 0 {
		gamma = fmt.Sprintf("%g", s.gamma)
	}
	return fmt.Sprintf("SVR(C=%g, gamma=%s, epsilon=%g)", s.c, gamma, s.epsilon)
}

// softThreshold shrinks z toward zero by eps.
func softThreshold(z, eps float64) float64 {
	switch {
	case z > eps:
		return z - eps
	case z < -eps:
		return z + eps
	default:
		return 0
	}
}
