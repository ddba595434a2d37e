package model

// BaseEstimator は推定器に埋め込んで学習状態を共有する基底構造体。
// Fit が成功したら SetFitted を呼び、Predict 側は IsFitted で検査する。
type BaseEstimator struct {
	fitted bool
}

// IsFitted は Fit 済みなら true を返す
func (e *BaseEstimator) IsFitted() bool {
	return e.fitted
}

// SetFitted は学習完了を記録する
func (e *BaseEstimator) SetFitted() {
	e.fitted = true
}

// Reset は未学習状態に戻す
func (e *BaseEstimator) Reset() {
	e.fitted = false
}
