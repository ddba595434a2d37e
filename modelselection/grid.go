package modelselection

import (
	"fmt"

	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/svm"
)

// Params is a single hyperparameter candidate for the SVR.
type Params struct {
	C       float64
	Gamma   float64 // svm.GammaScale selects the data-dependent width
	Epsilon float64
}

// String renders params the way they would appear in a grid definition.
func (p Params) String() string {
	gamma := "scale"
	if p.Gamma > 0 {
		gamma = fmt.Sprintf("%g", p.Gamma)
	}
	return fmt.Sprintf("C=%g gamma=%s epsilon=%g", p.C, gamma, p.Epsilon)
}

// ParamGrid defines the axes of an exhaustive hyperparameter search.
type ParamGrid struct {
	Cs       []float64
	Gammas   []float64
	Epsilons []float64
}

// DefaultParamGrid returns the grid searched for every quantum-dot target:
// C in {0.1, 1, 10, 100}, gamma in {scale, 0.01, 0.1, 1},
// epsilon in {0.01, 0.1, 0.5}.
func DefaultParamGrid() ParamGrid {
	return ParamGrid{
		Cs:       []float64{0.1, 1, 10, 100},
		Gammas:   []float64{svm.GammaScale, 0.01, 0.1, 1},
		Epsilons: []float64{0.01, 0.1, 0.5},
	}
}

// Candidates enumerates the Cartesian product in declaration order:
// C varies slowest, epsilon fastest.
func (g ParamGrid) Candidates() []Params {
	candidates := make([]Params, 0, len(g.Cs)*len(g.Gammas)*len(g.Epsilons))
	for _, c := range g.Cs {
		for _, gamma := range g.Gammas {
			for _, epsilon := range g.Epsilons {
				candidates = append(candidates, Params{C: c, Gamma: gamma, Epsilon: epsilon})
			}
		}
	}
	return candidates
}

// Validate checks that every axis is non-empty and every value is legal.
func (g ParamGrid) Validate() error {
	if len(g.Cs) == 0 || len(g.Gammas) == 0 || len(g.Epsilons) == 0 {
		return qdErrors.NewValueError("ParamGrid.Validate", "every axis must have at least one value")
	}
	for _, c := range g.Cs {
		if c <= 0 {
			return qdErrors.NewValidationError("C", "must be positive", c)
		}
	}
	for _, e := range g.Epsilons {
		if e < 0 {
			return qdErrors.NewValidationError("Epsilon", "must be non-negative", e)
		}
	}
	return nil
}
