// Package pipeline chains feature transformers with a final regressor,
// so a scaler, a PCA step and an SVR can be fitted and applied as one
// estimator.
package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/core/model"
	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/log"
)

// Initialized at package load: New runs concurrently inside the grid
// search workers, so the provider must never be lazily assigned.
var globalProvider log.LoggerProvider = log.NewZerologProvider(log.LevelInfo)

// Step represents a single named step in the pipeline.
// Intermediate steps must be model.Transformer; the final step must be a
// model.Regressor.
type Step struct {
	Name      string
	Estimator interface{}
}

// Pipeline applies its transformers in order and delegates Fit/Predict/
// Score to the final regressor. Transform statistics are learned on the
// data passed to Fit only, so test partitions are transformed with
// training statistics.
type Pipeline struct {
	state  *model.StateManager
	logger log.Logger

	steps []Step
}

// New creates a new Pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	p := &Pipeline{
		steps: steps,
		state: model.NewStateManager(),
	}
	p.logger = globalProvider.GetLoggerWithName("Pipeline")
	return p
}

// Make builds a pipeline with generated step names.
func Make(estimators ...interface{}) *Pipeline {
	steps := make([]Step, len(estimators))
	for i, estimator := range estimators {
		steps[i] = Step{Name: fmt.Sprintf("step%d", i+1), Estimator: estimator}
	}
	return New(steps...)
}

// Fit learns each transformer on the (already transformed) training data
// in order, then fits the final regressor.
func (p *Pipeline) Fit(X mat.Matrix, y *mat.VecDense) error {
	if len(p.steps) == 0 {
		return qdErrors.New("pipeline has no steps")
	}

	Xt := X
	var err error

	for i := 0; i < len(p.steps)-1; i++ {
		step := p.steps[i]

		transformer, ok := step.Estimator.(model.Transformer)
		if !ok {
			return qdErrors.NewValidationError(
				"pipeline step",
				"all intermediate steps must be transformers",
				step.Name,
			)
		}

		Xt, err = transformer.FitTransform(Xt)
		if err != nil {
			return qdErrors.Wrap(err, fmt.Sprintf("failed to fit step '%s'", step.Name))
		}
	}

	finalStep := p.steps[len(p.steps)-1]
	regressor, ok := finalStep.Estimator.(model.Fitter)
	if !ok {
		return qdErrors.NewValidationError(
			"pipeline final step",
			"final step must be a regressor",
			finalStep.Name,
		)
	}
	if err = regressor.Fit(Xt, y); err != nil {
		return qdErrors.Wrap(err, fmt.Sprintf("failed to fit final step '%s'", finalStep.Name))
	}

	p.state.SetFitted()
	return nil
}

// Predict applies the fitted transformers and predicts with the final
// regressor.
func (p *Pipeline) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !p.state.IsFitted() {
		return nil, qdErrors.NewNotFittedError("Pipeline", "Predict")
	}

	Xt, err := p.transform(X)
	if err != nil {
		return nil, err
	}

	finalStep := p.steps[len(p.steps)-1]
	predictor, ok := finalStep.Estimator.(model.Predictor)
	if !ok {
		return nil, qdErrors.NewValidationError(
			"pipeline final step",
			"final step must have Predict method",
			finalStep.Name,
		)
	}
	return predictor.Predict(Xt)
}

// Score applies the fitted transformers and scores with the final
// regressor.
func (p *Pipeline) Score(X mat.Matrix, y *mat.VecDense) (float64, error) {
	if !p.state.IsFitted() {
		return 0, qdErrors.NewNotFittedError("Pipeline", "Score")
	}

	Xt, err := p.transform(X)
	if err != nil {
		return 0, err
	}

	finalStep := p.steps[len(p.steps)-1]
	scorer, ok := finalStep.Estimator.(model.Scorer)
	if !ok {
		return 0, qdErrors.NewValidationError(
			"pipeline final step",
			"final step must have Score method",
			finalStep.Name,
		)
	}
	return scorer.Score(Xt, y)
}

// Steps returns a copy of the step list.
func (p *Pipeline) Steps() []Step {
	steps := make([]Step, len(p.steps))
	copy(steps, p.steps)
	return steps
}

// NamedStep returns the estimator registered under name, or nil.
func (p *Pipeline) NamedStep(name string) interface{} {
	for _, step := range p.steps {
		if step.Name == name {
			return step.Estimator
		}
	}
	return nil
}

// IsFitted reports whether Fit has completed.
func (p *Pipeline) IsFitted() bool {
	return p.state.IsFitted()
}

// transform applies all transforms except the final estimator.
func (p *Pipeline) transform(X mat.Matrix) (mat.Matrix, error) {
	Xt := X
	var err error

	for i := 0; i < len(p.steps)-1; i++ {
		step := p.steps[i]
		transformer, ok := step.Estimator.(model.Transformer)
		if !ok {
			return nil, qdErrors.NewValidationError(
				"pipeline step",
				"intermediate steps must be transformers",
				step.Name,
			)
		}

		Xt, err = transformer.Transform(Xt)
		if err != nil {
			return nil, qdErrors.Wrap(err, fmt.Sprintf("failed to transform at step '%s'", step.Name))
		}
	}

	return Xt, nil
}
