// Package predictor turns a patient record into a verdict using the loaded
// model.
package predictor

import (
	"context"
	"errors"
	"fmt"

	"heartrisk/ml"
	"heartrisk/patient"
)

// ErrUnexpectedLabel is returned when the model answers with something
// other than 0 or 1.
var ErrUnexpectedLabel = errors.New("unexpected model label")

// InferenceError wraps any fault raised while running the model.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return "inference failed: " + e.Err.Error()
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

type Outcome string

const (
	Positive Outcome = "positive"
	Negative Outcome = "negative"
)

// Verdict is the human-readable reading of a model label.
type Verdict struct {
	Label   int     `json:"label"`
	Outcome Outcome `json:"verdict"`
	Title   string  `json:"title"`
	Message string  `json:"message"`
}

var (
	positiveVerdict = Verdict{
		Label:   1,
		Outcome: Positive,
		Title:   "Heart Disease Detected",
		Message: "The model predicts a high likelihood of heart disease. Please consult a medical professional.",
	}
	negativeVerdict = Verdict{
		Label:   0,
		Outcome: Negative,
		Title:   "No Heart Disease Detected",
		Message: "The model predicts a low likelihood of heart disease.",
	}
)

// VerdictFor maps a model label to its verdict.
func VerdictFor(label int) (Verdict, error) {
	switch label {
	case 1:
		return positiveVerdict, nil
	case 0:
		return negativeVerdict, nil
	default:
		return Verdict{}, fmt.Errorf("%w: %d", ErrUnexpectedLabel, label)
	}
}

// Observer is notified of every prediction attempt.
type Observer interface {
	ObservePrediction(outcome Outcome, err error)
}

// Predictor holds the process-wide model. A Predictor built without a model
// refuses every request.
type Predictor struct {
	model    ml.Classifier
	loadErr  error
	observer Observer
}

type Option func(*Predictor)

func WithObserver(o Observer) Option {
	return func(p *Predictor) {
		p.observer = o
	}
}

func New(model ml.Classifier, opts ...Option) *Predictor {
	p := &Predictor{model: model}
	if model == nil {
		p.loadErr = ml.ErrModelUnavailable
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewUnavailable records why the model could not be loaded.
func NewUnavailable(loadErr error, opts ...Option) *Predictor {
	switch {
	case loadErr == nil:
		loadErr = ml.ErrModelUnavailable
	case !errors.Is(loadErr, ml.ErrModelUnavailable):
		loadErr = fmt.Errorf("%w: %w", ml.ErrModelUnavailable, loadErr)
	}
	p := &Predictor{loadErr: loadErr}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Available reports whether predictions can run.
func (p *Predictor) Available() bool {
	return p.model != nil
}

// LoadError is the reason the model is unavailable, or nil.
func (p *Predictor) LoadError() error {
	return p.loadErr
}

// Predict encodes r, runs the model and maps its label. ctx is accepted for
// request scoping; inference itself is not cancellable.
func (p *Predictor) Predict(ctx context.Context, r patient.Record) (Verdict, error) {
	if p.model == nil {
		return Verdict{}, p.loadErr
	}
	verdict, err := p.infer(r)
	if p.observer != nil {
		p.observer.ObservePrediction(verdict.Outcome, err)
	}
	return verdict, err
}

func (p *Predictor) infer(r patient.Record) (verdict Verdict, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			verdict, err = Verdict{}, &InferenceError{Err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	label, err := p.model.Predict(patient.FeatureVector(r))
	if err != nil {
		return Verdict{}, &InferenceError{Err: err}
	}
	verdict, err = VerdictFor(label)
	if err != nil {
		return Verdict{}, &InferenceError{Err: err}
	}
	return verdict, nil
}
