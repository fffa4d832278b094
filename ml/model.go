package ml

import "errors"

var (
	// ErrModelUnavailable marks any failure to load the model artifact.
	ErrModelUnavailable = errors.New("model unavailable")
	ErrFeatureWidth     = errors.New("feature vector has wrong width")
	ErrNotFitted        = errors.New("model not fitted")
)

// Classifier maps one feature vector to a class label. Implementations are
// read-only after construction and safe for concurrent use.
type Classifier interface {
	Predict(features []float64) (int, error)
}

// Estimator is a Classifier that can be stored inside a pipeline artifact.
type Estimator interface {
	Classifier
	Kind() string
}
