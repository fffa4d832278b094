package ml

import (
	"fmt"
	"os"
)

// LoadModel reads the pipeline artifact at path. When modelType is set the
// artifact's estimator must match it. Every failure wraps
// ErrModelUnavailable.
func LoadModel(modelType, path string) (*Pipeline, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	pipeline, err := decodePipeline(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelUnavailable, path, err)
	}
	if modelType != "" && pipeline.Estimator() != modelType {
		return nil, fmt.Errorf("%w: %s holds %q, configured for %q", ErrModelUnavailable, path, pipeline.Estimator(), modelType)
	}
	return pipeline, nil
}
