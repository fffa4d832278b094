package ml

import (
	"errors"
	"fmt"
)

// StandardScaler centres and scales each column: (x - mean) / scale.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) validate(width int) error {
	if len(s.Mean) != width || len(s.Scale) != width {
		return fmt.Errorf("scaler expects %d columns, has mean=%d scale=%d", width, len(s.Mean), len(s.Scale))
	}
	return nil
}

// Transform returns a scaled copy of features. A zero scale leaves the
// centred value unscaled.
func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if s == nil {
		return nil, errors.New("scaler is nil")
	}
	if len(features) != len(s.Mean) {
		return nil, fmt.Errorf("%w: got %d, scaler has %d", ErrFeatureWidth, len(features), len(s.Mean))
	}
	out := make([]float64, len(features))
	for i, v := range features {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}
