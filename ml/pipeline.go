package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"heartrisk/patient"
)

// Pipeline is the deserialized artifact: optional scaling followed by an
// estimator. It is immutable once loaded.
type Pipeline struct {
	estimator Estimator
	scaler    *StandardScaler
}

type artifact struct {
	Estimator string          `json:"estimator"`
	Features  []string        `json:"features,omitempty"`
	Scaler    *StandardScaler `json:"scaler,omitempty"`
	Params    json.RawMessage `json:"params"`
}

func NewPipeline(estimator Estimator, scaler *StandardScaler) (*Pipeline, error) {
	if estimator == nil {
		return nil, errors.New("estimator is required")
	}
	if scaler != nil {
		if err := scaler.validate(patient.FeatureCount); err != nil {
			return nil, err
		}
	}
	return &Pipeline{estimator: estimator, scaler: scaler}, nil
}

// Estimator names the fitted estimator kind.
func (p *Pipeline) Estimator() string {
	return p.estimator.Kind()
}

// Predict scales features when the pipeline carries a scaler and runs the
// estimator on the result.
func (p *Pipeline) Predict(features []float64) (int, error) {
	if len(features) != patient.FeatureCount {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureWidth, len(features), patient.FeatureCount)
	}
	input := features
	if p.scaler != nil {
		scaled, err := p.scaler.Transform(features)
		if err != nil {
			return 0, err
		}
		input = scaled
	}
	return p.estimator.Predict(input)
}

// Save writes the pipeline in the artifact format LoadModel reads.
func (p *Pipeline) Save(path string) error {
	params, err := json.Marshal(p.estimator)
	if err != nil {
		return err
	}
	payload, err := json.MarshalIndent(artifact{
		Estimator: p.estimator.Kind(),
		Features:  patient.FeatureNames(),
		Scaler:    p.scaler,
		Params:    params,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func decodePipeline(payload []byte) (*Pipeline, error) {
	var a artifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Features != nil {
		if err := checkFeatureOrder(a.Features); err != nil {
			return nil, err
		}
	}
	if len(a.Params) == 0 {
		return nil, errors.New("artifact has no estimator params")
	}

	var estimator Estimator
	switch a.Estimator {
	case "knn":
		m := &KNN{}
		if err := json.Unmarshal(a.Params, m); err != nil {
			return nil, err
		}
		if m.Width() != patient.FeatureCount {
			return nil, fmt.Errorf("knn: points have %d columns, want %d", m.Width(), patient.FeatureCount)
		}
		estimator = m
	case "decision_tree":
		dt := &DecisionTree{}
		if err := json.Unmarshal(a.Params, dt); err != nil {
			return nil, err
		}
		if dt.Columns() > patient.FeatureCount {
			return nil, fmt.Errorf("decision tree: splits read column %d, only %d features", dt.Columns()-1, patient.FeatureCount)
		}
		estimator = dt
	default:
		return nil, fmt.Errorf("unsupported estimator %q", a.Estimator)
	}
	return NewPipeline(estimator, a.Scaler)
}

func checkFeatureOrder(got []string) error {
	want := patient.FeatureNames()
	if len(got) != len(want) {
		return fmt.Errorf("artifact lists %d features, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("artifact feature %d is %q, want %q", i, got[i], want[i])
		}
	}
	return nil
}
