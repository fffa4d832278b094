package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"heartrisk/config"
	"heartrisk/ml"
	"heartrisk/monitoring"
	"heartrisk/patient"
	"heartrisk/predictor"
)

func TestLoadPredictorMissingArtifact(t *testing.T) {
	cfg := config.Default()
	cfg.Model.Path = filepath.Join(t.TempDir(), "heart_disease_knn.json")
	metrics := monitoring.NewMetrics("main_missing")

	pred, watcher := loadPredictor(cfg, zap.NewNop(), metrics)
	assert.Nil(t, watcher)
	assert.False(t, pred.Available())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ModelAvailable))

	_, err := pred.Predict(context.Background(), patient.Defaults())
	assert.True(t, errors.Is(err, ml.ErrModelUnavailable))
}

func TestLoadPredictorFixture(t *testing.T) {
	cfg := config.Default()
	cfg.Model.Path = filepath.Join("ml", "testdata", "knn_pipeline.json")
	cfg.Model.Watch = false
	metrics := monitoring.NewMetrics("main_fixture")

	pred, watcher := loadPredictor(cfg, zap.NewNop(), metrics)
	require.Nil(t, watcher)
	require.True(t, pred.Available())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ModelAvailable))

	tests := []struct {
		name    string
		values  map[string]float64
		outcome predictor.Outcome
	}{
		{"at risk", map[string]float64{"age": 62, "trestbps": 145, "chol": 280, "restecg": 1, "thalach": 110, "oldpeak": 3.0, "slope": 1, "ca": 2, "thal": 3}, predictor.Positive},
		{"healthy", map[string]float64{"age": 45, "sex": 0, "cp": 1, "trestbps": 115, "chol": 190, "fbs": 0, "thalach": 165, "exang": 0, "oldpeak": 0.2, "slope": 2, "thal": 2}, predictor.Negative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := patient.FromValues(tt.values)
			require.NoError(t, err)
			verdict, err := pred.Predict(context.Background(), record)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, verdict.Outcome)
		})
	}
}
