package ml

import (
	"errors"
	"testing"
)

func TestKNNPredict(t *testing.T) {
	points := [][]float64{
		{0, 0}, {0, 1}, {1, 0},
		{5, 5}, {5, 6}, {6, 5},
	}
	labels := []int{0, 0, 0, 1, 1, 1}
	model, err := NewKNN(3, points, labels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		features []float64
		want     int
	}{
		{"near origin", []float64{0.2, 0.3}, 0},
		{"near cluster", []float64{5.5, 5.1}, 1},
		{"exact point", []float64{6, 5}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := model.Predict(tt.features)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if label != tt.want {
				t.Fatalf("expected label %d, got %d", tt.want, label)
			}
		})
	}
}

func TestKNNTieGoesToLowerLabel(t *testing.T) {
	model, err := NewKNN(2, [][]float64{{1}, {-1}, {10}}, []int{1, 0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	label, err := model.Predict([]float64{0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected tie to resolve to 0, got %d", label)
	}
}

func TestKNNDeterministic(t *testing.T) {
	model, err := NewKNN(1, [][]float64{{0}, {2}}, []int{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// equidistant: the earlier training point wins every time
	for i := 0; i < 10; i++ {
		label, err := model.Predict([]float64{1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if label != 0 {
			t.Fatalf("expected label 0 on run %d, got %d", i, label)
		}
	}
}

func TestKNNValidation(t *testing.T) {
	tests := []struct {
		name   string
		k      int
		points [][]float64
		labels []int
	}{
		{"no points", 1, nil, nil},
		{"label mismatch", 1, [][]float64{{1}}, []int{0, 1}},
		{"zero k", 0, [][]float64{{1}}, []int{0}},
		{"k too large", 3, [][]float64{{1}, {2}}, []int{0, 1}},
		{"ragged", 1, [][]float64{{1, 2}, {1}}, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewKNN(tt.k, tt.points, tt.labels); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestKNNWidthMismatch(t *testing.T) {
	model, err := NewKNN(1, [][]float64{{0, 0}}, []int{0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := model.Predict([]float64{1}); !errors.Is(err, ErrFeatureWidth) {
		t.Fatalf("expected ErrFeatureWidth, got %v", err)
	}
}
