package ml

import (
	"encoding/json"
	"errors"
	"testing"
)

func testTree(t *testing.T) *DecisionTree {
	t.Helper()
	// age <= 55 -> 0, otherwise thalach <= 140 -> 1 else 0
	tree, err := NewDecisionTree([]TreeNode{
		{FeatureIdx: 0, Threshold: 55, LeftChild: 1, RightChild: 2},
		{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 0, IsLeaf: true},
		{FeatureIdx: 7, Threshold: 140, LeftChild: 3, RightChild: 4},
		{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 1, IsLeaf: true},
		{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 0, IsLeaf: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tree
}

func TestDecisionTreePredict(t *testing.T) {
	tree := testTree(t)

	tests := []struct {
		name     string
		features []float64
		want     int
	}{
		{"young", []float64{40, 1, 0, 120, 200, 1, 0, 150, 1, 1, 0, 0, 1}, 0},
		{"older low heart rate", []float64{60, 1, 0, 120, 200, 1, 0, 130, 1, 1, 0, 0, 1}, 1},
		{"older high heart rate", []float64{60, 1, 0, 120, 200, 1, 0, 170, 1, 1, 0, 0, 1}, 0},
		{"threshold goes left", []float64{55, 1, 0, 120, 200, 1, 0, 130, 1, 1, 0, 0, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := tree.Predict(tt.features)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if label != tt.want {
				t.Fatalf("expected label %d, got %d", tt.want, label)
			}
		})
	}
}

func TestDecisionTreeShortVector(t *testing.T) {
	tree := testTree(t)
	if _, err := tree.Predict([]float64{60, 1}); !errors.Is(err, ErrFeatureWidth) {
		t.Fatalf("expected ErrFeatureWidth, got %v", err)
	}
}

func TestDecisionTreeRejectsBadNodes(t *testing.T) {
	tests := []struct {
		name  string
		nodes []TreeNode
	}{
		{"empty", nil},
		{"child out of range", []TreeNode{{FeatureIdx: 0, LeftChild: 1, RightChild: 5}}},
		{"cycle", []TreeNode{
			{FeatureIdx: 0, LeftChild: 1, RightChild: 2},
			{FeatureIdx: 0, LeftChild: 0, RightChild: 2},
			{IsLeaf: true},
		}},
		{"negative feature", []TreeNode{
			{FeatureIdx: -2, LeftChild: 1, RightChild: 2},
			{IsLeaf: true},
			{IsLeaf: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDecisionTree(tt.nodes); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDecisionTreeJSON(t *testing.T) {
	tree := testTree(t)
	payload, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded := &DecisionTree{}
	if err := json.Unmarshal(payload, decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	label, err := decoded.Predict([]float64{60, 1, 0, 120, 200, 1, 0, 130, 1, 1, 0, 0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 1 {
		t.Fatalf("expected label 1, got %d", label)
	}
}
