package ml

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DecisionTree is a fitted binary tree stored as a flat node list with the
// root at index 0.
type DecisionTree struct {
	nodes []TreeNode
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
}

type treeParams struct {
	Nodes []TreeNode `json:"nodes"`
}

func NewDecisionTree(nodes []TreeNode) (*DecisionTree, error) {
	dt := &DecisionTree{nodes: nodes}
	if err := dt.validate(); err != nil {
		return nil, err
	}
	return dt, nil
}

func (dt *DecisionTree) Kind() string { return "decision_tree" }

func (dt *DecisionTree) validate() error {
	if len(dt.nodes) == 0 {
		return errors.New("decision tree: no nodes")
	}
	for i, node := range dt.nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 {
			return fmt.Errorf("decision tree: node %d has negative feature index", i)
		}
		// children always follow their parent, which also rules out cycles
		if node.LeftChild <= i || node.LeftChild >= len(dt.nodes) ||
			node.RightChild <= i || node.RightChild >= len(dt.nodes) {
			return fmt.Errorf("decision tree: node %d has invalid children", i)
		}
	}
	return nil
}

// Columns is one past the highest feature index any split reads.
func (dt *DecisionTree) Columns() int {
	n := 0
	for _, node := range dt.nodes {
		if !node.IsLeaf && node.FeatureIdx+1 > n {
			n = node.FeatureIdx + 1
		}
	}
	return n
}

func (dt *DecisionTree) Predict(features []float64) (int, error) {
	if len(dt.nodes) == 0 {
		return 0, ErrNotFitted
	}
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, nil
		}
		if node.FeatureIdx >= len(features) {
			return 0, fmt.Errorf("%w: node %d reads column %d of %d", ErrFeatureWidth, idx, node.FeatureIdx, len(features))
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}

func (dt *DecisionTree) MarshalJSON() ([]byte, error) {
	return json.Marshal(treeParams{Nodes: dt.nodes})
}

func (dt *DecisionTree) UnmarshalJSON(data []byte) error {
	var p treeParams
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	dt.nodes = p.Nodes
	return dt.validate()
}
