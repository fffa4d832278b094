package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// KNN is a k-nearest-neighbours classifier over stored training points with
// uniform weights and Euclidean distance.
type KNN struct {
	k      int
	points [][]float64
	labels []int
}

// knnParams is the artifact form of a fitted KNN. Points are stored after the
// pipeline's scaler, so they live in the same space as scaled inputs.
type knnParams struct {
	NNeighbors int         `json:"n_neighbors"`
	Points     [][]float64 `json:"points"`
	Labels     []int       `json:"labels"`
}

func NewKNN(k int, points [][]float64, labels []int) (*KNN, error) {
	m := &KNN{k: k, points: points, labels: labels}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *KNN) Kind() string { return "knn" }

func (m *KNN) validate() error {
	if len(m.points) == 0 {
		return errors.New("knn: no training points")
	}
	if len(m.points) != len(m.labels) {
		return fmt.Errorf("knn: %d points but %d labels", len(m.points), len(m.labels))
	}
	if m.k <= 0 {
		return fmt.Errorf("knn: n_neighbors must be positive, got %d", m.k)
	}
	if m.k > len(m.points) {
		return fmt.Errorf("knn: n_neighbors=%d exceeds %d training points", m.k, len(m.points))
	}
	width := len(m.points[0])
	for i, p := range m.points {
		if len(p) != width {
			return fmt.Errorf("knn: point %d has %d columns, want %d", i, len(p), width)
		}
	}
	return nil
}

// Width is the number of columns each training point has.
func (m *KNN) Width() int {
	if len(m.points) == 0 {
		return 0
	}
	return len(m.points[0])
}

// Predict returns the majority label among the k closest points. Equal
// distances keep training order; tied votes go to the lower label.
func (m *KNN) Predict(features []float64) (int, error) {
	if len(m.points) == 0 {
		return 0, ErrNotFitted
	}
	if len(features) != m.Width() {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureWidth, len(features), m.Width())
	}

	distances := make([]float64, len(m.points))
	for i, p := range m.points {
		distances[i] = squaredDistance(p, features)
	}
	order := make([]int, len(m.points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return distances[order[a]] < distances[order[b]]
	})

	votes := make(map[int]int)
	for _, idx := range order[:m.k] {
		votes[m.labels[idx]]++
	}
	best, bestCount := 0, -1
	for label, count := range votes {
		if count > bestCount || (count == bestCount && label < best) {
			best, bestCount = label, count
		}
	}
	return best, nil
}

func (m *KNN) MarshalJSON() ([]byte, error) {
	return json.Marshal(knnParams{NNeighbors: m.k, Points: m.points, Labels: m.labels})
}

func (m *KNN) UnmarshalJSON(data []byte) error {
	var p knnParams
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	m.k, m.points, m.labels = p.NNeighbors, p.Points, p.Labels
	return m.validate()
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
