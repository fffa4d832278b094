package ml

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedClassifier memoizes labels per feature vector. The wrapped model
// is deterministic, so a cached label is always the label it would return.
type CachedClassifier struct {
	inner Classifier
	cache *lru.Cache[string, int]
}

// NewCachedClassifier wraps inner with an LRU of the given size. A size of
// zero or less returns inner unchanged.
func NewCachedClassifier(inner Classifier, size int) (Classifier, error) {
	if size <= 0 {
		return inner, nil
	}
	cache, err := lru.New[string, int](size)
	if err != nil {
		return nil, err
	}
	return &CachedClassifier{inner: inner, cache: cache}, nil
}

func (c *CachedClassifier) Predict(features []float64) (int, error) {
	key := vectorKey(features)
	if label, ok := c.cache.Get(key); ok {
		return label, nil
	}
	label, err := c.inner.Predict(features)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, label)
	return label, nil
}

// Len reports how many vectors are cached.
func (c *CachedClassifier) Len() int {
	return c.cache.Len()
}

func vectorKey(features []float64) string {
	var b strings.Builder
	for i, v := range features {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}
