package knn

import (
	"cmp"
	"context"
	"sync"
	"time"
)

// Classifier is a k-nearest-neighbors classifier with labels of type L.
//
// Train and Predict may be called from multiple goroutines; the training
// state is read-only between Train calls.
type Classifier[L cmp.Ordered] struct {
	mu      sync.RWMutex
	train   *trainSet
	labels  []L
	logger  *Logger
	metrics MetricsCollector
}

// New creates an untrained classifier.
func New[L cmp.Ordered](opts ...Option) *Classifier[L] {
	o := newOptions(opts)
	return &Classifier[L]{logger: o.logger, metrics: o.metrics}
}

// Train memorizes X (N×D) and its labels y (length N), replacing any prior
// state. The rows are retained by reference and must not be mutated by the
// caller afterwards. On error the prior state is kept.
func (c *Classifier[L]) Train(X [][]float64, y []L) error {
	ts, err := c.memorize(X, y)
	dim := 0
	if ts != nil {
		dim = ts.dim
	}
	c.metrics.RecordTrain(len(X), dim, err)
	c.logger.LogTrain(context.Background(), len(X), dim, err)
	return err
}

func (c *Classifier[L]) memorize(X [][]float64, y []L) (*trainSet, error) {
	if len(X) != len(y) {
		return nil, &ErrLabelCount{Vectors: len(X), Labels: len(y)}
	}
	ts, err := newTrainSet(X)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.train = ts
	c.labels = y
	c.mu.Unlock()
	return ts, nil
}

// Trained reports whether Train has succeeded at least once.
func (c *Classifier[L]) Trained() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.train != nil
}

// Size returns the number of memorized training rows.
func (c *Classifier[L]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.labels)
}

// Dim returns the training feature dimension, 0 when untrained or empty.
func (c *Classifier[L]) Dim() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.train == nil {
		return 0
	}
	return c.train.dim
}

// Predict returns one label per row of X, voting among the k nearest
// training rows found with the given distance strategy.
func (c *Classifier[L]) Predict(X [][]float64, strategy Strategy, k int) ([]L, error) {
	start := time.Now()
	out, err := c.predict(X, strategy, k)
	c.metrics.RecordPredict(strategy, k, len(X), time.Since(start), err)
	c.logger.LogPredict(context.Background(), strategy, k, len(X), err)
	return out, err
}

func (c *Classifier[L]) predict(X [][]float64, strategy Strategy, k int) ([]L, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.train == nil {
		return nil, ErrNotTrained
	}
	if !strategy.Valid() {
		return nil, &ErrInvalidStrategy{Strategy: strategy}
	}
	if n := len(c.labels); k < 1 || k > n {
		return nil, &ErrInvalidK{K: k, N: n}
	}
	dists, err := c.train.compute(strategy, X)
	if err != nil {
		return nil, err
	}
	return PredictLabels(dists, c.labels, k)
}

// ComputeDistances returns the len(X)×N Euclidean distance matrix between X
// and the training rows using the selected strategy.
func (c *Classifier[L]) ComputeDistances(strategy Strategy, X [][]float64) ([][]float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.train == nil {
		return nil, ErrNotTrained
	}
	return c.train.compute(strategy, X)
}

// PredictLabels votes over a distance matrix whose columns correspond to the
// training rows.
func (c *Classifier[L]) PredictLabels(dists [][]float64, k int) ([]L, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.train == nil {
		return nil, ErrNotTrained
	}
	return PredictLabels(dists, c.labels, k)
}
