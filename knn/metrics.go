package knn

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics from a Classifier.
// The metrics package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordTrain is called after each Train call with the size of the
	// submitted training set.
	RecordTrain(samples, dim int, err error)

	// RecordPredict is called after each Predict call. queries is the number
	// of query rows, duration covers distance computation and voting.
	RecordPredict(strategy Strategy, k, queries int, duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTrain(int, int, error)                             {}
func (NoopMetricsCollector) RecordPredict(Strategy, int, int, time.Duration, error) {}

// BasicMetricsCollector keeps in-memory counters, useful in tests and for
// debugging without a monitoring system.
type BasicMetricsCollector struct {
	TrainCount       atomic.Int64
	TrainErrors      atomic.Int64
	PredictCount     atomic.Int64
	PredictErrors    atomic.Int64
	PredictedRows    atomic.Int64
	PredictTotalNano atomic.Int64
}

// RecordTrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrain(_, _ int, err error) {
	b.TrainCount.Add(1)
	if err != nil {
		b.TrainErrors.Add(1)
	}
}

// RecordPredict implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPredict(_ Strategy, _, queries int, duration time.Duration, err error) {
	b.PredictCount.Add(1)
	b.PredictTotalNano.Add(duration.Nanoseconds())
	if err != nil {
		b.PredictErrors.Add(1)
		return
	}
	b.PredictedRows.Add(int64(queries))
}
