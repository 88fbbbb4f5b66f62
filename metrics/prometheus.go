package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/viant/sqlite-knn/knn"
)

// PrometheusCollector implements knn.MetricsCollector.
type PrometheusCollector struct {
	predictLatency *prometheus.HistogramVec
	predictions    *prometheus.CounterVec
	trains         *prometheus.CounterVec
	samples        prometheus.Gauge
}

var _ knn.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates the collector and registers its metrics on
// reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &PrometheusCollector{
		predictLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "knn_predict_latency_seconds",
			Help:    "Latency of Predict calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"strategy", "status"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "knn_predictions_total",
			Help: "Total query rows classified",
		}, []string{"strategy"}),
		trains: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "knn_train_total",
			Help: "Total Train calls",
		}, []string{"status"}),
		samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "knn_training_samples",
			Help: "Number of samples in the current training set",
		}),
	}
	for _, col := range []prometheus.Collector{c.predictLatency, c.predictions, c.trains, c.samples} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordTrain implements knn.MetricsCollector. A failed Train keeps the
// previous training set, so the sample gauge is left unchanged.
func (c *PrometheusCollector) RecordTrain(samples, _ int, err error) {
	c.trains.WithLabelValues(status(err)).Inc()
	if err == nil {
		c.samples.Set(float64(samples))
	}
}

// RecordPredict implements knn.MetricsCollector.
func (c *PrometheusCollector) RecordPredict(strategy knn.Strategy, _, queries int, d time.Duration, err error) {
	c.predictLatency.WithLabelValues(strategy.String(), status(err)).Observe(d.Seconds())
	if err == nil {
		c.predictions.WithLabelValues(strategy.String()).Add(float64(queries))
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
