// Package metrics exports classifier metrics to Prometheus.
package metrics
