package statusapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	iterationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mergescan",
			Subsystem: "sweep",
			Name:      "iterations_total",
			Help:      "Total sweep iterations by final state",
		},
		[]string{"sweep", "status"},
	)

	mergeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mergescan",
			Subsystem: "sweep",
			Name:      "merge_duration_seconds",
			Help:      "Duration of external merge invocations in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"sweep"},
	)

	uploadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mergescan",
			Subsystem: "sweep",
			Name:      "upload_duration_seconds",
			Help:      "Duration of external upload invocations in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"sweep"},
	)

	sweepInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mergescan",
			Subsystem: "sweep",
			Name:      "inflight",
			Help:      "1 while an iteration is running",
		},
	)
)

func init() {
	prometheus.MustRegister(iterationsTotal, mergeDuration, uploadDuration, sweepInflight)
}
