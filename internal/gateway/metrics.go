package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_analytics_questions_total",
			Help: "Total number of questions run through the pipeline",
		},
		[]string{"stage", "status"},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_analytics_pipeline_duration_seconds",
			Help:    "Duration of the translate-extract-execute pipeline",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~200s
		},
	)
)
