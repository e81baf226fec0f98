package telegram

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_analytics_telegram_build_info",
			Help: "Build information of the video analytics Telegram bot",
		},
		[]string{"version", "commit", "date"},
	)

	MessagesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_analytics_telegram_messages_processed_total",
			Help: "Total number of Telegram messages processed",
		},
		[]string{"kind"},
	)

	MessagesIgnoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_analytics_telegram_messages_ignored_total",
			Help: "Total number of Telegram messages ignored",
		},
		[]string{"reason"},
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_analytics_telegram_message_processing_duration_seconds",
			Help:    "Duration of message processing, pipeline included",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 0.1s to ~205s
		},
	)

	APIErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_analytics_telegram_api_errors_total",
			Help: "Total number of Telegram API errors",
		},
		[]string{"operation"},
	)
)
