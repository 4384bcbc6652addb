// Package metrics содержит метрики Prometheus для rssreader.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rssreader"

var (
	// RefreshTotal считает обновления ленты по источнику и результату.
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Total number of feed refreshes",
		},
		[]string{"source", "status"},
	)

	// RefreshDuration измеряет полную длительность обновления ленты.
	RefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of feed refreshes in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// DecodeErrorsTotal считает ошибки разбора ленты по виду.
	DecodeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Total number of feed decode failures",
		},
		[]string{"kind"},
	)

	// NewsItems хранит размер последнего сохраненного снимка.
	NewsItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "news_items",
			Help:      "Number of news items in the last stored snapshot",
		},
	)
)

// RecordRefresh фиксирует одну попытку обновления.
func RecordRefresh(source, status string, duration float64) {
	RefreshTotal.WithLabelValues(source, status).Inc()
	RefreshDuration.WithLabelValues(source).Observe(duration)
}

// RecordDecodeError фиксирует ошибку разбора.
func RecordDecodeError(kind string) {
	DecodeErrorsTotal.WithLabelValues(kind).Inc()
}

// SetNewsItems устанавливает размер снимка.
func SetNewsItems(n int) {
	NewsItems.Set(float64(n))
}
