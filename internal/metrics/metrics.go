package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Download pipeline metrics
var (
	DownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_downloads_total",
			Help: "Total number of download requests, by platform, format, and outcome.",
		},
		[]string{"platform", "format", "status"},
	)

	DownloadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_download_duration_seconds",
			Help:    "Wall time spent per download, extraction included.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"platform", "format"},
	)

	ExtractionsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_extractions_in_flight",
			Help: "Number of extractions currently running.",
		},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, by method, path, and status code.",
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		DownloadsTotal,
		DownloadDuration,
		ExtractionsInFlight,
		HTTPRequestsTotal,
	)
}
