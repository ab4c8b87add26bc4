// Package metrics holds the Prometheus collectors for the HTTP API, the
// Chess.com client and the archive cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chessactivity"

// Label names
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelEndpoint = "endpoint"
	LabelJob      = "job"
	LabelResult   = "result"
)

// Chess.com endpoints as reported in the endpoint label.
const (
	EndpointProfile  = "profile"
	EndpointArchives = "archives"
	EndpointMonthly  = "monthly"
)

var httpLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served.",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   httpLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		},
	)
)

// Upstream metrics
var (
	ChessComRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chesscom_requests_total",
			Help:      "Requests sent to the Chess.com public API.",
		},
		[]string{LabelEndpoint, LabelStatus},
	)

	ChessComRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chesscom_request_duration_seconds",
			Help:      "Chess.com API latency.",
			Buckets:   httpLatencyBuckets,
		},
		[]string{LabelEndpoint},
	)
)

// Cache and job metrics
var (
	ArchiveCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_cache_hits_total",
			Help:      "Monthly archive pages served from the local cache.",
		},
	)

	ArchiveCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_cache_misses_total",
			Help:      "Monthly archive pages that had to be fetched.",
		},
	)

	ProfileCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_cache_hits_total",
			Help:      "Profile lookups served from memory.",
		},
	)

	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_processed_total",
			Help:      "Background jobs run by the worker pool.",
		},
		[]string{LabelJob, LabelResult},
	)
)
