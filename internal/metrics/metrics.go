package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     prometheus.CounterVec
	HTTPRequestDuration   prometheus.HistogramVec
	HTTPRequestSize       prometheus.HistogramVec
	HTTPResponseSize      prometheus.HistogramVec
	HTTPActiveConnections prometheus.GaugeVec

	// Cache metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Rate limiting metrics
	RateLimitExceededTotal prometheus.CounterVec

	// Database metrics
	DatabaseQueryDuration   prometheus.HistogramVec
	DatabaseQueriesTotal    prometheus.CounterVec
	DatabaseConnectionsOpen prometheus.GaugeVec

	// Social engagement metrics
	FollowsTotal       prometheus.CounterVec
	LikesTotal         prometheus.CounterVec
	CommentsTotal      prometheus.CounterVec
	ContentCreated     prometheus.CounterVec
	StoryViewsTotal    prometheus.Counter
	StoriesPurgedTotal prometheus.Counter

	// Suggestion engine metrics
	SuggestionRequests prometheus.CounterVec
	SuggestionDuration prometheus.Histogram

	// Feed metrics
	FeedGenerationTime prometheus.HistogramVec

	// Notification metrics
	NotificationsEmittedTotal prometheus.CounterVec

	// Auth metrics
	LoginAttemptsTotal prometheus.CounterVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestSize: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_size_bytes",
					Help:    "HTTP request body size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path"},
			),
			HTTPResponseSize: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_response_size_bytes",
					Help:    "HTTP response size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total number of cache hits",
				},
				[]string{"cache_name"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total number of cache misses",
				},
				[]string{"cache_name"},
			),

			RateLimitExceededTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of rate limit violations",
				},
				[]string{"endpoint", "method"},
			),

			DatabaseQueryDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "database_query_duration_seconds",
					Help:    "Database query latency in seconds",
					Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"query_type", "table"},
			),
			DatabaseQueriesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "database_queries_total",
					Help: "Total number of database queries",
				},
				[]string{"query_type", "table", "status"},
			),
			DatabaseConnectionsOpen: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "database_connections_open",
					Help: "Number of currently open database connections",
				},
				[]string{"database"},
			),

			FollowsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "follows_total",
					Help: "Total number of follow and unfollow operations",
				},
				[]string{"action"},
			),
			LikesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "likes_total",
					Help: "Total number of like and unlike operations",
				},
				[]string{"action", "content_type"},
			),
			CommentsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "comments_total",
					Help: "Total number of comments created",
				},
				[]string{"content_type"},
			),
			ContentCreated: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "content_created_total",
					Help: "Total number of posts, videos, and stories created",
				},
				[]string{"content_type"},
			),
			StoryViewsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "story_views_total",
					Help: "Total number of story views recorded",
				},
			),
			StoriesPurgedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "stories_purged_total",
					Help: "Total number of expired stories purged",
				},
			),

			SuggestionRequests: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "suggestion_requests_total",
					Help: "Total number of suggested-user requests by cache outcome",
				},
				[]string{"source"},
			),
			SuggestionDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "suggestion_duration_seconds",
					Help:    "Time to compute user suggestions in seconds",
					Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1},
				},
			),

			FeedGenerationTime: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_generation_duration_seconds",
					Help:    "Time to generate a feed in seconds",
					Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"feed_type"},
			),

			NotificationsEmittedTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notifications_emitted_total",
					Help: "Total number of notifications written",
				},
				[]string{"type"},
			),

			LoginAttemptsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "login_attempts_total",
					Help: "Total number of login attempts",
				},
				[]string{"method", "status"},
			),

			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
