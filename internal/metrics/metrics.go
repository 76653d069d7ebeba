// Package metrics provides Prometheus metrics for observability.
// Metrics are organized by domain: HTTP requests, engine operations,
// cascade cleanup, notifications, and database operations.
package metrics

import (
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "podcast_blog"
)

var (
	// HTTP metrics - track request volume and latency
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Operation metrics - track engine mutations and reads by outcome
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "operations_total",
			Help:      "Total number of engine operations by entity, operation, and result",
		},
		[]string{"entity", "operation", "result"},
	)

	// Cascade metrics - track cleanup graph invocations
	CascadeCleanupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "cleanups_total",
			Help:      "Total number of cascade cleanup invocations by entity kind",
		},
		[]string{"entity"},
	)

	// Notification metrics - track fan-out volume and email delivery
	NotificationsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "created_total",
			Help:      "Total number of notification records created by triggering event",
		},
		[]string{"event"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "emails_total",
			Help:      "Total number of notification emails by result",
		},
		[]string{"result"},
	)

	// Scheduled publish metrics - track the due-post sweep
	ScheduledPublishesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "posts",
			Name:      "scheduled_publishes_total",
			Help:      "Total number of scheduled posts flipped to published by the sweep",
		},
	)

	// Feed cache metrics
	FeedCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "feed_requests_total",
			Help:      "Total number of feed cache lookups by result",
		},
		[]string{"result"},
	)

	// Event metrics - track domain event publishing
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of domain events published by subject and result",
		},
		[]string{"subject", "result"},
	)

	// Database metrics - track database connection pool state
	DBConnectionPoolSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "pool_connections",
			Help:      "Database connection pool stats",
		},
		[]string{"state"},
	)
)

// ObserveOperation records the outcome of one engine operation.
func ObserveOperation(entity, operation, result string) {
	OperationsTotal.WithLabelValues(entity, operation, result).Inc()
}

// RecordCascade records one cascade cleanup invocation for an entity kind.
func RecordCascade(entity string) {
	CascadeCleanupsTotal.WithLabelValues(entity).Inc()
}

// RecordNotification records one created notification for a triggering event.
func RecordNotification(event string) {
	NotificationsCreatedTotal.WithLabelValues(event).Inc()
}

// RecordEmail records one email send attempt.
func RecordEmail(result string) {
	EmailsSentTotal.WithLabelValues(result).Inc()
}

// RecordFeedCache records one feed cache lookup result ("hit" or "miss").
func RecordFeedCache(result string) {
	FeedCacheRequestsTotal.WithLabelValues(result).Inc()
}

// RecordEvent records one domain event publish attempt.
func RecordEvent(subject, result string) {
	EventsPublishedTotal.WithLabelValues(subject, result).Inc()
}

// PoolStats is an interface for getting pool statistics
// This allows for easier testing by mocking the pool stats
type PoolStats interface {
	TotalConns() int32
	IdleConns() int32
	AcquiredConns() int32
}

// PoolStatsProvider is an interface for providing pool stats
type PoolStatsProvider interface {
	Stat() PoolStats
}

// pgxPoolAdapter adapts pgxpool.Pool to PoolStatsProvider
type pgxPoolAdapter struct {
	pool *pgxpool.Pool
}

func (a *pgxPoolAdapter) Stat() PoolStats {
	return a.pool.Stat()
}

// PoolStatsCollector collects database pool statistics periodically
type PoolStatsCollector struct {
	provider PoolStatsProvider
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewPoolStatsCollector creates a new pool stats collector
func NewPoolStatsCollector(pool *pgxpool.Pool) *PoolStatsCollector {
	return &PoolStatsCollector{
		provider: &pgxPoolAdapter{pool: pool},
		stopChan: make(chan struct{}),
	}
}

// NewPoolStatsCollectorWithProvider creates a new pool stats collector with a custom provider (for testing)
func NewPoolStatsCollectorWithProvider(provider PoolStatsProvider) *PoolStatsCollector {
	return &PoolStatsCollector{
		provider: provider,
		stopChan: make(chan struct{}),
	}
}

// Start begins collecting pool stats every interval
func (c *PoolStatsCollector) Start(interval time.Duration) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Collect immediately on start
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopChan:
				return
			}
		}
	}()
}

func (c *PoolStatsCollector) collect() {
	stats := c.provider.Stat()
	DBConnectionPoolSize.WithLabelValues("total").Set(float64(stats.TotalConns()))
	DBConnectionPoolSize.WithLabelValues("idle").Set(float64(stats.IdleConns()))
	DBConnectionPoolSize.WithLabelValues("in_use").Set(float64(stats.AcquiredConns()))
}

// Stop stops the pool stats collector
func (c *PoolStatsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}
