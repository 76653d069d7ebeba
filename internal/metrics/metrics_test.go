package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	initial := testutil.ToFloat64(OperationsTotal.WithLabelValues("post", "create", "success"))

	ObserveOperation("post", "create", "success")

	after := testutil.ToFloat64(OperationsTotal.WithLabelValues("post", "create", "success"))
	assert.Equal(t, initial+1, after, "OperationsTotal should increment by 1")
}

func TestRecordCascade(t *testing.T) {
	initial := testutil.ToFloat64(CascadeCleanupsTotal.WithLabelValues("user"))

	RecordCascade("user")

	after := testutil.ToFloat64(CascadeCleanupsTotal.WithLabelValues("user"))
	assert.Equal(t, initial+1, after)
}

func TestRecordNotificationAndEmail(t *testing.T) {
	initialNotif := testutil.ToFloat64(NotificationsCreatedTotal.WithLabelValues("post_published"))
	initialEmail := testutil.ToFloat64(EmailsSentTotal.WithLabelValues("failure"))

	RecordNotification("post_published")
	RecordEmail("failure")

	assert.Equal(t, initialNotif+1, testutil.ToFloat64(NotificationsCreatedTotal.WithLabelValues("post_published")))
	assert.Equal(t, initialEmail+1, testutil.ToFloat64(EmailsSentTotal.WithLabelValues("failure")))
}

func TestRecordFeedCacheAndEvent(t *testing.T) {
	initialHit := testutil.ToFloat64(FeedCacheRequestsTotal.WithLabelValues("hit"))
	initialEvent := testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("post.liked", "success"))

	RecordFeedCache("hit")
	RecordEvent("post.liked", "success")

	assert.Equal(t, initialHit+1, testutil.ToFloat64(FeedCacheRequestsTotal.WithLabelValues("hit")))
	assert.Equal(t, initialEvent+1, testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("post.liked", "success")))
}

func TestHTTPMetricsExist(t *testing.T) {
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsInFlight)

	initial := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/health", "200"))
	HTTPRequestsTotal.WithLabelValues("GET", "/health", "200").Inc()
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/health", "200"))
	assert.Equal(t, initial+1, after)
}

// mockPoolStats implements PoolStats for testing
type mockPoolStats struct {
	total, idle, acquired int32
}

func (m *mockPoolStats) TotalConns() int32    { return m.total }
func (m *mockPoolStats) IdleConns() int32     { return m.idle }
func (m *mockPoolStats) AcquiredConns() int32 { return m.acquired }

type mockStatsProvider struct {
	stats *mockPoolStats
}

func (m *mockStatsProvider) Stat() PoolStats { return m.stats }

func TestPoolStatsCollector(t *testing.T) {
	provider := &mockStatsProvider{stats: &mockPoolStats{total: 10, idle: 7, acquired: 3}}
	collector := NewPoolStatsCollectorWithProvider(provider)

	collector.Start(50 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	collector.Stop()

	assert.Equal(t, float64(10), testutil.ToFloat64(DBConnectionPoolSize.WithLabelValues("total")))
	assert.Equal(t, float64(7), testutil.ToFloat64(DBConnectionPoolSize.WithLabelValues("idle")))
	assert.Equal(t, float64(3), testutil.ToFloat64(DBConnectionPoolSize.WithLabelValues("in_use")))
}
