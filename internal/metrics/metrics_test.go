package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, ScrapeDuration)
	assert.NotNil(t, ScrapeResultsTotal)
	assert.NotNil(t, CardsParsedTotal)
	assert.NotNil(t, CardsSkippedTotal)
	assert.NotNil(t, StoreContextFailuresTotal)
	assert.NotNil(t, BrowserSessionsOpen)
	assert.NotNil(t, IngestRecordsTotal)
	assert.NotNil(t, IngestDuration)
	assert.NotNil(t, TaskTransitionsTotal)
	assert.NotNil(t, JobsEnqueuedTotal)
	assert.NotNil(t, JobRetriesTotal)
	assert.NotNil(t, JobTimeLimitsTotal)
	assert.NotNil(t, JobDuration)
	assert.NotNil(t, QueueDepth)
	assert.NotNil(t, SchedulerRunsTotal)
	assert.NotNil(t, SchedulerNextRunTimestamp)
	assert.NotNil(t, EventsPublishedTotal)
}

func TestCardsSkippedTotal_Labels(t *testing.T) {
	t.Parallel()

	c := CardsSkippedTotal.WithLabelValues("metrics-test-chain", "missing_price")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.InDelta(t, before+1, testutil.ToFloat64(c), 0.001)
}
