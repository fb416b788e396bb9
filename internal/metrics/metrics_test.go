package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestRecordIntent(t *testing.T) {
	m := New()
	m.RecordIntent("expense", "rules")
	m.RecordIntent("expense", "rules")
	m.RecordIntent("event", "llm")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.intents.WithLabelValues("expense", "rules")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.intents.WithLabelValues("event", "llm")))
}

func TestRecordLLMRequest(t *testing.T) {
	m := New()
	m.RecordLLMRequest("ok", 300*time.Millisecond)
	m.RecordLLMRequest("open", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("open")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.llmDuration))
}

func TestCountersAndGauge(t *testing.T) {
	m := New()
	m.RecordHTTPRequest("GET", 200)
	m.RecordReminderSent()
	m.RecordConfigReload()
	m.IncrementWSConnections()
	m.IncrementWSConnections()
	m.DecrementWSConnections()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.remindersSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.configReloads))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wsConnections))
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordIntent("income", "rules")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `lifetrack_intents_total{kind="income",source="rules"} 1`)
}
