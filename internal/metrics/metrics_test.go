package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveTransition(t *testing.T) {
	m := New()

	m.ObserveTransition("start", 0, true)
	m.ObserveTransition("tick", 1, true)
	m.ObserveTransition("tick", 2, true)
	m.ObserveTransition("pause", 2, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("start")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("pause")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ticks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.elapsedSeconds))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.running))
}

func TestMetrics_ObserveRecording(t *testing.T) {
	m := New()

	m.ObserveRecording(0.5, nil)
	m.ObserveRecording(0.25, nil)
	m.ObserveRecording(1, errors.New("down"))
	m.ObservePersistenceFailure(errors.New("disk"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsRecorded))
	assert.Equal(t, 0.75, testutil.ToFloat64(m.hoursRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recordingFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistenceFailures))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveTransition("start", 0, true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `worktimer_transitions_total{transition="start"} 1`)
}
