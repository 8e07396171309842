package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cinema/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveFetch(t *testing.T) {
	r := metrics.NewRecorder()

	r.ObserveFetch(metrics.StrategySequential, 7*time.Second, false)
	r.ObserveFetch(metrics.StrategyConcurrent, 5*time.Second, false)
	r.ObserveFetch(metrics.StrategyConcurrent, 5*time.Second, true)

	expected := `
# HELP cinema_fetch_total Number of catalog fetch runs.
# TYPE cinema_fetch_total counter
cinema_fetch_total{outcome="error",strategy="concurrent"} 1
cinema_fetch_total{outcome="success",strategy="concurrent"} 1
cinema_fetch_total{outcome="success",strategy="sequential"} 1
`
	err := testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "cinema_fetch_total")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(r.Registry(), "cinema_fetch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRecorder_Handler(t *testing.T) {
	r := metrics.NewRecorder()
	r.ObserveFetch(metrics.StrategySequential, time.Second, false)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cinema_fetch_duration_seconds_count{outcome="success",strategy="sequential"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
