package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
}

func TestRecordReload(t *testing.T) {
	m := newTestManager()

	m.RecordReload(map[string]int{"employee_master": 12, "leave_records": 3}, time.Second, nil)
	m.RecordReload(nil, time.Second, errors.New("boom"))

	assert.Equal(t, 12.0, testutil.ToFloat64(m.datasetRows.WithLabelValues("employee_master")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.datasetRows.WithLabelValues("leave_records")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.datasetReloads.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.datasetReloads.WithLabelValues(ResultFailure)))
	assert.Positive(t, testutil.ToFloat64(m.datasetLastReload))
}

func TestRecordRender(t *testing.T) {
	m := newTestManager()

	m.RecordRender("executive_summary", 10*time.Millisecond, nil)
	m.RecordRender("executive_summary", 10*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportRenders.WithLabelValues("executive_summary", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportRenders.WithLabelValues("executive_summary", ResultFailure)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.reportRenderTime))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := newTestManager()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/reports/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/abc", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/reports/{id}", "418")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
}

func TestNewManager_DefaultRegistryHasRuntimeCollectors(t *testing.T) {
	m := NewManager()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "go_goroutines")
}
