package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func family(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return nil
}

func labels(m *dto.Metric) map[string]string {
	out := make(map[string]string)
	for _, l := range m.GetLabel() {
		out[l.GetName()] = l.GetValue()
	}
	return out
}

func TestCollector_OnDispatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.OnDispatch("GET", "gallery", 200, 3*time.Millisecond)
	c.OnDispatch("GET", "gallery", 200, 5*time.Millisecond)
	c.OnDispatch("PUT", "gallery", 400, time.Millisecond)

	requests := family(t, reg, "apina_requests_total")
	require.Len(t, requests.GetMetric(), 2)
	for _, m := range requests.GetMetric() {
		l := labels(m)
		switch l["verb"] {
		case "GET":
			assert.Equal(t, map[string]string{"verb": "GET", "type": "gallery", "code": "200"}, l)
			assert.Equal(t, float64(2), m.GetCounter().GetValue())
		case "PUT":
			assert.Equal(t, "400", l["code"])
			assert.Equal(t, float64(1), m.GetCounter().GetValue())
		default:
			t.Errorf("unexpected labels %v", l)
		}
	}

	durations := family(t, reg, "apina_request_duration_seconds")
	var samples uint64
	for _, m := range durations.GetMetric() {
		samples += m.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), samples)
}

func TestCollector_ObserveObjects(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveObjects(4)
	c.ObserveObjects(2)

	objects := family(t, reg, "apina_objects")
	assert.Equal(t, float64(2), objects.GetMetric()[0].GetGauge().GetValue())

	uptime := family(t, reg, "apina_uptime_seconds")
	assert.GreaterOrEqual(t, uptime.GetMetric()[0].GetGauge().GetValue(), float64(0))
}

func TestCollector_InFlight(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	var during float64
	h := c.InFlight(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = family(t, reg, "apina_requests_in_flight").GetMetric()[0].GetGauge().GetValue()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, float64(1), during)
	assert.Equal(t, float64(0), family(t, reg, "apina_requests_in_flight").GetMetric()[0].GetGauge().GetValue())
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	c := New(reg)
	c.OnDispatch("DELETE", "gallery", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `apina_requests_total{code="200",type="gallery",verb="DELETE"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
