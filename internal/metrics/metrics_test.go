package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordRegistration()
	c.RecordRegistration()
	c.RecordLogin(OutcomeSuccess)
	c.RecordLogin(OutcomeFailure)
	c.RecordLogin(OutcomeFailure)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.registrations))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.logins.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.logins.WithLabelValues(OutcomeFailure)))
}

func TestCollector_MiddlewareObservesRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware())
	r.Get("/api/calc/{op}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/calc/add", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	count := testutil.CollectAndCount(c.requestDuration, "authcalc_http_request_duration_seconds")
	assert.Equal(t, 1, count)
}
