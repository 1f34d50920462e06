package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := NewServerMetrics("metrics-pattern-test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/v1/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/v1/orders/"+uuid.NewString(), nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	// three different order IDs, one route, one series
	assert.Equal(t, 1, testutil.CollectAndCount(m.Requests))
	assert.Equal(t, 1, testutil.CollectAndCount(m.LatencyMS))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.Requests.WithLabelValues("GET /v1/orders/{id}", "200")))
}

func TestMiddlewareLabelsNestedRouters(t *testing.T) {
	m := NewServerMetrics("metrics-mount-test")

	sub := chi.NewRouter()
	sub.Get("/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Mount("/v1/products", sub)

	req := httptest.NewRequest(http.MethodGet, "/v1/products/"+uuid.NewString(), nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Requests.WithLabelValues("GET /v1/products/{id}", "200")))
}

func TestMiddlewareUnmatchedRoutesShareOneSeries(t *testing.T) {
	m := NewServerMetrics("metrics-unmatched-test")

	r := chi.NewRouter()
	r.Use(m.Middleware)

	for _, path := range []string{"/nope", "/also/nope", "/" + uuid.NewString()} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.Requests))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.Requests.WithLabelValues("GET unmatched", "404")))
}
