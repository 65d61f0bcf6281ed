package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_claims_total",
		Help: "Count of test claims",
	}, []string{"route"})
	counter.WithLabelValues("direct").Add(2)

	w := httptest.NewRecorder()
	NewHandler(counter).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `test_claims_total{route="direct"} 2`)
	require.Contains(t, w.Body.String(), "go_goroutines")
}
