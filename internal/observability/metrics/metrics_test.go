package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/properties/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := HTTPMetricsMiddleware(mux)

	counter := httpRequestsTotal.WithLabelValues("GET", "GET /api/properties/{id}", "404")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/properties/"+id, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Fatalf("expected 2 observations under the route pattern, got %v", got)
	}
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(bookmarkOperations.WithLabelValues("add", ResultRejected))
	ObserveBookmark("add", ResultRejected)
	if got := testutil.ToFloat64(bookmarkOperations.WithLabelValues("add", ResultRejected)) - before; got != 1 {
		t.Fatalf("expected counter increment, got %v", got)
	}
}
