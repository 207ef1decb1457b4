package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type observation struct {
	method string
	path   string
	status int
}

type fakeObserver struct {
	seen []observation
}

func (o *fakeObserver) ObserveHTTP(method, path string, status int, _ time.Duration) {
	o.seen = append(o.seen, observation{method, path, status})
}

func TestMetricsMiddlewareLabelsByRoutePattern(t *testing.T) {
	observer := &fakeObserver{}

	r := chi.NewRouter()
	r.Use(Metrics(observer))
	r.Get("/api/v1/accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/accounts/ABC123", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/nowhere", nil))

	if len(observer.seen) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(observer.seen))
	}

	if got := observer.seen[0]; got.path != "/api/v1/accounts/{id}" || got.status != http.StatusTeapot {
		t.Fatalf("unexpected observation %+v", got)
	}
	if got := observer.seen[1]; got.path != "unmatched" || got.status != http.StatusNotFound {
		t.Fatalf("unexpected observation %+v", got)
	}
}
