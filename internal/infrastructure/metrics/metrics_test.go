package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/trustbook/internal/domain"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.EntriesAdded == nil || m.HTTPRequests == nil || m.StatementsServed == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.EntryDeleted()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestLedgerRecorder(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.EntryAdded(domain.DirectionCredit)
	m.EntryAdded(domain.DirectionCredit)
	m.EntryAdded(domain.DirectionDebit)
	m.RecalculationRejected()
	m.StatementServed(true)
	m.StatementServed(false)
	m.StatementServed(false)

	if got := testutil.ToFloat64(m.EntriesAdded.WithLabelValues("CREDIT")); got != 2 {
		t.Fatalf("expected 2 credits, got %v", got)
	}
	if got := testutil.ToFloat64(m.RecalculationsRejected); got != 1 {
		t.Fatalf("expected 1 rejection, got %v", got)
	}
	if got := testutil.ToFloat64(m.StatementsServed.WithLabelValues("miss")); got != 2 {
		t.Fatalf("expected 2 misses, got %v", got)
	}
}

func TestHandlerExposesHTTPMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveHTTP(http.MethodGet, "/api/v1/accounts/{id}", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `trustbook_http_requests_total{method="GET",path="/api/v1/accounts/{id}",status="200"} 1`) {
		t.Fatalf("expected request counter in output:\n%s", body)
	}
}
