package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()
	m.IncReport("ok")
	m.IncReport("ok")
	m.IncPage("team_density", "placeholder")
	m.IncDensity("actor", "insufficient")
	m.ObserveCompose(150 * time.Millisecond)

	if got := testutil.ToFloat64(m.Reports.WithLabelValues("ok")); got != 2 {
		t.Errorf("reports ok: want 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.Pages.WithLabelValues("team_density", "placeholder")); got != 1 {
		t.Errorf("pages placeholder: want 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.DensityResults.WithLabelValues("actor", "insufficient")); got != 1 {
		t.Errorf("density insufficient: want 1, got %v", got)
	}
	if n := testutil.CollectAndCount(m.ComposeDuration); n != 1 {
		t.Errorf("compose histogram: want 1 series, got %d", n)
	}
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.IncReport("ok")
	if got := testutil.ToFloat64(b.Reports.WithLabelValues("ok")); got != 0 {
		t.Errorf("registries share state: got %v", got)
	}
}

func TestNilSafe(t *testing.T) {
	var m *Metrics
	m.IncReport("ok")
	m.IncPage("statistics", "ok")
	m.IncDensity("team", "defined")
	m.ObserveCompose(time.Second)
	if m.Registry() != nil {
		t.Error("nil metrics should have no registry")
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.IncReport("invalid_input")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `attackmetrics_reports_total{outcome="invalid_input"} 1`) {
		t.Errorf("exposition missing counter:\n%s", rec.Body.String())
	}
}
