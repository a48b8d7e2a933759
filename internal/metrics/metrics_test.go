package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestQuoteMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveQuote(OutcomeOK, 3, 1737)
	m.ObserveQuote(OutcomeOK, 8, 7290)
	m.ObserveQuote(OutcomeInvalid, 1, 0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "labgrowth_quotes_total", "outcome", OutcomeOK); err != nil {
		t.Fatalf("fetch ok: %v", err)
	} else if got != 2 {
		t.Fatalf("expected ok=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "labgrowth_quotes_total", "outcome", OutcomeInvalid); err != nil {
		t.Fatalf("fetch invalid: %v", err)
	} else if got != 1 {
		t.Fatalf("expected invalid=1, got %f", got)
	}

	size := findMetricFamily(mfs, "labgrowth_quote_selection_size")
	if size == nil {
		t.Fatalf("selection size histogram missing")
	}
	h := size.GetMetric()[0].GetHistogram()
	if h.GetSampleCount() != 3 || h.GetSampleSum() != 12 {
		t.Fatalf("unexpected selection size histogram: count=%d sum=%f", h.GetSampleCount(), h.GetSampleSum())
	}

	price := findMetricFamily(mfs, "labgrowth_quote_final_price")
	if price == nil {
		t.Fatalf("final price histogram missing")
	}
	if got := price.GetMetric()[0].GetHistogram().GetSampleSum(); got != 1737+7290 {
		t.Fatalf("expected final price sum %d, got %f", 1737+7290, got)
	}
}

func TestHTTPAndLeadMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	done := m.TrackInFlight()
	m.ObserveRequest("POST", "/api/quote", 200, 5*time.Millisecond)
	done()
	m.IncLead("lead")
	m.IncRateLimited("leads")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/quote"); err != nil || got != 1 {
		t.Fatalf("expected one request for /api/quote, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "labgrowth_leads_captured_total", "kind", "lead"); err != nil || got != 1 {
		t.Fatalf("expected one lead, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "labgrowth_rate_limited_total", "policy", "leads"); err != nil || got != 1 {
		t.Fatalf("expected one rate limited request, got %f (%v)", got, err)
	}
	inflight := findMetricFamily(mfs, "http_inflight_requests")
	if inflight == nil || inflight.GetMetric()[0].GetGauge().GetValue() != 0 {
		t.Fatalf("expected in-flight gauge back at 0")
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveQuote(OutcomeOK, 1, 100)
	m.IncLead("lead")
	m.IncRateLimited("leads")
	m.ObserveRequest("GET", "/", 200, time.Millisecond)
	m.TrackInFlight()()

	New(nil).ObserveQuote(OutcomeError, 0, 0)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
