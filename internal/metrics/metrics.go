package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "labgrowth"

// Quote outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	quotes        *prometheus.CounterVec
	selectionSize prometheus.Histogram
	finalPrice    prometheus.Histogram
	leads         *prometheus.CounterVec
	rateLimited   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInFlight  prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Quotes computed, by outcome.",
		}, []string{"outcome"}),
		selectionSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_selection_size",
			Help:      "Number of services in each priced selection.",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}),
		finalPrice: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_final_price",
			Help:      "Monthly final price of successful quotes.",
			Buckets:   []float64{500, 1000, 2000, 3000, 5000, 7500, 10000},
		}),
		leads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_captured_total",
			Help:      "Leads and selections stored, by kind.",
		}, []string{"kind"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by a rate limit policy.",
		}, []string{"policy"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		}),
	}
	reg.MustRegister(m.quotes, m.selectionSize, m.finalPrice, m.leads, m.rateLimited,
		m.httpRequests, m.httpDuration, m.httpInFlight)
	return m
}

// ObserveQuote records one quote attempt. finalPrice is ignored unless outcome is OutcomeOK.
func (m *Metrics) ObserveQuote(outcome string, selectionSize, finalPrice int) {
	if m == nil || m.quotes == nil {
		return
	}
	m.quotes.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.selectionSize.Observe(float64(selectionSize))
	if outcome == OutcomeOK {
		m.finalPrice.Observe(float64(finalPrice))
	}
}

// IncLead counts a captured lead or saved selection.
func (m *Metrics) IncLead(kind string) {
	if m == nil || m.leads == nil {
		return
	}
	m.leads.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncRateLimited counts a request rejected by the named policy.
func (m *Metrics) IncRateLimited(policy string) {
	if m == nil || m.rateLimited == nil {
		return
	}
	m.rateLimited.WithLabelValues(normalizeLabel(policy)).Inc()
}

// TrackInFlight increments the in-flight gauge and returns its decrement.
func (m *Metrics) TrackInFlight() func() {
	if m == nil || m.httpInFlight == nil {
		return func() {}
	}
	m.httpInFlight.Inc()
	return m.httpInFlight.Dec
}

// ObserveRequest records a served request. route should be the matched pattern.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil || m.httpRequests == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"route":  normalizeLabel(route),
		"status": strconv.Itoa(status),
	}
	m.httpRequests.With(labels).Inc()
	m.httpDuration.With(labels).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
