package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stopguard/stopguard/internal/logging"
)

type Metrics struct {
	checksTotal        *prometheus.CounterVec
	blocksTotal        *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	ratelimitHitsTotal prometheus.Counter
	stopwords          prometheus.Gauge
	checkDuration      prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "stopguard_checks_total", Help: "Total checked submissions"},
			[]string{"action"},
		),
		blocksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "stopguard_blocks_total", Help: "Total matched submissions by field"},
			[]string{"field", "action"},
		),
		notificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "stopguard_notifications_total", Help: "Total operator notifications"},
			[]string{"status"},
		),
		ratelimitHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "stopguard_ratelimit_hits_total", Help: "Total rate limited submissions"},
		),
		stopwords: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "stopguard_stopwords", Help: "Stopwords loaded for the last check"},
		),
		checkDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stopguard_check_duration_seconds",
				Help:    "Check duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.checksTotal,
		m.blocksTotal,
		m.notificationsTotal,
		m.ratelimitHitsTotal,
		m.stopwords,
		m.checkDuration,
	)

	return m
}

func (m *Metrics) Handler(reg *prometheus.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func (m *Metrics) Observe(decision logging.Decision) {
	if m == nil {
		return
	}

	m.checksTotal.WithLabelValues(decision.Action).Inc()
	m.checkDuration.Observe((time.Duration(decision.DurationMS) * time.Millisecond).Seconds())
	m.stopwords.Set(float64(decision.Stopwords))

	if decision.Field != "" {
		m.blocksTotal.WithLabelValues(decision.Field, decision.Action).Inc()
	}
}

func (m *Metrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.ratelimitHitsTotal.Inc()
}
