package metrics

import (
	"net/http"
	"strconv"
	"time"

	"creditbureau-backend/internal/domain/score"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	scores   *prometheus.HistogramVec
	lookups  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "creditbureau",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "creditbureau",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "creditbureau",
			Name:      "credit_score",
			Help:      "Credit scores served, by rating.",
			Buckets:   prometheus.LinearBuckets(score.MinScore, 50, 12),
		}, []string{"rating"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "creditbureau",
			Name:      "score_lookups_total",
			Help:      "Score lookups by cache outcome.",
		}, []string{"cache"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.scores, m.lookups,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveScore records a served score. No-history results are labelled "none".
func (m *Metrics) ObserveScore(res score.Result, cached bool) {
	rating := string(res.Rating)
	if rating == "" {
		rating = "none"
	}
	m.scores.WithLabelValues(rating).Observe(float64(res.Score))
	outcome := "miss"
	if cached {
		outcome = "hit"
	}
	m.lookups.WithLabelValues(outcome).Inc()
}

// Middleware counts requests by route template, not raw path, to keep label cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			m.latency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
