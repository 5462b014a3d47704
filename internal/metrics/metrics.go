package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors holds every metric the service exports. A nil *Collectors is
// valid and records nothing.
type Collectors struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	logins          *prometheus.CounterVec
	registrations   *prometheus.CounterVec
	reviews         *prometheus.CounterVec
	passwordResets  *prometheus.CounterVec
}

func New(namespace string) *Collectors {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collectors{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),
		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Successful registrations by role",
		}, []string{"role"}),
		reviews: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_reviews_total",
			Help:      "Admin review decisions by action",
		}, []string{"action"}),
		passwordResets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_resets_total",
			Help:      "Password reset steps by stage and outcome",
		}, []string{"stage", "outcome"}),
	}
}

// Middleware records request count and latency keyed by the route template.
func (c *Collectors) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c == nil {
			ctx.Next()
			return
		}

		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method

		c.requests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func (c *Collectors) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

func (c *Collectors) ObserveLogin(outcome string) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collectors) ObserveRegistration(role string) {
	if c == nil {
		return
	}
	c.registrations.WithLabelValues(role).Inc()
}

func (c *Collectors) ObserveReview(action string) {
	if c == nil {
		return
	}
	c.reviews.WithLabelValues(action).Inc()
}

func (c *Collectors) ObservePasswordReset(stage, outcome string) {
	if c == nil {
		return
	}
	c.passwordResets.WithLabelValues(stage, outcome).Inc()
}
