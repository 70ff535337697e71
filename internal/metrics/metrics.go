package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_upstream_requests_total",
		Help: "Requests sent to the payment gateway, by resource and status code.",
	}, []string{"resource", "method", "code"})

	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "console_upstream_request_seconds",
		Help:    "Gateway request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})

	PollRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_poll_runs_total",
		Help: "Background refresh runs, by job and outcome.",
	}, []string{"job", "outcome"})

	PendingRefunds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "console_pending_refunds",
		Help: "Refund requests currently pending, from the last poll.",
	})

	FailedWebhookDeliveries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "console_failed_webhook_deliveries",
		Help: "Failed webhook deliveries seen in the last poll.",
	})
)

// ObserveUpstream is wired into the api client as its Observer.
func ObserveUpstream(resource, method string, code int, elapsed time.Duration) {
	UpstreamRequests.WithLabelValues(resource, method, strconv.Itoa(code)).Inc()
	UpstreamLatency.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// ObservePoll is wired into the poller.
func ObservePoll(job string, skipped bool, err error) {
	outcome := "ok"
	switch {
	case skipped:
		outcome = "skipped"
	case err != nil:
		outcome = "error"
	}
	PollRuns.WithLabelValues(job, outcome).Inc()
}

// Handler serves the prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
