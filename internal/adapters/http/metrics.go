package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	plansStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voyant_plan_runs_started_total",
		Help: "Number of plan runs started over HTTP.",
	})

	stateReads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voyant_plan_state_reads_total",
		Help: "Number of successful plan state reads.",
	})

	sseClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voyant_sse_clients",
		Help: "Currently connected SSE clients.",
	})

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voyant_http_requests_total",
		Help: "HTTP requests by method.",
	}, []string{"method"})
)

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestsTotal.WithLabelValues(r.Method).Inc()
		next.ServeHTTP(w, r)
	})
}
