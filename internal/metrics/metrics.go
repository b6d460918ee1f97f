package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	GateDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_gate_decisions_total",
		Help: "Request gate decisions by policy and outcome",
	}, []string{"policy", "decision"})

	TokensMinted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_tokens_minted_total",
		Help: "Minted tokens by strategy and result",
	}, []string{"strategy", "result"})

	TokenStoreWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_token_store_writes_total",
		Help: "Token pair writes by action",
	}, []string{"action"})

	DownstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_downstream_requests_total",
		Help: "Requests forwarded to the DB layer by method and status class",
	}, []string{"method", "status"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_http_request_duration_seconds",
		Help:    "Duration of handled HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Register регистрирует все метрики шлюза.
func Register(registerer prometheus.Registerer) {
	registerer.MustRegister(
		GateDecisions,
		TokensMinted,
		TokenStoreWrites,
		DownstreamRequests,
		RequestDuration,
	)
}

// StatusClass сворачивает код ответа в 2xx/4xx/5xx, ошибки транспорта помечаются как "error".
func StatusClass(code int) string {
	if code <= 0 {
		return "error"
	}
	return strconv.Itoa(code/100) + "xx"
}
