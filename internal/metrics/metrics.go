// Package metrics exposes Prometheus metrics for the settleup server.
package metrics

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	rpcRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settleup_rpc_requests_total",
		Help: "RPC calls by procedure and result code.",
	}, []string{"procedure", "code"})

	rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "settleup_rpc_duration_seconds",
		Help:    "RPC latency by procedure.",
		Buckets: prometheus.DefBuckets,
	}, []string{"procedure"})

	balanceImbalance = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settleup_balance_imbalance_total",
		Help: "Balance computations whose balances did not sum to zero.",
	})

	settlementsComputed = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "settleup_settlements_computed",
		Help:    "Number of settlements suggested per balance computation.",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
	})
)

// Interceptor records request counts and latency for every unary RPC.
func Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			rpcRequests.WithLabelValues(procedure, code).Inc()
			rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

// RecordImbalance counts a balance computation that did not net to zero.
func RecordImbalance() {
	balanceImbalance.Inc()
}

// RecordSettlements observes the size of a settlement plan.
func RecordSettlements(n int) {
	settlementsComputed.Observe(float64(n))
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
