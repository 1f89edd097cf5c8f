package rpcclient

import (
	"errors"
	"time"

	"github.com/nimiq-community/nimiq-go/pkg/nimiqrpc"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics of the calls made by all clients of the process.
var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of RPC calls made by method and outcome",
			Name:      "requests_total",
			Subsystem: "rpcclient",
			Namespace: "nimiq",
		},
		[]string{"method", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Help:      "RPC call duration in seconds",
			Name:      "request_duration_seconds",
			Subsystem: "rpcclient",
			Namespace: "nimiq",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(
		requestsTotal,
		requestDuration,
	)
}

// Outcome labels.
const (
	statusOK         = "ok"
	statusConnection = "connection_error"
	statusInternal   = "internal_error"
	statusRemote     = "remote_error"
)

func requestStatus(err error) string {
	var (
		ce *nimiqrpc.ConnectionError
		re *nimiqrpc.RemoteError
	)
	switch {
	case err == nil:
		return statusOK
	case errors.As(err, &ce):
		return statusConnection
	case errors.As(err, &re):
		return statusRemote
	default:
		return statusInternal
	}
}

func observeRequest(method string, err error, took time.Duration) {
	requestsTotal.WithLabelValues(method, requestStatus(err)).Inc()
	requestDuration.WithLabelValues(method).Observe(took.Seconds())
}
