package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baharkarakas/member-store/internal/db"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Repository
	RepoOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "member_repository_operations_total",
			Help: "Member repository operations by outcome",
		},
		[]string{"op", "outcome"}, // outcome: ok | errs.Kind
	)
	RepoLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "member_repository_operation_seconds",
			Help:    "Member repository operation latency, acquire to release",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	initOnce sync.Once
)

// /metrics endpoint handler
var Handler = promhttp.Handler

// Init registers the collectors once; src may be nil.
func Init(src db.Source) {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal)
		prometheus.MustRegister(RepoOperations)
		prometheus.MustRegister(RepoLatency)
		if src != nil {
			prometheus.MustRegister(NewPoolCollector(src))
		}
	})
}
