package backend

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var backendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "fitplanhub_backend_request_duration_seconds",
		Help:    "Длительность запросов веб-клиента к REST API FitPlanHub.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route", "code"},
)

// observe записывает длительность запроса; code 0 означает сетевую ошибку.
func observe(cl call, code int, start time.Time) {
	backendRequestDuration.
		WithLabelValues(cl.method, cl.route, strconv.Itoa(code)).
		Observe(time.Since(start).Seconds())
}
