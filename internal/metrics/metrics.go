// Package metrics объявляет Prometheus-метрики сервиса; они отдаются на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "route"},
	)

	RecipeWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipe_writes_total",
			Help: "Recipe write workflow outcomes by operation (create, update, delete) and result",
		},
		[]string{"operation", "result"},
	)

	MembershipChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_membership_changes_total",
			Help: "Favorite, shopping cart and subscription toggles by set, operation and result",
		},
		[]string{"set", "operation", "result"},
	)

	ImageCleanups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_image_cleanups_total",
			Help: "Image cleanup jobs by stage (published, processed) and result",
		},
		[]string{"stage", "result"},
	)
)

// Result переводит ошибку в метку result.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
