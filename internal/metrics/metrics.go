// Package metrics содержит Prometheus-метрики клиента витрины.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal считает исходящие запросы к REST API по методу, маршруту и результату.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_api_requests_total",
		Help: "Total number of requests sent to the storefront REST API",
	}, []string{"method", "route", "result"})

	// APIRequestDuration измеряет длительность исходящих запросов.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_api_request_duration_seconds",
		Help:    "Latency of requests sent to the storefront REST API",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SessionTransitionsTotal считает смены состояния аутентификации.
	SessionTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_session_transitions_total",
		Help: "Total number of session state transitions",
	}, []string{"to"})

	// CartSnapshotsTotal считает применённые и отброшенные снимки корзины.
	CartSnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_snapshots_total",
		Help: "Total number of cart snapshots applied or dropped",
	}, []string{"outcome"})

	// HTTPRequestsTotal считает входящие запросы к JSON-фасаду.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_http_requests_total",
		Help: "Total number of HTTP requests served by the view server",
	}, []string{"method", "status"})
)
