package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopfluence_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopfluence_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	CampaignTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopfluence_campaign_transitions_total",
		Help: "Campaign status changes by target status.",
	}, []string{"status"})

	Applications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopfluence_campaign_applications_total",
		Help: "Application workflow events: applied, selected, rejected.",
	}, []string{"event"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopfluence_notifications_total",
		Help: "Notifications written by type and result.",
	}, []string{"type", "result"})

	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopfluence_uploads_total",
		Help: "Upload attempts by category and result.",
	}, []string{"category", "result"})

	UploadBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopfluence_upload_bytes_total",
		Help: "Bytes stored by category.",
	}, []string{"category"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shopfluence_ws_connections",
		Help: "Open websocket connections.",
	})
)
