package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DeliveryClaimsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siraha_delivery_claims_total",
		Help: "Total number of orders successfully claimed by delivery partners.",
	})

	DeliveryClaimConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siraha_delivery_claim_conflicts_total",
		Help: "Total number of claim attempts rejected because the order was no longer available.",
	})

	OrderStatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siraha_order_status_transitions_total",
		Help: "Total number of successful order status transitions by target status.",
	},
		[]string{"status"},
	)

	LocationSamplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siraha_location_samples_total",
		Help: "Total number of accepted delivery partner location samples.",
	})

	NotificationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siraha_notification_failures_total",
		Help: "Total number of notification dispatch failures swallowed after a state change.",
	},
		[]string{"event"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siraha_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	StaleDeliveriesFlaggedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siraha_stale_deliveries_flagged_total",
		Help: "Total number of active deliveries flagged as partner unreachable.",
	})

	OutboxPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siraha_outbox_published_total",
		Help: "Total number of outbox tasks handed to the producer, by result.",
	},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siraha_http_requests_total",
		Help: "Total number of HTTP API requests by route and status code.",
	},
		[]string{"route", "code"},
	)

	GRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siraha_grpc_requests_total",
		Help: "Total number of admin RPCs by method and status code.",
	},
		[]string{"method", "code"},
	)

	DeliveryZoneCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "siraha_delivery_zone_cache_items",
		Help: "Current number of active delivery zones held in memory.",
	})
)
