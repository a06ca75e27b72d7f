// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BillsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rwa_bills_created_total",
		Help: "Bills created, individually or by bulk generation.",
	})

	BillStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rwa_bill_status_changes_total",
		Help: "Bill status updates by target status.",
	}, []string{"status"})

	ComplaintsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rwa_complaints_created_total",
		Help: "Complaints submitted.",
	})

	OTPIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rwa_otp_issued_total",
		Help: "One-time login codes issued.",
	})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rwa_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rwa_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
