package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for the booking flow.
type Metrics struct {
	OrdersCreated prometheus.Counter
	TicketsBooked prometheus.Counter
	SeatConflicts prometheus.Counter
	OrderDuration prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "The total number of successfully placed orders",
		}),
		TicketsBooked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_booked_total",
			Help:      "The total number of tickets persisted across all orders",
		}),
		SeatConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seat_conflicts_total",
			Help:      "The total number of orders rejected because a seat was already taken",
		}),
		OrderDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_placement_seconds",
			Help:      "Time taken to place an order",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
