package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Ticks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autobuy_ticks_total",
		Help: "Completed poll ticks.",
	})
	FetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autobuy_fetch_errors_total",
		Help: "Catalog fetch attempts that failed and aborted the tick.",
	})
	NewGifts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autobuy_new_gifts_total",
		Help: "Limited gifts seen for the first time.",
	})
	Purchases = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autobuy_purchases_total",
		Help: "Successful unit purchases.",
	})
	PurchaseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autobuy_purchase_failures_total",
		Help: "Unit purchases rejected by the gifts API.",
	})
	StarsSpent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autobuy_stars_spent_total",
		Help: "Stars debited by successful purchases.",
	})
)
