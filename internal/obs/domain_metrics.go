package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersFinalizedTotal counts checked-out orders.
	OrdersFinalizedTotal prometheus.Counter
	// OrderValue records the distribution of finalized order totals in minor units.
	OrderValue prometheus.Histogram
	// StockRejectionsTotal counts add attempts rejected by the stock guard.
	StockRejectionsTotal *prometheus.CounterVec
	// MuffinsBakedTotal counts units added by bake runs.
	MuffinsBakedTotal prometheus.Counter
	// PriceUpdatesTotal counts list price changes by outcome.
	PriceUpdatesTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersFinalizedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_finalized_total",
			Help:      "Number of orders committed against the catalog ledger.",
		})
		OrderValue = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_value_minor_units",
			Help:      "Distribution of finalized order totals in minor units.",
			Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000},
		})
		StockRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_rejections_total",
			Help:      "Add attempts rejected because the stock guard ran out.",
		}, []string{"item"})
		MuffinsBakedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "muffins_baked_total",
			Help:      "Units restocked by bake runs.",
		})
		PriceUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_updates_total",
			Help:      "List price update attempts by outcome.",
		}, []string{"result"})

		mustRegisterCollector(reg, OrdersFinalizedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OrdersFinalizedTotal = v
			}
		})
		mustRegisterCollector(reg, OrderValue, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				OrderValue = v
			}
		})
		mustRegisterCollector(reg, StockRejectionsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				StockRejectionsTotal = v
			}
		})
		mustRegisterCollector(reg, MuffinsBakedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				MuffinsBakedTotal = v
			}
		})
		mustRegisterCollector(reg, PriceUpdatesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PriceUpdatesTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
