package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	RefreshOK       prometheus.Counter
	RefreshFailed   prometheus.Counter
	CatalogServices prometheus.Gauge
	CatalogMaterial prometheus.Gauge
	DraftFallbacks  prometheus.Counter
	OrdersSubmitted prometheus.Counter
	OrdersFailed    prometheus.Counter
	RecomputeSec    prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	refreshOK := prometheus.NewCounter(prometheus.CounterOpts{Name: "tireshop_catalog_refresh_ok_total"})
	refreshFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "tireshop_catalog_refresh_failed_total"})
	services := prometheus.NewGauge(prometheus.GaugeOpts{Name: "tireshop_catalog_services"})
	materials := prometheus.NewGauge(prometheus.GaugeOpts{Name: "tireshop_catalog_materials"})
	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{Name: "tireshop_draft_decode_fallback_total"})
	submitted := prometheus.NewCounter(prometheus.CounterOpts{Name: "tireshop_orders_submitted_total"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{Name: "tireshop_orders_failed_total"})
	recompute := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tireshop_recompute_seconds",
		Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
	})

	r.MustRegister(refreshOK, refreshFailed, services, materials, fallbacks, submitted, failed, recompute)
	return &Registry{
		reg:             r,
		RefreshOK:       refreshOK,
		RefreshFailed:   refreshFailed,
		CatalogServices: services,
		CatalogMaterial: materials,
		DraftFallbacks:  fallbacks,
		OrdersSubmitted: submitted,
		OrdersFailed:    failed,
		RecomputeSec:    recompute,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
