// Package metrics exposes engine events as prometheus series.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Observer implements app.Observer with prometheus collectors.
type Observer struct {
	registry *prometheus.Registry

	scans          prometheus.Counter
	scanDuration   prometheus.Histogram
	deletedSingle  prometheus.Counter
	deletedBulk    prometheus.Counter
	alreadyGone    prometheus.Counter
	bulkFallbacks  prometheus.Counter
	channelsPruned prometheus.Counter
	pacingDelay    prometheus.Gauge
}

func NewObserver() *Observer {
	o := &Observer{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autodelete_scan_cycles_total",
			Help: "Scan cycles started.",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "autodelete_scan_duration_seconds",
			Help:    "Duration of completed scan cycles.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		deletedSingle: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autodelete_deleted_single_total",
			Help: "Messages deleted through single delete calls.",
		}),
		deletedBulk: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autodelete_deleted_bulk_total",
			Help: "Messages deleted through bulk delete calls.",
		}),
		alreadyGone: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autodelete_already_gone_total",
			Help: "Messages found already deleted by another actor.",
		}),
		bulkFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autodelete_bulk_fallbacks_total",
			Help: "Bulk delete calls that fell back to single deletions.",
		}),
		channelsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autodelete_channels_pruned_total",
			Help: "Stale channel policies removed by the scanner.",
		}),
		pacingDelay: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "autodelete_pacing_delay_seconds",
			Help: "Current delay enforced before each delete-class call.",
		}),
	}

	o.registry.MustRegister(
		o.scans,
		o.scanDuration,
		o.deletedSingle,
		o.deletedBulk,
		o.alreadyGone,
		o.bulkFallbacks,
		o.channelsPruned,
		o.pacingDelay,
	)
	return o
}

// Handler serves the /metrics endpoint.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

func (o *Observer) ScanStarted()                     { o.scans.Inc() }
func (o *Observer) ScanCompleted(took time.Duration) { o.scanDuration.Observe(took.Seconds()) }
func (o *Observer) DeletedSingle()                   { o.deletedSingle.Inc() }
func (o *Observer) DeletedBulk(count int)            { o.deletedBulk.Add(float64(count)) }
func (o *Observer) AlreadyGone()                     { o.alreadyGone.Inc() }
func (o *Observer) BulkFallback()                    { o.bulkFallbacks.Inc() }
func (o *Observer) ChannelPruned()                   { o.channelsPruned.Inc() }
func (o *Observer) PacingDelay(seconds float64)      { o.pacingDelay.Set(seconds) }
