// Package metrics exports logger output counters to Prometheus.
//
// The collector reads a Snapshot on every scrape, so it costs nothing
// on the logging path:
//
//	reg.MustRegister(metrics.NewCollector("agent", log))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/philipp01105/agentlog/core"
	"github.com/philipp01105/agentlog/stream"
)

// Subsystem for all logger metrics
const subsystem = "log"

// StatsSource is implemented by *logger.Logger.
type StatsSource interface {
	Stats() stream.Snapshot
}

// Collector implements prometheus.Collector over a StatsSource.
type Collector struct {
	src StatsSource

	dropped      *prometheus.Desc
	droppedBytes *prometheus.Desc
	delivered    *prometheus.Desc
	buffered     *prometheus.Desc
	pendingBytes *prometheus.Desc
	queued       *prometheus.Desc
}

// NewCollector creates a Collector whose metrics are prefixed with
// namespace.
func NewCollector(namespace string, src StatsSource) *Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, subsystem, n)
	}
	return &Collector{
		src: src,
		dropped: prometheus.NewDesc(name("dropped_total"),
			"Log lines dropped because the output buffer was full.",
			[]string{"level"}, nil),
		droppedBytes: prometheus.NewDesc(name("dropped_bytes_total"),
			"Bytes of log output dropped because the output buffer was full.",
			nil, nil),
		delivered: prometheus.NewDesc(name("delivered_total"),
			"Log lines handed directly to a reading consumer.",
			nil, nil),
		buffered: prometheus.NewDesc(name("buffered_total"),
			"Log lines stored until a consumer reads them.",
			nil, nil),
		pendingBytes: prometheus.NewDesc(name("pending_bytes"),
			"Bytes of log output waiting for a consumer.",
			nil, nil),
		queued: prometheus.NewDesc(name("queued_calls"),
			"Log calls waiting for the logger to be configured.",
			nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.dropped
	ch <- c.droppedBytes
	ch <- c.delivered
	ch <- c.buffered
	ch <- c.pendingBytes
	ch <- c.queued
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.src.Stats()

	for _, level := range core.Levels() {
		ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue,
			float64(snap.DroppedTotal[level]), level.String())
	}
	ch <- prometheus.MustNewConstMetric(c.droppedBytes, prometheus.CounterValue, float64(snap.DroppedBytes))
	ch <- prometheus.MustNewConstMetric(c.delivered, prometheus.CounterValue, float64(snap.Delivered))
	ch <- prometheus.MustNewConstMetric(c.buffered, prometheus.CounterValue, float64(snap.Buffered))
	ch <- prometheus.MustNewConstMetric(c.pendingBytes, prometheus.GaugeValue, float64(snap.PendingBytes))
	ch <- prometheus.MustNewConstMetric(c.queued, prometheus.GaugeValue, float64(snap.Queued))
}
