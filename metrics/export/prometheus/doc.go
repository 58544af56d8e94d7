// Package prometheus renders goSign adapter metrics in the Prometheus text exposition
// format without depending on the Prometheus client library.
//
// The exporter reads [goSign.MetricsSnapshot] values from an [goSign.Adapter] (or any
// custom source) on each scrape; it holds no state of its own.
package prometheus
