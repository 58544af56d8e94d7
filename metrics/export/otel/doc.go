// Package otel bridges goSign adapter metrics into an OpenTelemetry meter via
// observable instruments.
//
// The exporter registers one callback that reads a fresh [goSign.MetricsSnapshot] on
// every collection; Close unregisters it.
package otel
