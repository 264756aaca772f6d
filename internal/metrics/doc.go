// Package metrics exports a finished run's statistics tables as a Prometheus
// text file for node_exporter's textfile collector.
package metrics
