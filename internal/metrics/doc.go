// Package metrics records build observability for sdvsite.
//
// Components receive a Recorder. NoopRecorder is the default and does
// nothing; PrometheusRecorder registers collectors on a registry that the
// preview server exposes at /metrics through HTTPHandler.
//
//	reg := prometheus.NewRegistry()
//	b := build.New(cfg, build.WithRecorder(metrics.NewPrometheusRecorder(reg)))
package metrics
