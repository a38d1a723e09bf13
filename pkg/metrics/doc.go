// Package metrics provides Prometheus metrics for apina.
//
// Metrics:
//
//   - apina_requests_total: counter of answered requests (labels: verb, type, code)
//   - apina_request_duration_seconds: histogram of dispatch latency (labels: verb, type)
//   - apina_requests_in_flight: gauge of HTTP requests being served
//   - apina_objects: gauge of stored objects after the last request
//   - apina_uptime_seconds: seconds since the collector was created
//
// The Collector implements dispatch.Observer and dispatch.ObjectCounter,
// so it can be handed straight to the dispatcher:
//
//	reg := metrics.NewRegistry()
//	m := metrics.New(reg)
//	d := dispatch.New(store, dispatch.WithObserver(m))
//	http.Handle("/metrics", metrics.Handler(reg))
//
// NewRegistry also registers the Go runtime and process collectors.
package metrics
