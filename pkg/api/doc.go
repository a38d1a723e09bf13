// Package api exposes a Dispatcher over HTTP.
//
// Every request outside the built-in endpoints becomes a message.Request:
// the method is the verb, the path (with the configured prefix removed) is
// the object, and a JSON object body is the payload. The response code and
// data of the dispatcher's answer are written back as JSON.
//
// Built-in endpoints:
//
//	GET|HEAD /healthz   liveness
//	GET /metrics        Prometheus metrics, when WithMetrics is set
//
// Built-in endpoints are matched before the prefix is removed. Without a
// prefix they hide resource types named healthz and metrics.
package api
