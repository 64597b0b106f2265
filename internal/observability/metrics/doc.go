// Package metrics provides Prometheus instrumentation for the worker's
// operational HTTP endpoints. Notification metrics live with the dispatcher in
// internal/usecase/notify.
//
// Example usage:
//
//	mux := http.NewServeMux()
//	mux.Handle("/metrics", promhttp.Handler())
//	handler := metrics.HTTPMiddleware([]string{"/metrics", "/health"})(mux)
package metrics
