// Package metrics collects per-request frontend metrics and exports them in
// the Prometheus text format.
//
// Request handlers emit MetricEvent values on a buffered channel with a
// non-blocking send, so a full buffer drops events instead of slowing the
// request path. A single goroutine started by Collector.Start applies the
// events to Prometheus collectors held in a private registry and drains the
// buffer when its context is cancelled.
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:       metrics.EventResponseCompleted,
//		Duration:   15 * time.Millisecond,
//		StatusCode: 200,
//	})
//
//	http.Handle("/metrics", collector.Handler())
package metrics
