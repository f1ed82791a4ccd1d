// Package observe provides popover.Observer implementations that export
// lifecycle events as Prometheus metrics and OpenTelemetry spans.
//
//	reg := prometheus.NewRegistry()
//	p := popover.New(
//	    popover.WithObserver(observe.Multi(
//	        observe.NewMetrics(observe.WithRegistry(reg)),
//	        observe.NewTracing(),
//	    )),
//	)
package observe
