// Package tracing provides OpenTelemetry tracing for audit runs.
//
// A run is one trace: the runner opens an "audit.run" span and a child
// "audit.file" span for every reference file, so slow or failing files
// stand out in a trace viewer. In watch mode the metrics and health
// endpoints are wrapped in server spans that honor incoming W3C
// traceparent headers.
//
// Spans are exported over OTLP gRPC:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    sampler: ratio
//	    sample_ratio: 0.5
//	    endpoint: collector:4317
//	    insecure: true
//
// When tracing is disabled, or the Tracer is nil, spans are no-ops.
package tracing
