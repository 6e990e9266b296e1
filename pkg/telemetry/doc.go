// Package telemetry groups langaudit's observability packages.
//
//   - logging: log/slog setup and run-scoped context fields
//   - metrics: Prometheus collector for audit runs, files, and issues,
//     served over HTTP in watch mode or written as a node exporter textfile
//   - health: liveness, readiness, and version endpoints for watch mode
//   - tracing: OpenTelemetry spans for audit runs and the watch HTTP server
//
// Audits are short batch runs, so apart from the span exporter none of these
// packages starts background work on its own; cmd/langaudit decides what to
// serve and when.
package telemetry
