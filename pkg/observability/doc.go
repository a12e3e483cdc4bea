/*
Package observability provides tools for monitoring the vine engine.

Metrics turns lifecycle hooks into Prometheus collectors, and Setup installs an
OpenTelemetry tracer provider exporting the computer runner's job and superstep
spans over OTLP/gRPC.
*/
package observability
