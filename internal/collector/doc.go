// Package collector is test support: an in-process OTLP trace receiver (gRPC and
// HTTP /v1/traces) that records what the transmitter sends. The tracepusher binary
// never imports it.
package collector
