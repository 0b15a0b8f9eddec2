package model

import semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

const (
	ServiceNameKey = string(semconv.ServiceNameKey)
	ScopeName      = "manual-test"

	SpanKindInternal = "SPAN_KIND_INTERNAL"
	StatusCodeOK     = 1

	TraceIDHexLength = 32
	SpanIDHexLength  = 16
)

type Origin string

const (
	Standalone  Origin = "standalone"   // trace id generated here
	ParentTrace Origin = "parent-trace" // trace id supplied with --trace-id
	ChildSpan   Origin = "child-span"   // trace id taken from --parent-trace-id
)

type Identifiers struct {
	TraceID string
	SpanID  string
	Origin  Origin
}

type TimeWindow struct {
	StartUnixNano uint64
	EndUnixNano   uint64
	Shifted       bool
}

// Span is the single record pushed per invocation. It is never mutated once built.
type Span struct {
	TraceID           string
	SpanID            string
	Name              string
	ServiceName       string
	StartTimeUnixNano uint64
	EndTimeUnixNano   uint64
	Kind              string
	StatusCode        int
}
