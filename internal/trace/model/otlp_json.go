package model

// ExportTraceRequest mirrors the body accepted by an OTLP/HTTP collector on /v1/traces.
// Field order matters for the printed payload.
type ExportTraceRequest struct {
	ResourceSpans []ResourceSpans `json:"resourceSpans"`
}

type ResourceSpans struct {
	Resource   Resource     `json:"resource"`
	ScopeSpans []ScopeSpans `json:"scopeSpans"`
}

type Resource struct {
	Attributes []KeyValue `json:"attributes"`
}

type KeyValue struct {
	Key   string   `json:"key"`
	Value AnyValue `json:"value"`
}

type AnyValue struct {
	StringValue string `json:"stringValue"`
}

type ScopeSpans struct {
	Scope Scope      `json:"scope"`
	Spans []SpanJSON `json:"spans"`
}

type Scope struct {
	Name string `json:"name"`
}

type SpanJSON struct {
	TraceID                string      `json:"traceId"`
	SpanID                 string      `json:"spanId"`
	Name                   string      `json:"name"`
	Kind                   string      `json:"kind"`
	StartTimeUnixNano      uint64      `json:"start_time_unix_nano"`
	EndTimeUnixNano        uint64      `json:"end_time_unix_nano"`
	DroppedAttributesCount uint32      `json:"droppedAttributesCount"`
	Events                 []SpanEvent `json:"events"`
	DroppedEventsCount     uint32      `json:"droppedEventsCount"`
	Status                 Status      `json:"status"`
}

// SpanEvent is always emitted as an empty list.
type SpanEvent struct {
	Name         string `json:"name"`
	TimeUnixNano uint64 `json:"timeUnixNano"`
}

type Status struct {
	Code int `json:"code"`
}
