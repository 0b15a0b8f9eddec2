package service

import (
	"fmt"
	"github.com/Avi18971911/tracepusher/internal/trace/model"
	"go.opentelemetry.io/otel/trace"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	"go.opentelemetry.io/proto/otlp/trace/v1"
)

// ToProtoRequest converts the span into the request used by the protobuf and gRPC transports.
// Unlike the JSON body, ids must decode as lowercase hex here.
func ToProtoRequest(span model.Span) (*protoTrace.ExportTraceServiceRequest, error) {
	traceID, err := trace.TraceIDFromHex(span.TraceID)
	if err != nil {
		return nil, fmt.Errorf("failed to decode trace id %q: %w", span.TraceID, err)
	}
	spanID, err := trace.SpanIDFromHex(span.SpanID)
	if err != nil {
		return nil, fmt.Errorf("failed to decode span id %q: %w", span.SpanID, err)
	}

	kind, ok := v1.Span_SpanKind_value[span.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown span kind %q", span.Kind)
	}

	return &protoTrace.ExportTraceServiceRequest{
		ResourceSpans: []*v1.ResourceSpans{
			{
				Resource: &resourcepb.Resource{
					Attributes: []*commonpb.KeyValue{
						{
							Key: model.ServiceNameKey,
							Value: &commonpb.AnyValue{
								Value: &commonpb.AnyValue_StringValue{StringValue: span.ServiceName},
							},
						},
					},
				},
				ScopeSpans: []*v1.ScopeSpans{
					{
						Scope: &commonpb.InstrumentationScope{Name: model.ScopeName},
						Spans: []*v1.Span{
							{
								TraceId:           traceID[:],
								SpanId:            spanID[:],
								Name:              span.Name,
								Kind:              v1.Span_SpanKind(kind),
								StartTimeUnixNano: span.StartTimeUnixNano,
								EndTimeUnixNano:   span.EndTimeUnixNano,
								Events:            []*v1.Span_Event{},
								Status:            &v1.Status{Code: v1.Status_StatusCode(span.StatusCode)},
							},
						},
					},
				},
			},
		},
	}, nil
}
