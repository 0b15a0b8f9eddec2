package service

import (
	"github.com/Avi18971911/tracepusher/internal/config"
	"github.com/Avi18971911/tracepusher/internal/trace/model"
)

func BuildSpan(cfg config.Config, ids model.Identifiers, window model.TimeWindow) model.Span {
	return model.Span{
		TraceID:           ids.TraceID,
		SpanID:            ids.SpanID,
		Name:              cfg.SpanName,
		ServiceName:       cfg.ServiceName,
		StartTimeUnixNano: window.StartUnixNano,
		EndTimeUnixNano:   window.EndUnixNano,
		Kind:              model.SpanKindInternal,
		StatusCode:        model.StatusCodeOK,
	}
}

// BuildPayload wraps a single span into the OTLP JSON request body.
func BuildPayload(span model.Span) model.ExportTraceRequest {
	return model.ExportTraceRequest{
		ResourceSpans: []model.ResourceSpans{
			{
				Resource: model.Resource{
					Attributes: []model.KeyValue{
						{
							Key:   model.ServiceNameKey,
							Value: model.AnyValue{StringValue: span.ServiceName},
						},
					},
				},
				ScopeSpans: []model.ScopeSpans{
					{
						Scope: model.Scope{Name: model.ScopeName},
						Spans: []model.SpanJSON{
							{
								TraceID:                span.TraceID,
								SpanID:                 span.SpanID,
								Name:                   span.Name,
								Kind:                   span.Kind,
								StartTimeUnixNano:      span.StartTimeUnixNano,
								EndTimeUnixNano:        span.EndTimeUnixNano,
								DroppedAttributesCount: 0,
								Events:                 []model.SpanEvent{},
								DroppedEventsCount:     0,
								Status:                 model.Status{Code: span.StatusCode},
							},
						},
					},
				},
			},
		},
	}
}
