package collector

import (
	"context"
	"encoding/hex"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"
	_ "google.golang.org/grpc/encoding/gzip"
	"google.golang.org/grpc/metadata"
	"strings"
	"time"
)

const serviceNameNotFound = "Never Assigned"

type TraceServiceServerImpl struct {
	protoTrace.UnimplementedTraceServiceServer
	logger *zap.Logger
	sink   *Sink
}

func NewTraceServiceServerImpl(
	logger *zap.Logger,
	sink *Sink,
) *TraceServiceServerImpl {
	return &TraceServiceServerImpl{
		logger: logger,
		sink:   sink,
	}
}

func (tss *TraceServiceServerImpl) Export(
	ctx context.Context,
	req *protoTrace.ExportTraceServiceRequest,
) (*protoTrace.ExportTraceServiceResponse, error) {
	received := ReceivedRequest{
		Transport: "grpc",
		Headers:   map[string]string{},
		Spans:     ConvertProtoRequest(req),
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for key, values := range md {
			received.Headers[key] = strings.Join(values, ",")
		}
	}
	for _, span := range received.Spans {
		if span.ServiceName == serviceNameNotFound {
			tss.logger.Warn("Service name not found in resource span")
		}
	}
	tss.sink.Record(received)
	tss.logger.Info("Received spans over gRPC", zap.Int("span_count", len(received.Spans)))
	return &protoTrace.ExportTraceServiceResponse{}, nil
}

func ConvertProtoRequest(req *protoTrace.ExportTraceServiceRequest) []ReceivedSpan {
	var spans []ReceivedSpan
	for _, resourceSpan := range req.ResourceSpans {
		serviceName := getServiceName(resourceSpan)
		for _, scopeSpan := range resourceSpan.ScopeSpans {
			for _, span := range scopeSpan.Spans {
				spans = append(spans, getTypedSpan(span, serviceName, scopeSpan.GetScope().GetName()))
			}
		}
	}
	return spans
}

func getServiceName(resourceSpan *v1.ResourceSpans) string {
	var serviceName = serviceNameNotFound
	for _, attr := range resourceSpan.GetResource().GetAttributes() {
		if attr.Key == "service.name" {
			serviceName = attr.Value.GetStringValue()
		}
	}
	return serviceName
}

func getTypedSpan(span *v1.Span, serviceName string, scopeName string) ReceivedSpan {
	return ReceivedSpan{
		TraceID:      hex.EncodeToString(span.TraceId),
		SpanID:       hex.EncodeToString(span.SpanId),
		ParentSpanID: hex.EncodeToString(span.ParentSpanId),
		ServiceName:  serviceName,
		ActionName:   span.Name,
		StartTime:    time.Unix(0, int64(span.StartTimeUnixNano)).UTC(),
		EndTime:      time.Unix(0, int64(span.EndTimeUnixNano)).UTC(),
		SpanKind:     span.Kind.String(),
		Status:       getStatus(int32(span.GetStatus().GetCode())),
		ScopeName:    scopeName,
	}
}

func getStatus(code int32) StatusCode {
	switch code {
	case 0:
		return UNSET
	case 1:
		return OK
	default:
		return ERROR
	}
}
