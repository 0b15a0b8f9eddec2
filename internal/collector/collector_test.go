package collector

import (
	"bytes"
	"compress/gzip"
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	"go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const jsonBody = `{"resourceSpans":[{"resource":{"attributes":[{"key":"service.name","value":{"stringValue":"checkout"}}]},
"scopeSpans":[{"scope":{"name":"manual-test"},"spans":[{"traceId":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
"spanId":"cccccccccccccccc","name":"charge","kind":"SPAN_KIND_INTERNAL","start_time_unix_nano":1000000000,
"end_time_unix_nano":3000000000,"droppedAttributesCount":0,"events":[],"droppedEventsCount":0,"status":{"code":1}}]}]}]}`

func protoRequest(withServiceName bool) *protoTrace.ExportTraceServiceRequest {
	resource := &resourcepb.Resource{}
	if withServiceName {
		resource.Attributes = []*commonpb.KeyValue{
			{Key: "service.name", Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: "checkout"}}},
		}
	}
	return &protoTrace.ExportTraceServiceRequest{
		ResourceSpans: []*v1.ResourceSpans{
			{
				Resource: resource,
				ScopeSpans: []*v1.ScopeSpans{
					{
						Scope: &commonpb.InstrumentationScope{Name: "manual-test"},
						Spans: []*v1.Span{
							{
								TraceId:           bytes.Repeat([]byte{0xaa}, 16),
								SpanId:            bytes.Repeat([]byte{0xcc}, 8),
								Name:              "charge",
								Kind:              v1.Span_SPAN_KIND_INTERNAL,
								StartTimeUnixNano: 1_000_000_000,
								EndTimeUnixNano:   3_000_000_000,
								Status:            &v1.Status{Code: v1.Status_STATUS_CODE_OK},
							},
						},
					},
				},
			},
		},
	}
}

func assertChargeSpan(t *testing.T, span ReceivedSpan) {
	assert.Equal(t, strings.Repeat("a", 32), span.TraceID)
	assert.Equal(t, strings.Repeat("c", 16), span.SpanID)
	assert.Equal(t, "checkout", span.ServiceName)
	assert.Equal(t, "charge", span.ActionName)
	assert.Equal(t, "SPAN_KIND_INTERNAL", span.SpanKind)
	assert.Equal(t, OK, span.Status)
	assert.Equal(t, "manual-test", span.ScopeName)
	assert.Equal(t, int64(1_000_000_000), span.StartTime.UnixNano())
	assert.Equal(t, int64(3_000_000_000), span.EndTime.UnixNano())
}

func TestConvertProtoRequest(t *testing.T) {
	t.Run("Flattens resource and scope spans", func(t *testing.T) {
		spans := ConvertProtoRequest(protoRequest(true))
		require.Len(t, spans, 1)
		assertChargeSpan(t, spans[0])
	})

	t.Run("Marks a missing service name", func(t *testing.T) {
		spans := ConvertProtoRequest(protoRequest(false))
		require.Len(t, spans, 1)
		assert.Equal(t, serviceNameNotFound, spans[0].ServiceName)
	})
}

func TestTraceServiceServerImpl_Export(t *testing.T) {
	t.Run("Records spans and incoming metadata", func(t *testing.T) {
		sink := NewSink()
		tss := NewTraceServiceServerImpl(zap.NewNop(), sink)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-team", "core"))

		resp, err := tss.Export(ctx, protoRequest(true))
		require.NoError(t, err)
		assert.NotNil(t, resp)

		requests := sink.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, "grpc", requests[0].Transport)
		assert.Equal(t, "core", requests[0].Headers["x-team"])
		require.Len(t, requests[0].Spans, 1)
		assertChargeSpan(t, requests[0].Spans[0])
	})
}

func TestHTTPHandler(t *testing.T) {
	t.Run("Accepts JSON bodies with hex ids", func(t *testing.T) {
		sink := NewSink()
		handler := NewHTTPHandler(zap.NewNop(), sink)
		req := httptest.NewRequest(http.MethodPost, "/v1/traces", strings.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		requests := sink.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, "application/json", requests[0].ContentType)
		require.Len(t, requests[0].Spans, 1)
		assertChargeSpan(t, requests[0].Spans[0])
	})

	t.Run("Accepts gzip compressed protobuf bodies", func(t *testing.T) {
		sink := NewSink()
		handler := NewHTTPHandler(zap.NewNop(), sink)
		raw, err := proto.Marshal(protoRequest(true))
		require.NoError(t, err)
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err = zw.Write(raw)
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		req := httptest.NewRequest(http.MethodPost, "/v1/traces", &buf)
		req.Header.Set("Content-Type", "application/x-protobuf")
		req.Header.Set("Content-Encoding", "gzip")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		requests := sink.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, "gzip", requests[0].ContentEncoding)
		require.Len(t, requests[0].Spans, 1)
		assertChargeSpan(t, requests[0].Spans[0])
	})

	t.Run("Rejects methods other than POST", func(t *testing.T) {
		sink := NewSink()
		rec := httptest.NewRecorder()
		NewHTTPHandler(zap.NewNop(), sink).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/traces", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Empty(t, sink.Requests())
	})

	t.Run("Rejects unsupported content types", func(t *testing.T) {
		sink := NewSink()
		req := httptest.NewRequest(http.MethodPost, "/v1/traces", strings.NewReader("x"))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		NewHTTPHandler(zap.NewNop(), sink).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Contains(t, rec.Body.String(), "Unsupported content type")
	})

	t.Run("Rejects malformed JSON", func(t *testing.T) {
		sink := NewSink()
		req := httptest.NewRequest(http.MethodPost, "/v1/traces", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		NewHTTPHandler(zap.NewNop(), sink).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, sink.Requests())
	})
}
