package collector

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"github.com/Avi18971911/tracepusher/internal/trace/model"
	"github.com/gorilla/mux"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"io"
	"mime"
	"net/http"
	"time"
)

type ErrorMessage struct {
	Message string `json:"message"`
}

// NewHTTPHandler serves POST /v1/traces for JSON and protobuf bodies, optionally gzip encoded.
func NewHTTPHandler(logger *zap.Logger, sink *Sink) http.Handler {
	r := mux.NewRouter()
	r.Handle("/v1/traces", tracesHandler(logger, sink)).Methods(http.MethodPost)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		httpError(w, fmt.Sprintf("Method %s not allowed", req.Method), http.StatusMethodNotAllowed, logger)
	})
	return r
}

func tracesHandler(logger *zap.Logger, sink *Sink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		body, err := readBody(r)
		if err != nil {
			httpError(w, err.Error(), http.StatusBadRequest, logger)
			return
		}

		contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		received := ReceivedRequest{
			Transport:       "http",
			ContentType:     contentType,
			ContentEncoding: r.Header.Get("Content-Encoding"),
			Headers:         map[string]string{},
		}
		for key := range r.Header {
			received.Headers[key] = r.Header.Get(key)
		}

		switch contentType {
		case "application/x-protobuf":
			req := &protoTrace.ExportTraceServiceRequest{}
			if err := proto.Unmarshal(body, req); err != nil {
				httpError(w, fmt.Sprintf("Error decoding protobuf traces: %v", err), http.StatusBadRequest, logger)
				return
			}
			received.Spans = ConvertProtoRequest(req)
			sink.Record(received)
			out, err := proto.Marshal(&protoTrace.ExportTraceServiceResponse{})
			if err != nil {
				httpError(w, err.Error(), http.StatusInternalServerError, logger)
				return
			}
			w.Header().Set("Content-Type", "application/x-protobuf")
			_, _ = w.Write(out)
		case "application/json":
			var req model.ExportTraceRequest
			if err := json.Unmarshal(body, &req); err != nil {
				httpError(w, fmt.Sprintf("Error decoding JSON traces: %v", err), http.StatusBadRequest, logger)
				return
			}
			received.Spans = ConvertJSONRequest(req)
			sink.Record(received)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{}"))
		default:
			httpError(w, fmt.Sprintf("Unsupported content type %q", contentType), http.StatusUnsupportedMediaType, logger)
			return
		}
		logger.Info("Received spans over HTTP", zap.Int("span_count", len(received.Spans)), zap.String("content_type", contentType))
	}
}

func readBody(r *http.Request) ([]byte, error) {
	reader := io.Reader(r.Body)
	if r.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			return nil, fmt.Errorf("invalid gzip body: %w", err)
		}
		defer zr.Close()
		reader = zr
	}
	return io.ReadAll(reader)
}

// ConvertJSONRequest flattens the hex-id JSON encoding; protojson can't read it because ids are hex, not base64.
func ConvertJSONRequest(req model.ExportTraceRequest) []ReceivedSpan {
	var spans []ReceivedSpan
	for _, resourceSpan := range req.ResourceSpans {
		serviceName := serviceNameNotFound
		for _, attr := range resourceSpan.Resource.Attributes {
			if attr.Key == model.ServiceNameKey {
				serviceName = attr.Value.StringValue
			}
		}
		for _, scopeSpan := range resourceSpan.ScopeSpans {
			for _, span := range scopeSpan.Spans {
				spans = append(spans, ReceivedSpan{
					TraceID:     span.TraceID,
					SpanID:      span.SpanID,
					ServiceName: serviceName,
					ActionName:  span.Name,
					StartTime:   time.Unix(0, int64(span.StartTimeUnixNano)).UTC(),
					EndTime:     time.Unix(0, int64(span.EndTimeUnixNano)).UTC(),
					SpanKind:    span.Kind,
					Status:      getStatus(int32(span.Status.Code)),
					ScopeName:   scopeSpan.Scope.Name,
				})
			}
		}
	}
	return spans
}

func httpError(w http.ResponseWriter, message string, statusCode int, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(ErrorMessage{Message: message})
	if err != nil {
		logger.Error("Failed to encode error message", zap.Error(err))
	}
}
