package transmitter

import (
	"context"
	"crypto/tls"
	"fmt"
	"github.com/Avi18971911/tracepusher/internal/config"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding/gzip"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"net/url"
	"strings"
)

func (t *Transmitter) sendGRPC(
	ctx context.Context,
	cfg config.Config,
	req *protoTrace.ExportTraceServiceRequest,
) error {
	target, creds, err := grpcTarget(cfg.Endpoint)
	if err != nil {
		return &TransportError{Endpoint: cfg.Endpoint, Err: err}
	}

	dialOptions := append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, t.grpcDialOptions...)
	conn, err := grpc.NewClient(target, dialOptions...)
	if err != nil {
		return &TransportError{Endpoint: target, Err: err}
	}
	defer conn.Close()

	var callOptions []grpc.CallOption
	if cfg.Compression == config.CompressionGzip {
		callOptions = append(callOptions, grpc.UseCompressor(gzip.Name))
	}
	if len(cfg.Headers) > 0 {
		ctx = metadata.NewOutgoingContext(ctx, metadata.New(cfg.Headers))
	}

	t.logger.Debug("Sending trace", zap.String("target", target), zap.String("protocol", string(config.ProtocolGRPC)))
	resp, err := protoTrace.NewTraceServiceClient(conn).Export(ctx, req, callOptions...)
	if err != nil {
		st, ok := status.FromError(err)
		if !ok || isTransportCode(st.Code()) {
			return &TransportError{Endpoint: target, Err: err}
		}
		t.report(fmt.Sprintf("%s %s", st.Code(), st.Message()))
		t.logger.Warn("Collector rejected the trace", zap.String("target", target), zap.String("code", st.Code().String()))
		return nil
	}

	if rejected := resp.GetPartialSuccess().GetRejectedSpans(); rejected > 0 {
		t.report(fmt.Sprintf("%s (rejected spans: %d, %s)", codes.OK, rejected, resp.GetPartialSuccess().GetErrorMessage()))
		return nil
	}
	t.report(codes.OK.String())
	return nil
}

func isTransportCode(code codes.Code) bool {
	switch code {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return true
	default:
		return false
	}
}

// grpcTarget turns the collector URL into a dial target. https selects TLS, anything else is plaintext.
func grpcTarget(endpoint string) (string, credentials.TransportCredentials, error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, insecure.NewCredentials(), nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse endpoint: %w", err)
	}
	if u.Host == "" {
		return "", nil, fmt.Errorf("endpoint %q has no host", endpoint)
	}
	if u.Scheme == "https" {
		return u.Host, credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12}), nil
	}
	return u.Host, insecure.NewCredentials(), nil
}
