package transmitter

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/Avi18971911/tracepusher/internal/config"
	"github.com/Avi18971911/tracepusher/internal/trace/model"
	"github.com/Avi18971911/tracepusher/internal/trace/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"io"
	"net/http"
	"os"
)

const (
	TracesPath = "/v1/traces"

	contentTypeJSON     = "application/json"
	contentTypeProtobuf = "application/x-protobuf"
)

type Transmitter struct {
	logger          *zap.Logger
	out             io.Writer
	httpClient      *http.Client
	grpcDialOptions []grpc.DialOption
}

type Option func(*Transmitter)

// WithOutput sets where the dry-run report and response status are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(t *Transmitter) {
		t.out = w
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(t *Transmitter) {
		t.httpClient = client
	}
}

func WithGRPCDialOptions(opts ...grpc.DialOption) Option {
	return func(t *Transmitter) {
		t.grpcDialOptions = append(t.grpcDialOptions, opts...)
	}
}

func NewTransmitter(logger *zap.Logger, opts ...Option) *Transmitter {
	t := &Transmitter{
		logger:     logger,
		out:        os.Stdout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transmit prints the payload in dry-run mode, otherwise sends it once over the configured protocol.
func (t *Transmitter) Transmit(ctx context.Context, cfg config.Config, span model.Span) error {
	payload := service.BuildPayload(span)
	if cfg.DryRun {
		return t.printDryRun(cfg, payload)
	}

	switch cfg.Protocol {
	case config.ProtocolHTTPProtobuf:
		body, err := marshalProto(span)
		if err != nil {
			return err
		}
		return t.sendHTTP(ctx, cfg, body, contentTypeProtobuf)
	case config.ProtocolGRPC:
		req, err := service.ToProtoRequest(span)
		if err != nil {
			return fmt.Errorf("failed to build protobuf request: %w", err)
		}
		return t.sendGRPC(ctx, cfg, req)
	default:
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal trace payload: %w", err)
		}
		return t.sendHTTP(ctx, cfg, body, contentTypeJSON)
	}
}

func (t *Transmitter) printDryRun(cfg config.Config, payload model.ExportTraceRequest) error {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal trace payload: %w", err)
	}
	t.logger.Debug("Dry run, skipping network send", zap.String("endpoint", cfg.Endpoint))
	_, err = fmt.Fprintf(
		t.out,
		"Collector URL: %s. Service Name: %s. Span Name: %s. Trace Length (seconds): %d\nTrace:\n%s\n",
		cfg.Endpoint,
		cfg.ServiceName,
		cfg.SpanName,
		cfg.Duration,
		body,
	)
	return err
}

func (t *Transmitter) report(status string) {
	fmt.Fprintf(t.out, "Response: %s\n", status)
}
