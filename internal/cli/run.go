package cli

import (
	"context"
	"github.com/Avi18971911/tracepusher/internal/config"
	"github.com/Avi18971911/tracepusher/internal/trace/model"
	"github.com/Avi18971911/tracepusher/internal/trace/service"
	"github.com/Avi18971911/tracepusher/internal/trace/transmitter"
	"go.uber.org/zap"
)

func run(ctx context.Context, cfg config.Config, deps Dependencies, logger *zap.Logger) error {
	announceModes(cfg, logger)

	ids, err := service.NewIdentifierDeriver(deps.Random).Derive(cfg)
	if err != nil {
		return err
	}
	logger.Debug(
		describeOrigin(ids.Origin),
		zap.String("trace_id", ids.TraceID),
		zap.String("span_id", ids.SpanID),
	)

	window := service.NewTimeWindowCalculator(deps.Clock).Compute(cfg)
	logger.Debug(
		"Computed time window",
		zap.Bool("time_shifted", window.Shifted),
		zap.Uint64("start_time_unix_nano", window.StartUnixNano),
		zap.Uint64("end_time_unix_nano", window.EndUnixNano),
	)

	span := service.BuildSpan(cfg, ids, window)
	logger.Debug("Trace", zap.Reflect("payload", service.BuildPayload(span)))

	opts := []transmitter.Option{transmitter.WithOutput(deps.Out)}
	if deps.HTTPClient != nil {
		opts = append(opts, transmitter.WithHTTPClient(deps.HTTPClient))
	}
	return transmitter.NewTransmitter(logger, opts...).Transmit(ctx, cfg, span)
}

func announceModes(cfg config.Config, logger *zap.Logger) {
	if cfg.Debug {
		logger.Info("Debug mode is ON")
	}
	if cfg.DryRun {
		logger.Info("Dry run mode is ON. Nothing will actually be sent.")
	}
	if cfg.TimeShift {
		logger.Info("Time shift enabled. Will shift the start and end time back in time by DURATION seconds.")
	}
	if cfg.HasParentTraceID() {
		logger.Info("Pushing a child (sub) span", zap.String("parent_trace_id", cfg.ParentTraceID))
	}
	if cfg.HasTraceID() {
		logger.Info("Received an incoming trace_id. This is a parent trace", zap.String("trace_id", cfg.TraceID))
	}
	if cfg.HasTraceID() && cfg.HasParentTraceID() {
		logger.Warn("Both trace-id and parent-trace-id are set, using trace-id")
	}

	logger.Debug(
		"Configuration",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("service_name", cfg.ServiceName),
		zap.String("span_name", cfg.SpanName),
		zap.Int64("duration", cfg.Duration),
		zap.Bool("dry_run", cfg.DryRun),
		zap.Bool("time_shift", cfg.TimeShift),
		zap.String("parent_trace_id", cfg.ParentTraceID),
		zap.String("trace_id", cfg.TraceID),
		zap.String("protocol", string(cfg.Protocol)),
		zap.String("compression", string(cfg.Compression)),
		zap.Int("header_count", len(cfg.Headers)),
	)
}

func describeOrigin(origin model.Origin) string {
	switch origin {
	case model.ParentTrace:
		return "This is a parent trace. An incoming trace_id has been provided"
	case model.ChildSpan:
		return "This is a child span. parent_trace_id was passed in by the user"
	default:
		return "This is a standard trace (NOT a child span) so a trace_id was generated"
	}
}
