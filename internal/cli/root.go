package cli

import (
	"context"
	"errors"
	"github.com/Avi18971911/tracepusher/internal/config"
	"github.com/Avi18971911/tracepusher/internal/logging"
	"github.com/Avi18971911/tracepusher/internal/trace/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"io"
	"net/http"
	"os"
)

const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
)

const (
	flagEndpoint      = "endpoint"
	flagServiceName   = "service-name"
	flagSpanName      = "span-name"
	flagDuration      = "duration"
	flagDryRun        = "dry-run"
	flagDebug         = "debug"
	flagTimeShift     = "time-shift"
	flagParentTraceID = "parent-trace-id"
	flagTraceID       = "trace-id"
	flagProtocol      = "protocol"
	flagCompression   = "compression"
	flagHeader        = "header"
	flagConfig        = "config"
	flagEnvFile       = "env-file"
)

// Dependencies are the process-level collaborators; tests replace them.
type Dependencies struct {
	Out        io.Writer
	Err        io.Writer
	Random     service.RandomSource
	Clock      service.Clock
	HTTPClient *http.Client
	LookupEnv  func(string) (string, bool)
}

func DefaultDependencies() Dependencies {
	return Dependencies{
		Out:       os.Stdout,
		Err:       os.Stderr,
		LookupEnv: os.LookupEnv,
	}
}

func NewRootCommand(deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracepusher -ep=http://localhost:4318 -sen=serviceNameA -spn=spanX -dur=2",
		Short: "Push a single synthetic span to an OpenTelemetry collector",
		Long: "Builds one span (standalone, parent trace or child span) and sends it to " +
			"<endpoint>/v1/traces. Boolean flags take True or False.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &config.ConfigurationError{Field: "arguments", Reason: "unexpected positional arguments"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := resolveRawArgs(cmd, deps)
			if err != nil {
				return err
			}
			cfg, err := config.Resolve(raw)
			if err != nil {
				return err
			}
			logger := logging.NewLogger(cfg.Debug, zapcore.AddSync(deps.Err))
			defer logger.Sync()
			return run(cmd.Context(), cfg, deps, logger)
		},
	}
	cmd.SetOut(deps.Out)
	cmd.SetErr(deps.Err)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &config.ConfigurationError{Field: "flags", Reason: err.Error()}
	})

	flags := cmd.Flags()
	flags.String(flagEndpoint, "", "collector base URL, e.g. http://localhost:4318 (required)")
	flags.String(flagServiceName, "", "service.name resource attribute (required)")
	flags.String(flagSpanName, "", "span name (required)")
	flags.String(flagDuration, "", "span length in whole seconds (required)")
	flags.String(flagDryRun, "", "True to print the payload instead of sending it")
	flags.StringP(flagDebug, "x", "", "True for verbose diagnostics")
	flags.String(flagTimeShift, "", "True to move the span window back by its duration")
	flags.String(flagParentTraceID, "", "32 character trace id of an existing trace; makes this a child span")
	flags.String(flagTraceID, "", "32 character trace id to reuse; makes this a parent trace")
	flags.String(flagProtocol, "", "http/json (default), http/protobuf or grpc")
	flags.String(flagCompression, "", "none (default) or gzip")
	flags.StringArrayP(flagHeader, "H", nil, "extra header as key=value, repeatable")
	flags.String(flagConfig, "", "YAML file with defaults keyed by long flag names")
	flags.String(flagEnvFile, "", "dotenv file with TRACEPUSHER_* defaults")

	return cmd
}

// Execute runs the command and maps the outcome to a process exit code.
func Execute(ctx context.Context, args []string, deps Dependencies) int {
	cmd := NewRootCommand(deps)
	cmd.SetArgs(NormalizeArgs(args))
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	logger := logging.NewLogger(false, zapcore.AddSync(deps.Err))
	defer logger.Sync()
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		logger.Error("Invalid configuration", zap.Error(err))
		return ExitConfiguration
	}
	logger.Error("Failed to push trace", zap.Error(err))
	return ExitFailure
}

// resolveRawArgs layers flags over the environment, the env file and the config file.
func resolveRawArgs(cmd *cobra.Command, deps Dependencies) (config.RawArgs, error) {
	flags := cmd.Flags()
	get := func(name string) string {
		v, _ := flags.GetString(name)
		return v
	}
	headers, _ := flags.GetStringArray(flagHeader)

	raw := config.RawArgs{
		Endpoint:      get(flagEndpoint),
		ServiceName:   get(flagServiceName),
		SpanName:      get(flagSpanName),
		Duration:      get(flagDuration),
		DryRun:        get(flagDryRun),
		Debug:         get(flagDebug),
		TimeShift:     get(flagTimeShift),
		ParentTraceID: get(flagParentTraceID),
		TraceID:       get(flagTraceID),
		Protocol:      get(flagProtocol),
		Compression:   get(flagCompression),
		Headers:       headers,
	}

	if deps.LookupEnv != nil {
		raw = raw.Merge(config.FromLookup(deps.LookupEnv))
	}
	if path := get(flagEnvFile); path != "" {
		fromEnvFile, err := config.FromEnvFile(path)
		if err != nil {
			return config.RawArgs{}, err
		}
		raw = raw.Merge(fromEnvFile)
	}
	if path := get(flagConfig); path != "" {
		fromFile, err := config.FromFile(path)
		if err != nil {
			return config.RawArgs{}, err
		}
		raw = raw.Merge(fromFile)
	}
	return raw, nil
}
