package config

import (
	"github.com/Avi18971911/tracepusher/internal/trace/model"
	"strconv"
	"strings"
)

type Protocol string

const (
	ProtocolHTTPJSON     Protocol = "http/json"
	ProtocolHTTPProtobuf Protocol = "http/protobuf"
	ProtocolGRPC         Protocol = "grpc"
)

type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
)

// Config is built once by Resolve and handed by value to every later stage.
type Config struct {
	Endpoint      string
	ServiceName   string
	SpanName      string
	Duration      int64 // seconds, may be negative
	DryRun        bool
	Debug         bool
	TimeShift     bool
	ParentTraceID string
	TraceID       string
	Protocol      Protocol
	Compression   Compression
	Headers       map[string]string
}

func (c Config) HasTraceID() bool {
	return c.TraceID != ""
}

func (c Config) HasParentTraceID() bool {
	return c.ParentTraceID != ""
}

// Resolve validates raw values and converts them into a Config.
func Resolve(raw RawArgs) (Config, error) {
	if err := requirePresent(raw); err != nil {
		return Config{}, err
	}

	duration, err := strconv.ParseInt(strings.TrimSpace(raw.Duration), 10, 64)
	if err != nil {
		return Config{}, newConfigurationError("duration", "%q is not an integer number of seconds", raw.Duration)
	}

	dryRun, err := ParseFlagBool("dry-run", raw.DryRun)
	if err != nil {
		return Config{}, err
	}
	debug, err := ParseFlagBool("debug", raw.Debug)
	if err != nil {
		return Config{}, err
	}
	timeShift, err := ParseFlagBool("time-shift", raw.TimeShift)
	if err != nil {
		return Config{}, err
	}

	if err := checkIDLength("trace-id", raw.TraceID); err != nil {
		return Config{}, err
	}
	if err := checkIDLength("parent-trace-id", raw.ParentTraceID); err != nil {
		return Config{}, err
	}

	protocol, err := parseProtocol(raw.Protocol)
	if err != nil {
		return Config{}, err
	}
	compression, err := parseCompression(raw.Compression)
	if err != nil {
		return Config{}, err
	}
	headers, err := parseHeaders(raw.Headers)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Endpoint:      strings.TrimRight(raw.Endpoint, "/"),
		ServiceName:   raw.ServiceName,
		SpanName:      raw.SpanName,
		Duration:      duration,
		DryRun:        dryRun,
		Debug:         debug,
		TimeShift:     timeShift,
		ParentTraceID: raw.ParentTraceID,
		TraceID:       raw.TraceID,
		Protocol:      protocol,
		Compression:   compression,
		Headers:       headers,
	}, nil
}

// ParseFlagBool accepts "true"/"false" in any case. An empty value is false.
func ParseFlagBool(field string, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return false, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, newConfigurationError(field, "expected True or False, got %q", value)
	}
}

func requirePresent(raw RawArgs) error {
	required := []struct {
		field string
		value string
	}{
		{"endpoint", raw.Endpoint},
		{"service-name", raw.ServiceName},
		{"span-name", raw.SpanName},
		{"duration", raw.Duration},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return newConfigurationError(r.field, "required flag not set")
		}
	}
	return nil
}

func checkIDLength(field string, id string) error {
	if id == "" {
		return nil
	}
	if len(id) != model.TraceIDHexLength {
		return newConfigurationError(field, "expected %d characters, got %d", model.TraceIDHexLength, len(id))
	}
	return nil
}

func parseProtocol(value string) (Protocol, error) {
	switch Protocol(strings.ToLower(strings.TrimSpace(value))) {
	case "", ProtocolHTTPJSON:
		return ProtocolHTTPJSON, nil
	case ProtocolHTTPProtobuf:
		return ProtocolHTTPProtobuf, nil
	case ProtocolGRPC:
		return ProtocolGRPC, nil
	default:
		return "", newConfigurationError("protocol", "unsupported protocol %q", value)
	}
}

func parseCompression(value string) (Compression, error) {
	switch Compression(strings.ToLower(strings.TrimSpace(value))) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionGzip:
		return CompressionGzip, nil
	default:
		return "", newConfigurationError("compression", "unsupported compression %q", value)
	}
}

func parseHeaders(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, h := range values {
		key, value, ok := strings.Cut(h, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, newConfigurationError("header", "expected key=value, got %q", h)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}
