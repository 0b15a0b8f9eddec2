package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"os"
	"strconv"
	"strings"
)

const EnvPrefix = "TRACEPUSHER_"

// RawArgs holds unparsed values as they arrive from flags, the environment or a file.
// An empty field means "not set at this layer".
type RawArgs struct {
	Endpoint      string
	ServiceName   string
	SpanName      string
	Duration      string
	DryRun        string
	Debug         string
	TimeShift     string
	ParentTraceID string
	TraceID       string
	Protocol      string
	Compression   string
	Headers       []string
}

// Merge fills every field left empty in r with the value from fallback.
func (r RawArgs) Merge(fallback RawArgs) RawArgs {
	pick := func(primary, secondary string) string {
		if primary != "" {
			return primary
		}
		return secondary
	}
	headers := r.Headers
	if len(headers) == 0 {
		headers = fallback.Headers
	}
	return RawArgs{
		Endpoint:      pick(r.Endpoint, fallback.Endpoint),
		ServiceName:   pick(r.ServiceName, fallback.ServiceName),
		SpanName:      pick(r.SpanName, fallback.SpanName),
		Duration:      pick(r.Duration, fallback.Duration),
		DryRun:        pick(r.DryRun, fallback.DryRun),
		Debug:         pick(r.Debug, fallback.Debug),
		TimeShift:     pick(r.TimeShift, fallback.TimeShift),
		ParentTraceID: pick(r.ParentTraceID, fallback.ParentTraceID),
		TraceID:       pick(r.TraceID, fallback.TraceID),
		Protocol:      pick(r.Protocol, fallback.Protocol),
		Compression:   pick(r.Compression, fallback.Compression),
		Headers:       headers,
	}
}

// FromLookup reads TRACEPUSHER_* variables through lookup, e.g. os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) RawArgs {
	get := func(name string) string {
		v, _ := lookup(EnvPrefix + name)
		return v
	}
	return RawArgs{
		Endpoint:      get("ENDPOINT"),
		ServiceName:   get("SERVICE_NAME"),
		SpanName:      get("SPAN_NAME"),
		Duration:      get("DURATION"),
		DryRun:        get("DRY_RUN"),
		Debug:         get("DEBUG"),
		TimeShift:     get("TIME_SHIFT"),
		ParentTraceID: get("PARENT_TRACE_ID"),
		TraceID:       get("TRACE_ID"),
		Protocol:      get("PROTOCOL"),
		Compression:   get("COMPRESSION"),
		Headers:       splitHeaderList(get("HEADERS")),
	}
}

// splitHeaderList splits "k1=v1,k2=v2". A comma only starts a new header when the
// text after it contains "=", otherwise it belongs to the previous value.
func splitHeaderList(list string) []string {
	var headers []string
	for _, part := range strings.Split(list, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if len(headers) > 0 && !strings.Contains(trimmed, "=") {
			headers[len(headers)-1] += "," + part
			continue
		}
		headers = append(headers, trimmed)
	}
	return headers
}

// FromEnvFile reads TRACEPUSHER_* entries from a dotenv file without touching the process environment.
func FromEnvFile(path string) (RawArgs, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return RawArgs{}, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return FromLookup(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}), nil
}

type fileArgs struct {
	Endpoint      string            `yaml:"endpoint"`
	ServiceName   string            `yaml:"service-name"`
	SpanName      string            `yaml:"span-name"`
	Duration      *int64            `yaml:"duration"`
	DryRun        *bool             `yaml:"dry-run"`
	Debug         *bool             `yaml:"debug"`
	TimeShift     *bool             `yaml:"time-shift"`
	ParentTraceID string            `yaml:"parent-trace-id"`
	TraceID       string            `yaml:"trace-id"`
	Protocol      string            `yaml:"protocol"`
	Compression   string            `yaml:"compression"`
	Headers       map[string]string `yaml:"headers"`
}

// FromFile reads defaults from a YAML file using the long flag names as keys.
func FromFile(path string) (RawArgs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RawArgs{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (RawArgs, error) {
	var f fileArgs
	if err := yaml.Unmarshal(data, &f); err != nil {
		return RawArgs{}, &ConfigurationError{Field: "config", Reason: err.Error()}
	}
	raw := RawArgs{
		Endpoint:      f.Endpoint,
		ServiceName:   f.ServiceName,
		SpanName:      f.SpanName,
		ParentTraceID: f.ParentTraceID,
		TraceID:       f.TraceID,
		Protocol:      f.Protocol,
		Compression:   f.Compression,
		DryRun:        formatOptionalBool(f.DryRun),
		Debug:         formatOptionalBool(f.Debug),
		TimeShift:     formatOptionalBool(f.TimeShift),
	}
	if f.Duration != nil {
		raw.Duration = strconv.FormatInt(*f.Duration, 10)
	}
	for k, v := range f.Headers {
		raw.Headers = append(raw.Headers, k+"="+v)
	}
	return raw, nil
}

func formatOptionalBool(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "True"
	}
	return "False"
}
