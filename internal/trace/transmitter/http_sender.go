package transmitter

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"github.com/Avi18971911/tracepusher/internal/config"
	"github.com/Avi18971911/tracepusher/internal/trace/model"
	"github.com/Avi18971911/tracepusher/internal/trace/service"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"io"
	"net/http"
)

func marshalProto(span model.Span) ([]byte, error) {
	req, err := service.ToProtoRequest(span)
	if err != nil {
		return nil, fmt.Errorf("failed to build protobuf request: %w", err)
	}
	body, err := proto.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal protobuf request: %w", err)
	}
	return body, nil
}

func (t *Transmitter) sendHTTP(ctx context.Context, cfg config.Config, body []byte, contentType string) error {
	url := cfg.Endpoint + TracesPath

	contentEncoding := ""
	if cfg.Compression == config.CompressionGzip {
		compressed, err := gzipBody(body)
		if err != nil {
			return fmt.Errorf("failed to compress trace payload: %w", err)
		}
		body = compressed
		contentEncoding = "gzip"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Endpoint: url, Err: err}
	}
	for key, value := range cfg.Headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", contentType)
	if contentEncoding != "" {
		req.Header.Set("Content-Encoding", contentEncoding)
	}

	t.logger.Debug(
		"Sending trace",
		zap.String("url", url),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(body)),
	)
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return &TransportError{Endpoint: url, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	t.report(resp.Status)
	if resp.StatusCode >= http.StatusBadRequest {
		t.logger.Warn("Collector rejected the trace", zap.String("url", url), zap.Int("status_code", resp.StatusCode))
	}
	return nil
}

func gzipBody(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
