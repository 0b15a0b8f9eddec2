package collector

import (
	"sync"
	"time"
)

type ReceivedSpan struct {
	TraceID      string
	SpanID       string
	ParentSpanID string
	ServiceName  string
	ActionName   string
	StartTime    time.Time
	EndTime      time.Time
	SpanKind     string
	Status       StatusCode
	ScopeName    string
}

type StatusCode string

const (
	UNSET StatusCode = "UNSET"
	OK    StatusCode = "OK"
	ERROR StatusCode = "ERROR"
)

// ReceivedRequest is one export call as seen by the collector.
type ReceivedRequest struct {
	Transport       string // "grpc" or "http"
	ContentType     string
	ContentEncoding string
	Headers         map[string]string
	Spans           []ReceivedSpan
}

type Sink struct {
	mu       sync.Mutex
	requests []ReceivedRequest
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Record(req ReceivedRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
}

func (s *Sink) Requests() []ReceivedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ReceivedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}
