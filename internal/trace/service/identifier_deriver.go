package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"github.com/Avi18971911/tracepusher/internal/config"
	"github.com/Avi18971911/tracepusher/internal/trace/model"
	"io"
)

const (
	traceIDBytes = 16
	spanIDBytes  = 8
)

// RandomSource fills p with random bytes. Production code must use a cryptographically secure source.
type RandomSource interface {
	Read(p []byte) (n int, err error)
}

type IdentifierDeriver struct {
	random RandomSource
}

func NewIdentifierDeriver(random RandomSource) *IdentifierDeriver {
	if random == nil {
		random = rand.Reader
	}
	return &IdentifierDeriver{random: random}
}

// Derive picks the trace id and always generates a fresh span id.
// A supplied trace id wins over a supplied parent trace id.
func (d *IdentifierDeriver) Derive(cfg config.Config) (model.Identifiers, error) {
	var ids model.Identifiers
	switch {
	case cfg.HasTraceID():
		ids.TraceID = cfg.TraceID
		ids.Origin = model.ParentTrace
	case cfg.HasParentTraceID():
		ids.TraceID = cfg.ParentTraceID
		ids.Origin = model.ChildSpan
	default:
		traceID, err := d.randomHex(traceIDBytes)
		if err != nil {
			return model.Identifiers{}, fmt.Errorf("failed to generate trace id: %w", err)
		}
		ids.TraceID = traceID
		ids.Origin = model.Standalone
	}

	spanID, err := d.randomHex(spanIDBytes)
	if err != nil {
		return model.Identifiers{}, fmt.Errorf("failed to generate span id: %w", err)
	}
	ids.SpanID = spanID
	return ids, nil
}

func (d *IdentifierDeriver) randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(d.random, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
