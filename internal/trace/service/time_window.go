package service

import (
	"github.com/Avi18971911/tracepusher/internal/config"
	"github.com/Avi18971911/tracepusher/internal/trace/model"
	"time"
)

type Clock interface {
	NowUnixNano() int64
}

type SystemClock struct{}

func (SystemClock) NowUnixNano() int64 {
	return time.Now().UTC().UnixNano()
}

type TimeWindowCalculator struct {
	clock Clock
}

func NewTimeWindowCalculator(clock Clock) *TimeWindowCalculator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TimeWindowCalculator{clock: clock}
}

// Compute returns [now, now+duration]. With time shift the window is moved back by its own
// length so that it ends at now.
func (c *TimeWindowCalculator) Compute(cfg config.Config) model.TimeWindow {
	durationNanos := cfg.Duration * int64(time.Second)
	start := c.clock.NowUnixNano()
	end := start + durationNanos

	if cfg.TimeShift {
		start -= durationNanos
		end -= durationNanos
	}

	return model.TimeWindow{
		StartUnixNano: uint64(start),
		EndUnixNano:   uint64(end),
		Shifted:       cfg.TimeShift,
	}
}
