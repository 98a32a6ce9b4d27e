package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventRequestReceived   EventType = "request_received"
	EventResponseCompleted EventType = "response_completed"
	EventUpstreamFailed    EventType = "upstream_failed"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Duration   time.Duration
	StatusCode int
}

type Collector struct {
	eventCh chan MetricEvent
	done    chan struct{}
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		done:    make(chan struct{}),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

// Emit queues an event without blocking. It reports false when the buffer
// is full and the event was dropped.
func (c *Collector) Emit(event MetricEvent) bool {
	select {
	case c.eventCh <- event:
		return true
	default:
		return false
	}
}

// Start runs the event loop until ctx is cancelled. Done is closed once the
// remaining events have been drained.
func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) Done() <-chan struct{} {
	return c.done
}

func (c *Collector) Metrics() *Metrics {
	return c.metrics
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")
	defer close(c.done)

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventRequestReceived:
		c.metrics.IncrementRequests()

	case EventResponseCompleted:
		c.metrics.RecordResponse(event.Duration, event.StatusCode)

	case EventUpstreamFailed:
		c.metrics.RecordUpstreamFailure()

	default:
		c.logger.Debug("Dropping unknown metric event", slog.String("type", string(event.Type)))
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}
