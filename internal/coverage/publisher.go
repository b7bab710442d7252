package coverage

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"

	"github.com/scopesignals/coverage/internal/domain"
	"github.com/scopesignals/coverage/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second

	// bufferBatches is how many full batches the publish buffer holds.
	bufferBatches = 4
)

// BatchLoader writes multiple serialized events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Publisher forwards selection events to a BatchLoader in batches. Publish
// never blocks a session transition: when the buffer is full the event is
// dropped and counted.
type Publisher struct {
	loader        BatchLoader
	events        chan domain.SelectionEvent
	logger        *slog.Logger
	metrics       *observability.Metrics
	batchSize     int
	flushInterval time.Duration
	clock         clockwork.Clock
	running       atomic.Bool
}

// NewPublisher creates a Publisher flushing every batchSize events or every
// flushInterval, whichever comes first. Pass a nil clock to use real time.
func NewPublisher(loader BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration, clock clockwork.Clock) *Publisher {
	if batchSize < 1 {
		batchSize = 1
	}
	if flushInterval <= 0 {
		flushInterval = initialBackoff
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Publisher{
		loader:        loader,
		events:        make(chan domain.SelectionEvent, batchSize*bufferBatches),
		logger:        logger,
		metrics:       metrics,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		clock:         clock,
	}
}

// Publish enqueues ev. It has the Listener signature so it can be registered
// on the session store directly.
func (p *Publisher) Publish(ev domain.SelectionEvent) {
	select {
	case p.events <- ev:
	default:
		p.metrics.EventsDropped.Inc()
		p.logger.Warn("selection event dropped, publish buffer full",
			"session_id", ev.SessionID, "action", ev.Action)
	}
}

// CheckReadiness returns nil while the publish loop is running.
func (p *Publisher) CheckReadiness(_ context.Context) error {
	if !p.running.Load() {
		return errors.New("selection publisher is not running")
	}
	return nil
}

// Run executes the batch publish loop until the context is cancelled. Events
// still buffered at shutdown get one final flush attempt.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("selection publisher started", "batch_size", p.batchSize, "flush_interval", p.flushInterval)
	p.running.Store(true)
	p.metrics.PublisherRunning.Set(1)
	defer func() {
		p.running.Store(false)
		p.metrics.PublisherRunning.Set(0)
	}()

	ticker := p.clock.NewTicker(p.flushInterval)
	defer ticker.Stop()

	batch := make([]domain.SelectionEvent, 0, p.batchSize)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("selection publisher stopping", "reason", ctx.Err())
			p.finalFlush(ctx, p.drain(batch))
			return nil
		case ev := <-p.events:
			batch = append(batch, ev)
			if len(batch) < p.batchSize {
				continue
			}
		case <-ticker.Chan():
			if len(batch) == 0 {
				continue
			}
		}

		if !p.flush(ctx, batch) {
			p.finalFlush(ctx, p.drain(batch))
			return nil
		}
		batch = batch[:0]
	}
}

// flush serializes and loads one batch, retrying with exponential backoff
// until it succeeds. Returns false if the context ended first.
func (p *Publisher) flush(ctx context.Context, batch []domain.SelectionEvent) bool {
	out := p.serialize(batch)
	if len(out) == 0 {
		return true
	}

	load := func() error { return p.loader.LoadBatch(ctx, out) }
	notify := func(err error, next time.Duration) {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish batch failed", "error", err, "batch_size", len(out), "retry_in", next)
	}
	if err := backoff.RetryNotifyWithTimer(load, backoff.WithContext(p.retryPolicy(), ctx), notify, &clockTimer{clock: p.clock}); err != nil {
		return false
	}
	p.metrics.EventsPublished.Add(float64(len(out)))
	p.metrics.BatchSize.Observe(float64(len(out)))
	return true
}

// retryPolicy doubles from initialBackoff up to maxBackoff and never gives up
// on its own; only the context ends a retry loop.
func (p *Publisher) retryPolicy() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initialBackoff
	b.MaxInterval = maxBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Clock = p.clock
	b.Reset()
	return b
}

func (p *Publisher) serialize(batch []domain.SelectionEvent) []domain.OutputEvent {
	out := make([]domain.OutputEvent, 0, len(batch))
	for _, ev := range batch {
		msg, err := domain.SerializeSelectionEvent(ev)
		if err != nil {
			p.logger.Warn("serialize failed, skipping event", "error", err, "event_id", ev.ID)
			p.metrics.PublishErrors.Inc()
			continue
		}
		out = append(out, msg)
	}
	return out
}

// drain appends whatever is still buffered without blocking.
func (p *Publisher) drain(batch []domain.SelectionEvent) []domain.SelectionEvent {
	for {
		select {
		case ev := <-p.events:
			batch = append(batch, ev)
		default:
			return batch
		}
	}
}

func (p *Publisher) finalFlush(ctx context.Context, batch []domain.SelectionEvent) {
	out := p.serialize(batch)
	if len(out) == 0 {
		return
	}
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), maxBackoff)
	defer cancel()
	if err := p.loader.LoadBatch(flushCtx, out); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("final flush failed, events lost", "error", err, "batch_size", len(out))
		return
	}
	p.metrics.EventsPublished.Add(float64(len(out)))
}

// LogLoader is the BatchLoader used when no broker is configured: it writes
// each event to the log.
type LogLoader struct {
	logger *slog.Logger
}

// NewLogLoader creates a LogLoader.
func NewLogLoader(logger *slog.Logger) *LogLoader {
	return &LogLoader{logger: logger}
}

// LoadBatch logs every event in the batch.
func (l *LogLoader) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	for _, ev := range events {
		l.logger.InfoContext(ctx, "selection event",
			"session_id", string(ev.Key),
			"action", ev.Headers["event_action"],
			"module", ev.Headers["module"],
			"payload", string(ev.Value),
		)
	}
	return nil
}

// clockTimer drives backoff waits from a clockwork clock.
type clockTimer struct {
	clock clockwork.Clock
	timer clockwork.Timer
}

func (t *clockTimer) Start(d time.Duration) {
	if t.timer == nil {
		t.timer = t.clock.NewTimer(d)
		return
	}
	t.timer.Reset(d)
}

func (t *clockTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *clockTimer) C() <-chan time.Time {
	return t.timer.Chan()
}
