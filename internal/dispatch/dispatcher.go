// Package dispatch detaches the render+send pipeline from the HTTP request
// lifecycle. The handler enqueues; a fixed pool of workers consumes the
// queue and talks to the delivery transport.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sungwon/invoice-notifier/internal/invoice"
	"github.com/sungwon/invoice-notifier/internal/mailer"
	"github.com/sungwon/invoice-notifier/internal/metrics"
	"github.com/sungwon/invoice-notifier/internal/render"
)

// ErrQueueFull is returned by Enqueue when the bounded queue cannot accept
// more work.
var ErrQueueFull = errors.New("dispatch queue full")

// ErrStopped is returned by Enqueue after the dispatcher has been stopped.
var ErrStopped = errors.New("dispatcher stopped")

// Config holds dispatcher pool settings.
type Config struct {
	WorkerCount     int
	QueueSize       int
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		WorkerCount:     5,
		QueueSize:       256,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Dispatcher runs the worker pool. Each worker renders the invoice document
// and hands it to the Mailer; outcomes are logged and counted, never
// surfaced to the HTTP caller.
type Dispatcher struct {
	mailer mailer.Mailer
	cfg    Config
	log    zerolog.Logger
	queue  chan *invoice.EmailRequest

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Dispatcher. Call Start before Enqueue.
func New(m mailer.Mailer, cfg Config, log zerolog.Logger) *Dispatcher {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultConfig().WorkerCount
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultConfig().ShutdownTimeout
	}

	return &Dispatcher{
		mailer: m,
		cfg:    cfg,
		log:    log.With().Str("component", "dispatch").Logger(),
		queue:  make(chan *invoice.EmailRequest, cfg.QueueSize),
	}
}

// Start launches the configured number of worker goroutines.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)

	for i := 0; i < d.cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i)
	}

	d.log.Info().
		Int("worker_count", d.cfg.WorkerCount).
		Int("queue_size", d.cfg.QueueSize).
		Msg("dispatcher started")
}

// Stop closes the queue and waits for the workers to drain it, up to the
// shutdown timeout. Every request answered with 202 before Stop gets its
// delivery attempt inside that window; only when the window expires is the
// remainder abandoned. Nothing here is durable.
func (d *Dispatcher) Stop(ctx context.Context) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.log.Info().Msg("dispatcher drained and stopped")
	case <-time.After(d.cfg.ShutdownTimeout):
		d.abandonQueued("dispatcher shutdown timed out")
	case <-ctx.Done():
		d.abandonQueued("dispatcher shutdown cancelled")
	}

	if d.cancel != nil {
		d.cancel()
	}
}

// abandonQueued cancels the workers and empties whatever the drain window
// left behind, keeping the queue depth gauge honest.
func (d *Dispatcher) abandonQueued(reason string) {
	if d.cancel != nil {
		d.cancel()
	}

	abandoned := 0
	for req := range d.queue {
		metrics.QueueDepth.Dec()
		abandoned++
		d.log.Error().
			Str("recipient", req.Customer.Email).
			Msg("queued invoice email abandoned at shutdown")
	}
	d.log.Warn().Int("abandoned", abandoned).Msg(reason)
}

// Enqueue schedules one validated request for background delivery. It never
// blocks: the HTTP response must be committed before delivery begins, so a
// full queue is an error rather than a wait.
func (d *Dispatcher) Enqueue(req *invoice.EmailRequest) error {
	// Held across the send so Stop cannot close the queue underneath it.
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queue <- req:
		metrics.QueueDepth.Inc()
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()

	log := d.log.With().Int("worker", id).Logger()
	log.Debug().Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("worker stopping")
			return
		case req, ok := <-d.queue:
			if !ok {
				log.Debug().Msg("queue drained, worker stopping")
				return
			}
			metrics.QueueDepth.Dec()
			d.process(ctx, log, req)
		}
	}
}

// process renders and sends one invoice email. Panics and failures are
// logged and swallowed; nothing may crash the serving process from here.
func (d *Dispatcher) process(ctx context.Context, log zerolog.Logger, req *invoice.EmailRequest) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("recipient", req.Customer.Email).
				Msg("panic while processing invoice email")
			metrics.EmailsDeliveredTotal.WithLabelValues("failed").Inc()
		}
	}()

	start := time.Now()

	html, err := render.HTML(req.Customer, req.Products, req.PDFBase64 != "")
	if err != nil {
		log.Error().Err(err).
			Str("recipient", req.Customer.Email).
			Msg("failed to render invoice email")
		metrics.EmailsDeliveredTotal.WithLabelValues("failed").Inc()
		return
	}

	out := d.mailer.Send(ctx, mailer.SendRequest{
		Recipient: req.Customer.Email,
		Subject:   render.Subject(req.Customer),
		HTMLBody:  html,
		PDFBase64: req.PDFBase64,
	})

	metrics.DeliveryDuration.Observe(time.Since(start).Seconds())

	if out.Success {
		log.Info().
			Str("recipient", out.Recipient).
			Str("message_id", out.MessageID).
			Dur("duration", time.Since(start)).
			Msg("invoice email delivered")
		metrics.EmailsDeliveredTotal.WithLabelValues("sent").Inc()
		return
	}

	// Terminal: no retry, no dead-letter sink. The log line is the only
	// trace of this failure.
	log.Error().
		Str("recipient", out.Recipient).
		Str("error", out.Err).
		Msg("invoice email delivery failed")
	metrics.EmailsDeliveredTotal.WithLabelValues("failed").Inc()
}
