package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/modela/identity-gateway/internal/core/domain"
	"github.com/modela/identity-gateway/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Sink persists or forwards a single audit event.
type Sink interface {
	Write(ctx context.Context, event domain.AuditEvent) error
}

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the client key, so events of one browser are handled in order.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	sink    Sink
	log     zerolog.Logger
	onDrop  func(domain.AuditEvent)

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ ports.AuditSink = (*Dispatcher)(nil)

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithDropHandler is called for every event discarded because its worker's
// channel was full or the dispatcher was closed.
func WithDropHandler(fn func(domain.AuditEvent)) Option {
	return func(d *Dispatcher) { d.onDrop = fn }
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to buffer events. Non-positive values fall back to defaults.
func NewDispatcher(numWorkers, buffer int, sink Sink, log zerolog.Logger, opts ...Option) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		sink:    sink,
		log:     log,
		onDrop:  func(domain.AuditEvent) {},
	}
	for _, opt := range opts {
		opt(d)
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Close once their channel is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues event without blocking. When the worker is saturated the
// event is dropped rather than stalling the request.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.onDrop(event)
		return
	}
	select {
	case d.workers[d.shardIndex(event.ClientKey)] <- event:
	default:
		d.log.Warn().Str("type", event.Type).Str("client_key", event.ClientKey).Msg("audit queue full, dropping event")
		d.onDrop(event)
	}
}

// Close stops accepting events and waits for the workers to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a client key deterministically to a worker index.
func (d *Dispatcher) shardIndex(clientKey string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientKey))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.Write(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("type", event.Type).
					Str("client_key", event.ClientKey).
					Int("worker_id", id).
					Msg("audit event write failed")
			}
		}
	}
}
