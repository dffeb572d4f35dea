package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eventhub/internal/domain"
	"eventhub/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const notificationSendTimeout = 30 * time.Second

// Dispatcher delivers registration confirmations on a fixed pool of workers
// fed by a bounded queue. Enqueue never blocks; a full queue drops the notice.
type Dispatcher struct {
	emails domain.EmailService
	logger *slog.Logger
	queue  chan *domain.RegistrationConfirmationEmailData
	group  errgroup.Group

	mu     sync.RWMutex
	closed bool

	// pending counts accepted notices not yet handled; idle fires when it hits zero.
	pendingMu sync.Mutex
	idle      *sync.Cond
	pending   int
}

var _ domain.Notifier = (*Dispatcher)(nil)

// NewDispatcher starts workers goroutines reading from a queue of queueSize.
func NewDispatcher(emails domain.EmailService, logger *slog.Logger, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	d := &Dispatcher{
		emails: emails,
		logger: logger,
		queue:  make(chan *domain.RegistrationConfirmationEmailData, queueSize),
	}
	d.idle = sync.NewCond(&d.pendingMu)
	for range workers {
		d.group.Go(d.work)
	}
	return d
}

// Enqueue hands data to a worker without waiting.
func (d *Dispatcher) Enqueue(data *domain.RegistrationConfirmationEmailData) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(data, "dispatcher stopped")
		return
	}
	d.addPending(1)
	select {
	case d.queue <- data:
		metrics.NotificationQueueDepth.Inc()
	default:
		d.addPending(-1)
		d.drop(data, "queue full")
	}
}

func (d *Dispatcher) addPending(delta int) {
	d.pendingMu.Lock()
	d.pending += delta
	if d.pending == 0 {
		d.idle.Broadcast()
	}
	d.pendingMu.Unlock()
}

func (d *Dispatcher) drop(data *domain.RegistrationConfirmationEmailData, reason string) {
	metrics.NotificationsTotal.WithLabelValues(metrics.NotificationDropped).Inc()
	d.logger.Warn("registration confirmation dropped", "reason", reason, "to", data.Email, "event", data.EventName)
}

func (d *Dispatcher) work() error {
	for data := range d.queue {
		metrics.NotificationQueueDepth.Dec()
		d.send(data)
		d.addPending(-1)
	}
	return nil
}

func (d *Dispatcher) send(data *domain.RegistrationConfirmationEmailData) {
	ctx, cancel := context.WithTimeout(context.Background(), notificationSendTimeout)
	defer cancel()
	if err := d.emails.SendRegistrationConfirmation(ctx, data); err != nil {
		metrics.NotificationsTotal.WithLabelValues(metrics.NotificationFailed).Inc()
		d.logger.Error("registration confirmation failed", "to", data.Email, "event", data.EventName, "err", err)
		return
	}
	metrics.NotificationsTotal.WithLabelValues(metrics.NotificationSent).Inc()
}

// Drain blocks until every accepted notice has been handled. Notices
// enqueued while Drain waits are waited for too.
func (d *Dispatcher) Drain() {
	d.pendingMu.Lock()
	for d.pending > 0 {
		d.idle.Wait()
	}
	d.pendingMu.Unlock()
}

// Shutdown stops accepting notices and waits for the workers to finish the
// queue, or for ctx to end.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- d.group.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
