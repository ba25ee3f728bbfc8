package pipeline

import (
	"context"
	"github.com/stxrain/go-stx-rain/entities"
	"github.com/stxrain/go-stx-rain/metrics"
	"go.uber.org/zap"
	"time"
)

type Publisher interface {
	PublishPoll(ctx context.Context, update entities.PollUpdate) error
}

type PublisherFunc func(ctx context.Context, update entities.PollUpdate) error

func (f PublisherFunc) PublishPoll(ctx context.Context, update entities.PollUpdate) error {
	return f(ctx, update)
}

type namedPublisher struct {
	name      string
	publisher Publisher
}

// Dispatcher hands poll updates to slow publishers outside the loop goroutine.
// Updates are dropped when the queue is full.
type Dispatcher struct {
	queue      chan entities.PollUpdate
	timeout    time.Duration
	publishers []namedPublisher
	metrics    *metrics.Metrics
	logger     *zap.SugaredLogger
}

func NewDispatcher(queueSize int, timeout time.Duration, m *metrics.Metrics, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		queue:   make(chan entities.PollUpdate, queueSize),
		timeout: timeout,
		metrics: m,
		logger:  logger,
	}
}

// Register must be called before Run.
func (d *Dispatcher) Register(name string, publisher Publisher) {
	d.publishers = append(d.publishers, namedPublisher{name: name, publisher: publisher})
}

func (d *Dispatcher) Len() int {
	return len(d.publishers)
}

func (d *Dispatcher) PublishPoll(update entities.PollUpdate) {
	select {
	case d.queue <- update:
	default:
		d.metrics.IncDroppedUpdates()
		d.logger.Warnw("Dispatch queue full, dropping poll update", "transactions", len(update.Transactions))
	}
}

func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-d.queue:
			d.dispatch(ctx, update)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, update entities.PollUpdate) {
	for _, p := range d.publishers {
		err := func() error {
			ctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()
			return p.publisher.PublishPoll(ctx, update)
		}()
		if err != nil {
			d.metrics.IncDispatchErrors(p.name)
			d.logger.Errorw("error publishing poll update", "publisher", p.name, "error", err)
		}
	}
}
