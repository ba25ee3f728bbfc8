package pipeline

import (
	"context"
	"github.com/stxrain/go-stx-rain/business/domain/sim"
	"github.com/stxrain/go-stx-rain/business/domain/tx"
	"github.com/stxrain/go-stx-rain/entities"
	"github.com/stxrain/go-stx-rain/metrics"
	"go.uber.org/zap"
	"time"
)

type BatchFetcher interface {
	FetchBatch(ctx context.Context) tx.Batch
}

// PollSink and FrameSink must not block, they are called from the loop goroutine.
type PollSink interface {
	PublishPoll(update entities.PollUpdate)
}

type FrameSink interface {
	PublishFrame(frame sim.Frame)
}

type Config struct {
	PollInterval    time.Duration
	FrameInterval   time.Duration
	CompactInterval time.Duration
	AmbientInterval time.Duration // 0 disables background entities
	FrameEvery      int           // publish every n-th frame, 0 disables
}

// Loop is the only goroutine touching State. Polls, frames, compactions and reads
// are serialized through its select loop, each handler runs to completion.
type Loop struct {
	state      *State
	fetcher    BatchFetcher
	cfg        Config
	metrics    *metrics.Metrics
	logger     *zap.SugaredLogger
	pollSinks  []PollSink
	frameSinks []FrameSink
	results    chan tx.Batch
	queries    chan func(*State)
	frames     uint64
}

func NewLoop(state *State, fetcher BatchFetcher, cfg Config, m *metrics.Metrics, logger *zap.SugaredLogger) *Loop {
	return &Loop{
		state:   state,
		fetcher: fetcher,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		results: make(chan tx.Batch, 4),
		queries: make(chan func(*State)),
	}
}

// AddPollSink and AddFrameSink must be called before Run.
func (l *Loop) AddPollSink(sink PollSink) {
	l.pollSinks = append(l.pollSinks, sink)
}

func (l *Loop) AddFrameSink(sink FrameSink) {
	l.frameSinks = append(l.frameSinks, sink)
}

func (l *Loop) Run(ctx context.Context) error {
	l.logger.Infow("Starting pipeline loop", "pollInterval", l.cfg.PollInterval, "frameInterval", l.cfg.FrameInterval)

	pollC, stopPoll := ticker(l.cfg.PollInterval)
	defer stopPoll()
	frameC, stopFrame := ticker(l.cfg.FrameInterval)
	defer stopFrame()
	compactC, stopCompact := ticker(l.cfg.CompactInterval)
	defer stopCompact()
	ambientC, stopAmbient := ticker(l.cfg.AmbientInterval)
	defer stopAmbient()

	l.startPoll(ctx)

	for {
		select {
		case <-ctx.Done():
			l.logger.Infow("Stopping pipeline loop")
			return nil
		case <-pollC:
			l.startPoll(ctx)
		case batch := <-l.results:
			l.handleBatch(batch)
		case <-frameC:
			l.handleFrame()
		case <-compactC:
			l.handleCompaction()
		case <-ambientC:
			l.state.SpawnAmbient()
		case query := <-l.queries:
			query(l.state)
		}
	}
}

// Snapshot is safe to call from any goroutine while Run is active.
func (l *Loop) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	err := l.query(ctx, func(s *State) {
		reply <- s.Snapshot()
	})
	if err != nil {
		return Snapshot{}, err
	}
	return receive(ctx, reply)
}

// Frame returns the current live entities. Safe to call from any goroutine while Run is active.
func (l *Loop) Frame(ctx context.Context) (sim.Frame, error) {
	reply := make(chan sim.Frame, 1)
	err := l.query(ctx, func(s *State) {
		reply <- s.Frame()
	})
	if err != nil {
		return sim.Frame{}, err
	}
	return receive(ctx, reply)
}

// startPoll fetches in the background. Ticks are independent: a slow fetch does
// not delay the next tick or any frame.
func (l *Loop) startPoll(ctx context.Context) {
	go func() {
		batch := l.fetcher.FetchBatch(ctx)
		select {
		case l.results <- batch:
		case <-ctx.Done():
		}
	}()
}

func (l *Loop) handleBatch(batch tx.Batch) {
	l.metrics.IncPolls()
	if batch.Err != nil {
		l.metrics.IncPollErrors()
	}

	update, result := l.state.ApplyBatch(batch)

	l.metrics.AddAdmitted(len(result.Admitted), result.Duplicates, result.Invalid)
	l.metrics.SetDedupSize(l.state.DedupSize())
	if update.BlockHeight != nil {
		l.metrics.SetBlockHeight(*update.BlockHeight)
	}
	if len(result.Admitted) > 0 {
		l.logger.Infow("Admitted transactions", "count", len(result.Admitted), "duplicates", result.Duplicates, "total", update.Totals.Count)
	}

	for _, sink := range l.pollSinks {
		sink.PublishPoll(update)
	}
}

func (l *Loop) handleFrame() {
	l.state.Step()
	l.frames++

	all, mists := l.state.LiveEntities()
	l.metrics.SetLiveEntities(all, mists)

	if len(l.frameSinks) == 0 || l.cfg.FrameEvery <= 0 || l.frames%uint64(l.cfg.FrameEvery) != 0 {
		return
	}
	frame := l.state.Frame()
	for _, sink := range l.frameSinks {
		sink.PublishFrame(frame)
	}
}

func (l *Loop) handleCompaction() {
	evicted := l.state.Compact()
	l.metrics.AddEvicted(evicted)
	l.metrics.SetDedupSize(l.state.DedupSize())
	if evicted > 0 {
		l.logger.Infow("Compacted dedup window", "evicted", evicted, "size", l.state.DedupSize())
	}
}

func (l *Loop) query(ctx context.Context, q func(*State)) error {
	select {
	case l.queries <- q:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func receive[T any](ctx context.Context, reply <-chan T) (T, error) {
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// ticker returns a nil channel for non-positive intervals, which never fires.
func ticker(d time.Duration) (<-chan time.Time, func()) {
	if d <= 0 {
		return nil, func() {}
	}
	t := time.NewTicker(d)
	return t.C, t.Stop
}
