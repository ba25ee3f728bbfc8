package tx

import (
	"context"
	"github.com/stxrain/go-stx-rain/entities"
	"go.uber.org/zap"
	"time"
)

type Fetcher interface {
	GetTransactions(ctx context.Context) ([]entities.HiroTx, error)
	GetLatestBlockHeight(ctx context.Context) (uint64, error)
}

// Batch is the result of one poll. On failure Err is set and Records is empty.
// StartedAt orders batches whose fetches overlapped.
type Batch struct {
	Records     []entities.HiroTx
	BlockHeight *uint64
	Err         error
	StartedAt   time.Time
	FetchedAt   time.Time
}

type Processor struct {
	fetcher      Fetcher
	fetchTimeout time.Duration
	logger       *zap.SugaredLogger
}

func NewProcessor(fetcher Fetcher, fetchTimeout time.Duration, logger *zap.SugaredLogger) *Processor {
	return &Processor{
		fetcher:      fetcher,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// FetchBatch pulls the latest transactions and block height. It never returns an
// error: upstream failures degrade to an empty batch carrying the cause.
func (p *Processor) FetchBatch(ctx context.Context) Batch {
	started := time.Now()
	records, err := func() ([]entities.HiroTx, error) {
		ctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()
		return p.fetcher.GetTransactions(ctx)
	}()
	if err != nil {
		p.logger.Errorw("error fetching transactions", "error", err)
		return Batch{Err: err, StartedAt: started, FetchedAt: time.Now()}
	}

	batch := Batch{Records: records, StartedAt: started, FetchedAt: time.Now()}

	height, err := func() (uint64, error) {
		ctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()
		return p.fetcher.GetLatestBlockHeight(ctx)
	}()
	if err != nil {
		p.logger.Warnw("error fetching latest block height", "error", err)
		return batch
	}

	batch.BlockHeight = &height
	return batch
}
