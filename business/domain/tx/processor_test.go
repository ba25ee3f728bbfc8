package tx

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stxrain/go-stx-rain/entities"
	"go.uber.org/zap"
	"testing"
	"time"
)

var ErrMock = errors.New("mock error")

type MockFetcher struct {
	records          []entities.HiroTx
	height           uint64
	shouldError      bool
	blockShouldError bool
	delay            time.Duration
}

func (mf *MockFetcher) GetTransactions(ctx context.Context) ([]entities.HiroTx, error) {
	if mf.delay > 0 {
		select {
		case <-time.After(mf.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if mf.shouldError {
		return nil, ErrMock
	}

	return mf.records, nil
}

func (mf *MockFetcher) GetLatestBlockHeight(_ context.Context) (uint64, error) {
	if mf.blockShouldError {
		return 0, ErrMock
	}

	return mf.height, nil
}

func newTestProcessor(t *testing.T, fetcher Fetcher, timeout time.Duration) *Processor {
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	return NewProcessor(fetcher, timeout, logger.Sugar())
}

func TestProcessor_FetchBatch_givenRecords_thenBatchWithHeight(t *testing.T) {
	fetcher := MockFetcher{
		records: []entities.HiroTx{{TxID: "a", TxType: "token_transfer"}, {TxID: "b", TxType: "coinbase"}},
		height:  180000,
	}
	processor := newTestProcessor(t, &fetcher, time.Second)

	batch := processor.FetchBatch(context.Background())

	require.NoError(t, batch.Err)
	assert.Len(t, batch.Records, 2)
	require.NotNil(t, batch.BlockHeight)
	assert.Equal(t, uint64(180000), *batch.BlockHeight)
	assert.False(t, batch.FetchedAt.IsZero())
	assert.False(t, batch.StartedAt.After(batch.FetchedAt))
}

func TestProcessor_FetchBatch_givenTransactionError_thenEmptyBatch(t *testing.T) {
	processor := newTestProcessor(t, &MockFetcher{shouldError: true}, time.Second)

	batch := processor.FetchBatch(context.Background())

	assert.ErrorIs(t, batch.Err, ErrMock)
	assert.Empty(t, batch.Records)
	assert.Nil(t, batch.BlockHeight)
}

func TestProcessor_FetchBatch_givenBlockError_thenRecordsWithoutHeight(t *testing.T) {
	fetcher := MockFetcher{
		records:          []entities.HiroTx{{TxID: "a"}},
		blockShouldError: true,
	}
	processor := newTestProcessor(t, &fetcher, time.Second)

	batch := processor.FetchBatch(context.Background())

	require.NoError(t, batch.Err)
	assert.Len(t, batch.Records, 1)
	assert.Nil(t, batch.BlockHeight)
}

func TestProcessor_FetchBatch_givenTimeout_thenEmptyBatch(t *testing.T) {
	fetcher := MockFetcher{
		records: []entities.HiroTx{{TxID: "a"}},
		delay:   time.Second,
	}
	processor := newTestProcessor(t, &fetcher, 10*time.Millisecond)

	batch := processor.FetchBatch(context.Background())

	assert.ErrorIs(t, batch.Err, context.DeadlineExceeded)
	assert.Empty(t, batch.Records)
}
