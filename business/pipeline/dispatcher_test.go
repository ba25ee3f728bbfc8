package pipeline

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stxrain/go-stx-rain/entities"
	"go.uber.org/zap"
	"sync"
	"testing"
	"time"
)

type MockPublisher struct {
	mu          sync.Mutex
	published   []entities.PollUpdate
	shouldError bool
}

func (mp *MockPublisher) PublishPoll(_ context.Context, update entities.PollUpdate) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.shouldError {
		return ErrMock
	}

	mp.published = append(mp.published, update)
	return nil
}

func (mp *MockPublisher) Published() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return len(mp.published)
}

func newTestDispatcher(t *testing.T, queueSize int) *Dispatcher {
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	return NewDispatcher(queueSize, time.Second, testMetrics, logger.Sugar())
}

func TestDispatcher_Run_givenPublishers_thenAllReceiveUpdates(t *testing.T) {
	dispatcher := newTestDispatcher(t, 10)
	first := &MockPublisher{}
	failing := &MockPublisher{shouldError: true}
	last := &MockPublisher{}
	dispatcher.Register("first", first)
	dispatcher.Register("failing", failing)
	dispatcher.Register("last", last)
	assert.Equal(t, 3, dispatcher.Len())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	dispatcher.PublishPoll(entities.PollUpdate{Transactions: []entities.Transaction{{ID: "a"}}})
	dispatcher.PublishPoll(entities.PollUpdate{})

	require.Eventually(t, func() bool { return last.Published() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, first.Published())
	assert.Zero(t, failing.Published())
}

func TestDispatcher_PublishPoll_givenFullQueue_thenDropsWithoutBlocking(t *testing.T) {
	dispatcher := newTestDispatcher(t, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			dispatcher.PublishPoll(entities.PollUpdate{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PublishPoll blocked")
	}
	assert.Len(t, dispatcher.queue, 1)
}

func TestPublisherFunc_PublishPoll_thenCallsFunction(t *testing.T) {
	var got entities.PollUpdate
	f := PublisherFunc(func(_ context.Context, update entities.PollUpdate) error {
		got = update
		return nil
	})

	require.NoError(t, f.PublishPoll(context.Background(), entities.PollUpdate{Error: "x"}))
	assert.Equal(t, "x", got.Error)
}
