package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stxrain/go-stx-rain/entities"
	"github.com/twmb/franz-go/pkg/kgo"
	"sync"
	"testing"
)

type MockKafkaClient struct {
	mu          sync.Mutex
	records     []*kgo.Record
	shouldError bool
}

func (mkc *MockKafkaClient) Produce(_ context.Context, r *kgo.Record, promise func(*kgo.Record, error)) {
	if mkc.shouldError {
		go promise(nil, errors.New("dummy error"))
		return
	}

	mkc.mu.Lock()
	mkc.records = append(mkc.records, r)
	mkc.mu.Unlock()
	go promise(r, nil)
}

func testTransactions() []entities.Transaction {
	height := uint64(180512)
	return []entities.Transaction{
		{
			ID:          "0x5e7f3c1d9a0b2c4e6f8a1b3c5d7e9f0a2b4c6d8e0f1a3b5c7d9e1f2a4b6c8d0e",
			Kind:        entities.KindTransfer,
			Amount:      2_500_000,
			Sender:      "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7",
			BlockHeight: &height,
			Status:      "success",
		},
		{
			ID:     "0x9c1a3e5b7d9f1a3c5e7b9d1f3a5c7e9b1d3f5a7c9e1b3d5f7a9c1e3b5d7f9a1c",
			Kind:   entities.KindContractCall,
			Sender: "SP3FBR2AGK5H9QBDH3EEN6DF8EK8JY7RX8QJ5SVTE",
			Status: "pending",
		},
	}
}

func TestClient_PublishTransactions(t *testing.T) {
	testData := []struct {
		name        string
		txs         []entities.Transaction
		shouldError bool
	}{
		{
			name:        "TestPublishTransactions_1",
			txs:         testTransactions(),
			shouldError: false,
		},
		{
			name:        "TestPublishTransactions_2",
			txs:         testTransactions(),
			shouldError: true,
		},
	}

	for _, testRun := range testData {
		t.Run(testRun.name, func(t *testing.T) {
			kc := NewClient(&MockKafkaClient{
				shouldError: testRun.shouldError,
			})

			err := kc.PublishTransactions(context.Background(), testRun.txs)

			if testRun.shouldError {
				assert.Error(t, err)
				t.Logf("Err: %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClient_PublishPoll_thenRecordPerTransactionKeyedById(t *testing.T) {
	mock := &MockKafkaClient{}
	kc := NewClient(mock)

	err := kc.PublishPoll(context.Background(), entities.PollUpdate{Transactions: testTransactions()})
	require.NoError(t, err)

	require.Len(t, mock.records, 2)
	keys := []string{string(mock.records[0].Key), string(mock.records[1].Key)}
	assert.ElementsMatch(t, []string{testTransactions()[0].ID, testTransactions()[1].ID}, keys)

	var decoded entities.Transaction
	require.NoError(t, json.Unmarshal(mock.records[0].Value, &decoded))
	assert.Equal(t, testTransactions()[0].ID, decoded.ID)
}

func TestClient_PublishPoll_givenNoNewTransactions_thenNothingProduced(t *testing.T) {
	mock := &MockKafkaClient{shouldError: true}
	kc := NewClient(mock)

	err := kc.PublishPoll(context.Background(), entities.PollUpdate{})

	assert.NoError(t, err)
	assert.Empty(t, mock.records)
}
