package kafka

import (
	"context"
	"encoding/json"
	"github.com/pkg/errors"
	"github.com/stxrain/go-stx-rain/entities"
	"github.com/twmb/franz-go/pkg/kgo"
	"sync"
)

type KafkaClient interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

type Client struct {
	kcl KafkaClient
}

func NewClient(kafkaClient KafkaClient) *Client {
	return &Client{
		kcl: kafkaClient,
	}
}

// PublishPoll publishes the newly admitted transactions of a poll, one record each.
func (kc *Client) PublishPoll(ctx context.Context, update entities.PollUpdate) error {
	if len(update.Transactions) == 0 {
		return nil
	}
	return kc.PublishTransactions(ctx, update.Transactions)
}

func (kc *Client) PublishTransactions(ctx context.Context, txs []entities.Transaction) error {
	wg := sync.WaitGroup{}
	errorChannel := make(chan error, len(txs))

	for _, tx := range txs {
		record, err := createTxRecord(tx)
		if err != nil {
			errorChannel <- err
			continue
		}

		wg.Add(1)
		kc.kcl.Produce(ctx, record, func(_ *kgo.Record, err error) {
			defer wg.Done()
			errorChannel <- err
		})
	}

	wg.Wait()
	close(errorChannel)

	failed := 0
	var firstErr error
	for err := range errorChannel {
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if failed > 0 {
		return errors.Wrapf(firstErr, "producing %d of %d transaction records", failed, len(txs))
	}

	return nil
}

func createTxRecord(tx entities.Transaction) (*kgo.Record, error) {
	payload, err := json.Marshal(tx)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling transaction to json")
	}

	return &kgo.Record{
		Key:   []byte(tx.ID),
		Value: payload,
	}, nil
}
