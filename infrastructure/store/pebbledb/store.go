package pebbledb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"github.com/cockroachdb/pebble"
	"github.com/shopspring/decimal"
	"github.com/stxrain/go-stx-rain/entities"
	"path/filepath"
)

const (
	totalsKey      = 0x00
	blockHeightKey = 0x01
)

type Store struct {
	db *pebble.DB
}

func NewStore(storeDir string) (*Store, error) {
	db, err := pebble.Open(filepath.Join(storeDir, "stx-rain-status"), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening pebble db: %v", err)
	}

	return &Store{db: db}, nil
}

// SetStatus writes totals and block height in one synced batch.
func (ps *Store) SetStatus(status entities.Status) error {
	batch := ps.db.NewBatch()
	defer batch.Close()

	// count as 8 bytes followed by the volume in decimal text, which has no upper bound
	var totals []byte
	totals = binary.BigEndian.AppendUint64(totals, status.Count)
	totals = append(totals, status.Volume.String()...)
	err := batch.Set([]byte{totalsKey}, totals, nil)
	if err != nil {
		return fmt.Errorf("setting totals: %v", err)
	}

	if status.BlockHeight != nil {
		var height []byte
		height = binary.BigEndian.AppendUint64(height, *status.BlockHeight)
		err = batch.Set([]byte{blockHeightKey}, height, nil)
		if err != nil {
			return fmt.Errorf("setting block height: %v", err)
		}
	}

	err = batch.Commit(pebble.Sync)
	if err != nil {
		return fmt.Errorf("committing status: %v", err)
	}

	return nil
}

func (ps *Store) GetStatus() (entities.Status, error) {
	value, closer, err := ps.db.Get([]byte{totalsKey})
	if errors.Is(err, pebble.ErrNotFound) {
		return entities.Status{}, entities.ErrStoreEntityNotFound
	}
	if err != nil {
		return entities.Status{}, fmt.Errorf("getting totals: %v", err)
	}
	if len(value) <= 8 {
		closer.Close()
		return entities.Status{}, fmt.Errorf("invalid totals value length [%d]", len(value))
	}
	volume, err := decimal.NewFromString(string(value[8:]))
	if err != nil {
		closer.Close()
		return entities.Status{}, fmt.Errorf("parsing stored volume: %v", err)
	}
	status := entities.Status{
		Count:  binary.BigEndian.Uint64(value[:8]),
		Volume: volume,
	}
	closer.Close()

	value, closer, err = ps.db.Get([]byte{blockHeightKey})
	if errors.Is(err, pebble.ErrNotFound) {
		return status, nil
	}
	if err != nil {
		return entities.Status{}, fmt.Errorf("getting block height: %v", err)
	}
	defer closer.Close()

	height := binary.BigEndian.Uint64(value)
	status.BlockHeight = &height

	return status, nil
}

// PublishPoll persists the running totals carried by a poll update.
func (ps *Store) PublishPoll(_ context.Context, update entities.PollUpdate) error {
	return ps.SetStatus(entities.Status{
		Count:       update.Totals.Count,
		Volume:      update.Totals.Volume,
		BlockHeight: update.BlockHeight,
	})
}

func (ps *Store) Close() error {
	return ps.db.Close()
}
