package pipeline

import (
	"github.com/stxrain/go-stx-rain/business/domain/sim"
	"github.com/stxrain/go-stx-rain/business/domain/tx"
	"github.com/stxrain/go-stx-rain/entities"
	"time"
)

// State is everything the pipeline mutates. It is owned by a single goroutine.
type State struct {
	ledger      *tx.Ledger
	world       *sim.World
	spawner     *sim.Spawner
	blockHeight *uint64
	lastError   string
	lastPoll    time.Time
	// start time of the newest applied batch, success or failure
	latestStart time.Time
}

type Snapshot struct {
	Recent       []entities.Transaction `json:"transactions"`
	BlockHeight  *uint64                `json:"block"`
	Totals       entities.Totals        `json:"totals"`
	LastError    string                 `json:"error,omitempty"`
	LastPoll     time.Time              `json:"lastPoll"`
	DedupSize    int                    `json:"dedupSize"`
	LiveEntities int                    `json:"liveEntities"`
}

func NewState(ledger *tx.Ledger, world *sim.World, spawner *sim.Spawner) *State {
	return &State{ledger: ledger, world: world, spawner: spawner}
}

// ApplyBatch admits the new transactions of a poll and spawns their entities in batch order.
// A failed batch changes nothing but the reported error. Batches may arrive out of
// order: the block height only moves forward and the reported error follows the
// most recently started poll.
func (s *State) ApplyBatch(batch tx.Batch) (entities.PollUpdate, tx.AdmitResult) {
	if batch.FetchedAt.After(s.lastPoll) {
		s.lastPoll = batch.FetchedAt
	}
	newest := !batch.StartedAt.Before(s.latestStart)
	if newest {
		s.latestStart = batch.StartedAt
	}

	if batch.Err != nil {
		if newest {
			s.lastError = batch.Err.Error()
		}
		return s.pollUpdate(nil), tx.AdmitResult{}
	}

	if newest {
		s.lastError = ""
	}
	if batch.BlockHeight != nil && (s.blockHeight == nil || *batch.BlockHeight > *s.blockHeight) {
		height := *batch.BlockHeight
		s.blockHeight = &height
	}

	result := s.ledger.Admit(batch.Records)
	for _, t := range result.Admitted {
		s.world.Add(s.spawner.Spawn(t)...)
	}

	return s.pollUpdate(result.Admitted), result
}

func (s *State) Step() sim.StepStats {
	return s.world.Advance()
}

func (s *State) SpawnAmbient() bool {
	return s.world.AddAmbient(s.spawner.Ambient())
}

func (s *State) Compact() int {
	return s.ledger.Compact()
}

func (s *State) Frame() sim.Frame {
	return s.world.Frame()
}

func (s *State) Restore(status entities.Status) {
	s.ledger.Restore(entities.Totals{Count: status.Count, Volume: status.Volume})
	if status.BlockHeight != nil && s.blockHeight == nil {
		height := *status.BlockHeight
		s.blockHeight = &height
	}
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Recent:       s.ledger.Recent(),
		BlockHeight:  s.copyBlockHeight(),
		Totals:       s.ledger.Totals(),
		LastError:    s.lastError,
		LastPoll:     s.lastPoll,
		DedupSize:    s.ledger.WindowSize(),
		LiveEntities: s.world.Len(),
	}
}

func (s *State) DedupSize() int {
	return s.ledger.WindowSize()
}

func (s *State) LiveEntities() (all, mists int) {
	return s.world.Len(), s.world.MistCount()
}

func (s *State) pollUpdate(admitted []entities.Transaction) entities.PollUpdate {
	if admitted == nil {
		admitted = []entities.Transaction{}
	}
	return entities.PollUpdate{
		Transactions: admitted,
		Recent:       s.ledger.Recent(),
		BlockHeight:  s.copyBlockHeight(),
		Totals:       s.ledger.Totals(),
		Error:        s.lastError,
		PolledAt:     s.lastPoll,
	}
}

func (s *State) copyBlockHeight() *uint64 {
	if s.blockHeight == nil {
		return nil
	}
	height := *s.blockHeight
	return &height
}
