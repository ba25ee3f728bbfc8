package tx

import (
	"github.com/axiomhq/hyperloglog"
	"github.com/shopspring/decimal"
	"github.com/stxrain/go-stx-rain/entities"
	"github.com/stxrain/go-stx-rain/util"
)

// RunningTotals holds the monotonic counters and the most recent transactions.
type RunningTotals struct {
	count   uint64
	volume  decimal.Decimal
	senders *hyperloglog.Sketch
	recent  *util.Ring[entities.Transaction]
}

func NewRunningTotals(recentSize int) *RunningTotals {
	return &RunningTotals{
		senders: hyperloglog.New14(),
		recent:  util.NewRing[entities.Transaction](recentSize),
	}
}

func (rt *RunningTotals) Add(tx entities.Transaction) {
	rt.count++
	rt.volume = rt.volume.Add(decimal.NewFromUint64(tx.Amount))
	if tx.Sender != "" {
		rt.senders.Insert([]byte(tx.Sender))
	}
	rt.recent.Push(tx)
}

// Restore seeds the counters from a previous run. Only ever raises them.
func (rt *RunningTotals) Restore(totals entities.Totals) {
	rt.count = max(rt.count, totals.Count)
	rt.volume = decimal.Max(rt.volume, totals.Volume)
}

func (rt *RunningTotals) Totals() entities.Totals {
	return entities.Totals{
		Count:         rt.count,
		Volume:        rt.volume,
		UniqueSenders: rt.senders.Estimate(),
	}
}

// Recent returns the latest transactions, most recent first.
func (rt *RunningTotals) Recent() []entities.Transaction {
	return rt.recent.Newest()
}
