package tx

import "github.com/stxrain/go-stx-rain/entities"

// Ledger admits upstream records exactly once and keeps the running totals.
type Ledger struct {
	window *DedupWindow
	totals *RunningTotals
}

type AdmitResult struct {
	Admitted   []entities.Transaction
	Duplicates int
	Invalid    int
}

func NewLedger(window *DedupWindow, totals *RunningTotals) *Ledger {
	return &Ledger{window: window, totals: totals}
}

// Admit normalizes the batch and returns the transactions not seen before, in batch order.
// Upstream ordering is not relied upon.
func (l *Ledger) Admit(records []entities.HiroTx) AdmitResult {
	var result AdmitResult

	for _, raw := range records {
		tx := Normalize(raw)
		if tx.ID == "" {
			result.Invalid++
			continue
		}
		if l.window.Seen(tx.ID) {
			result.Duplicates++
			continue
		}

		l.window.Record(tx.ID)
		l.totals.Add(tx)
		result.Admitted = append(result.Admitted, tx)
	}

	return result
}

func (l *Ledger) Compact() int {
	return l.window.Compact()
}

func (l *Ledger) WindowSize() int {
	return l.window.Size()
}

func (l *Ledger) Totals() entities.Totals {
	return l.totals.Totals()
}

func (l *Ledger) Recent() []entities.Transaction {
	return l.totals.Recent()
}

func (l *Ledger) Restore(totals entities.Totals) {
	l.totals.Restore(totals)
}
