package entities

import "github.com/shopspring/decimal"

// Status is the state kept across restarts when a status store is configured.
// The dedup window is not part of it.
type Status struct {
	Count       uint64
	Volume      decimal.Decimal
	BlockHeight *uint64
}
