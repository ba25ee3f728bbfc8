package entities

import (
	"github.com/shopspring/decimal"
	"time"
)

// Kind is the canonical transaction variant.
type Kind string

const (
	KindTransfer       Kind = "transfer"
	KindContractCall   Kind = "contract_call"
	KindContractDeploy Kind = "contract_deploy"
	KindCoinbase       Kind = "coinbase"
	KindOther          Kind = "other"
)

// AllKinds lists every Kind value. Consumers that switch on Kind are tested against it.
var AllKinds = []Kind{KindTransfer, KindContractCall, KindContractDeploy, KindCoinbase, KindOther}

// stxExponent is the number of micro-STX decimal places in one STX.
const stxExponent = 6

// Transaction is the normalized, immutable representation of an upstream record.
type Transaction struct {
	ID          string  `json:"id"`
	Kind        Kind    `json:"kind"`
	Amount      uint64  `json:"amount"` // micro-STX, 0 if unknown
	Sender      string  `json:"sender,omitempty"`
	BlockHeight *uint64 `json:"blockHeight,omitempty"`
	Status      string  `json:"status"`
}

func (t Transaction) DisplayAmount() decimal.Decimal {
	return ToStx(decimal.NewFromUint64(t.Amount))
}

// ToStx converts micro-STX to STX without losing precision.
func ToStx(microStx decimal.Decimal) decimal.Decimal {
	return microStx.Shift(-stxExponent)
}

type Totals struct {
	Count         uint64          `json:"count"`
	Volume        decimal.Decimal `json:"volume"` // micro-STX, unbounded
	UniqueSenders uint64          `json:"uniqueSenders"`
}

func (t Totals) VolumeStx() decimal.Decimal {
	return ToStx(t.Volume)
}

// PollUpdate is what one poll tick exposes to presentation and publishers.
type PollUpdate struct {
	Transactions []Transaction `json:"transactions"` // newly admitted, batch order
	Recent       []Transaction `json:"recent"`       // most recent first
	BlockHeight  *uint64       `json:"block"`
	Totals       Totals        `json:"totals"`
	Error        string        `json:"error,omitempty"`
	PolledAt     time.Time     `json:"polledAt"`
}
