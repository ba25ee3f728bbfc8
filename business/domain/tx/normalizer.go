package tx

import (
	"encoding/json"
	"github.com/stxrain/go-stx-rain/entities"
	"math"
	"strconv"
	"strings"
)

// upstream tx_type tags
const (
	tagTokenTransfer  = "token_transfer"
	tagContractCall   = "contract_call"
	tagSmartContract  = "smart_contract"
	tagContractDeploy = "contract_deploy"
	tagCoinbase       = "coinbase"
)

// Normalize maps an upstream record into the canonical transaction. It never fails:
// missing or unparseable amounts become 0 and unknown tags become KindOther.
func Normalize(raw entities.HiroTx) entities.Transaction {
	tx := entities.Transaction{
		ID:          raw.TxID,
		Kind:        MapKind(raw.TxType),
		Sender:      raw.SenderAddress,
		BlockHeight: parseOptionalUint(raw.BlockHeight),
		Status:      raw.TxStatus,
	}

	switch tx.Kind {
	case entities.KindTransfer:
		if raw.TokenTransfer != nil {
			tx.Amount = ParseAmount(raw.TokenTransfer.Amount)
		}
	case entities.KindContractCall:
		// stx_sent is the aggregate amount sent by the call, not per-event accounting
		tx.Amount = ParseAmount(raw.StxSent)
	case entities.KindCoinbase:
		if raw.CoinbasePayload != nil {
			tx.Amount = ParseAmount(raw.CoinbasePayload.Data)
		}
	case entities.KindContractDeploy, entities.KindOther:
		tx.Amount = 0
	}

	return tx
}

func MapKind(tag string) entities.Kind {
	switch tag {
	case tagTokenTransfer:
		return entities.KindTransfer
	case tagContractCall:
		return entities.KindContractCall
	case tagSmartContract, tagContractDeploy:
		return entities.KindContractDeploy
	case tagCoinbase:
		return entities.KindCoinbase
	default:
		return entities.KindOther
	}
}

// ParseAmount accepts a JSON string or number. Anything that is not a non-negative
// integer fitting into 64 bits yields 0.
func ParseAmount(raw json.RawMessage) uint64 {
	value, ok := parseUint(raw)
	if !ok {
		return 0
	}
	return value
}

// ParseAmountString parses decimal or 0x-prefixed hex text, 0 on failure.
func ParseAmountString(s string) uint64 {
	value, ok := parseUintString(s)
	if !ok {
		return 0
	}
	return value
}

func parseOptionalUint(raw json.RawMessage) *uint64 {
	value, ok := parseUint(raw)
	if !ok {
		return nil
	}
	return &value
}

func parseUint(raw json.RawMessage) (uint64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		return parseUintString(s)
	}

	text := string(raw)
	if value, err := strconv.ParseUint(text, 10, 64); err == nil {
		return value, true
	}

	// integral JSON numbers written with exponent or fraction, e.g. 1e6 or 100.0
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f >= math.MaxUint64 {
		return 0, false
	}
	return uint64(f), true
}

func parseUintString(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}

	value, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
