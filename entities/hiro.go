package entities

import "encoding/json"

// HiroTx is one element of the Hiro extended API transaction list. Amount-like
// fields are kept raw because the API mixes numeric strings, hex and numbers.
type HiroTx struct {
	TxID            string               `json:"tx_id"`
	TxType          string               `json:"tx_type"`
	TxStatus        string               `json:"tx_status"`
	SenderAddress   string               `json:"sender_address"`
	BlockHeight     json.RawMessage      `json:"block_height,omitempty"`
	TokenTransfer   *HiroTokenTransfer   `json:"token_transfer,omitempty"`
	StxSent         json.RawMessage      `json:"stx_sent,omitempty"`
	CoinbasePayload *HiroCoinbasePayload `json:"coinbase_payload,omitempty"`
}

type HiroTokenTransfer struct {
	RecipientAddress string          `json:"recipient_address"`
	Amount           json.RawMessage `json:"amount,omitempty"`
	Memo             string          `json:"memo"`
}

type HiroCoinbasePayload struct {
	Data json.RawMessage `json:"data,omitempty"`
}

type HiroTxPage struct {
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
	Total   int      `json:"total"`
	Results []HiroTx `json:"results"`
}

type HiroBlock struct {
	Height uint64 `json:"height"`
	Hash   string `json:"hash"`
}

type HiroBlockPage struct {
	Results []HiroBlock `json:"results"`
}
