package models

import "math/big"

// Transfer represents a single normalized value movement pulled from a
// block-explorer API. Normal transactions, internal (contract) transfers
// and ERC-20 token transfers all normalize into this shape.
type Transfer struct {
	Hash        string   `json:"hash"`
	BlockNumber int64    `json:"blockNumber"`
	TimeStamp   int64    `json:"timeStamp"` // unix seconds
	From        string   `json:"from"`      // lowercased hex address
	To          string   `json:"to"`        // lowercased hex address
	Value       *big.Int `json:"value"`     // in wei (or token base units)
	GasUsed     int64    `json:"gasUsed"`
	IsError     bool     `json:"isError"`
	Internal    bool     `json:"internal"`              // true for txlistinternal rows
	TokenSymbol string   `json:"tokenSymbol,omitempty"` // set for ERC-20 transfers
}

// ValueEther converts the raw wei value to ether as a float64.
// Precision loss above 2^53 wei is acceptable for heuristic scoring.
func (t Transfer) ValueEther() float64 {
	return WeiToEther(t.Value)
}

// WeiToEther converts a wei amount to ether. Nil is treated as zero.
func WeiToEther(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18)).Float64()
	return f
}

// TxDetail holds decoded fields of a single transaction looked up by hash.
type TxDetail struct {
	Hash         string   `json:"hash"`
	From         string   `json:"from"`
	To           string   `json:"to"`
	Value        *big.Int `json:"value"`
	ValueEther   float64  `json:"valueEther"`
	Gas          int64    `json:"gas"`
	GasPriceGwei float64  `json:"gasPriceGwei"`
	Input        string   `json:"input"`
	BlockNumber  int64    `json:"blockNumber"`
	Succeeded    bool     `json:"succeeded"`
	TimeStamp    int64    `json:"timeStamp"`
}

// Balance is the current on-chain balance of an address.
type Balance struct {
	Address   string   `json:"address"`
	Wei       *big.Int `json:"wei"`
	Ether     float64  `json:"ether"`
	FetchedAt int64    `json:"fetchedAt"`
}
