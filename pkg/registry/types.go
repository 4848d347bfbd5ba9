package registry

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Call carries what the ledger knows about a mutating call: who sent it, the
// block time it executes at and the value attached to it (in wei).
type Call struct {
	Caller common.Address
	Now    int64
	Value  *big.Int
}

func (c Call) value() *big.Int {
	if c.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(c.Value)
}

// Record is the state kept for one domain key. A key that was never
// registered reads as the zero Record.
type Record struct {
	Key     common.Hash
	Owner   common.Address
	Name    string
	TLD     string
	IP      string
	CID     string
	Expires int64
}

// Available reports whether the record can be registered at time now.
func (r Record) Available(now int64) bool {
	return r.Owner == (common.Address{}) || now > r.Expires
}

// Expired is derived, never stored.
func (r Record) Expired(now int64) bool {
	return r.Owner != (common.Address{}) && now > r.Expires
}

// Result is what a successful mutating call produced.
type Result struct {
	TxID   string
	Events []Event
}
