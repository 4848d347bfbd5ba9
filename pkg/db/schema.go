package db

import (
	"time"
)

// State is the single row describing a deployed registry instance. ID is zero
// until the instance is deployed.
type State struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Address        string    `gorm:"size:42" json:"address"`
	Admin          string    `gorm:"size:42" json:"admin"`
	Balance        string    `gorm:"size:80" json:"balance"` // wei, decimal
	BaseCost       string    `gorm:"size:80" json:"baseCost"`
	ShortSurcharge string    `gorm:"size:80" json:"shortSurcharge"`
	Destroyed      bool      `json:"destroyed"`
	Version        uint64    `gorm:"not null;default:0" json:"version"` // bumped by every committed call
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Record struct {
	DomainKey string    `gorm:"primaryKey;size:66" json:"domainKey"`
	Owner     string    `gorm:"size:42;index" json:"owner"`
	Name      string    `json:"name"`
	TLD       string    `json:"tld"`
	IP        string    `json:"ip"`
	CID       string    `gorm:"column:cid" json:"cid"`
	Expires   int64     `json:"expires"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Event is one row of the append-only event log. Value holds the new ip or
// cid of an edit event, Amount the payment of a receipt.
type Event struct {
	Seq       uint64 `gorm:"primaryKey;autoIncrement" json:"seq"`
	TxID      string `gorm:"size:36;index" json:"txId"`
	Kind      string `gorm:"size:32" json:"kind"`
	Timestamp int64  `json:"timestamp"`
	Name      string `json:"name"`
	TLD       string `json:"tld"`
	Owner     string `gorm:"size:42" json:"owner,omitempty"`
	NewOwner  string `gorm:"size:42" json:"newOwner,omitempty"`
	Value     string `json:"value,omitempty"`
	Amount    string `gorm:"size:80" json:"amount,omitempty"`
	Expires   int64  `json:"expires,omitempty"`
}
