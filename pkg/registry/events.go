package registry

import (
	"fmt"
	"math/big"

	"github.com/acorn-io/acorn-registry/pkg/db"
	"github.com/ethereum/go-ethereum/common"
)

type EventKind string

const (
	KindDomainNameRegistered  EventKind = "DomainNameRegistered"
	KindReceipt               EventKind = "Receipt"
	KindDomainNameIpEdited    EventKind = "DomainNameIpEdited"
	KindDomainNameCidEdited   EventKind = "DomainNameCidEdited"
	KindDomainNameTransferred EventKind = "DomainNameTransferred"
)

type Event interface {
	Kind() EventKind
	Time() int64
}

type DomainNameRegistered struct {
	Timestamp int64
	Name      string
	TLD       string
}

// Receipt is emitted for every payment the registry accepts.
type Receipt struct {
	Timestamp int64
	Name      string
	Amount    *big.Int
	Expires   int64
}

type DomainNameIpEdited struct {
	Timestamp int64
	Name      string
	TLD       string
	NewIP     string
}

type DomainNameCidEdited struct {
	Timestamp int64
	Name      string
	TLD       string
	NewCID    string
}

type DomainNameTransferred struct {
	Timestamp int64
	Name      string
	TLD       string
	Owner     common.Address
	NewOwner  common.Address
}

func (e DomainNameRegistered) Kind() EventKind  { return KindDomainNameRegistered }
func (e Receipt) Kind() EventKind               { return KindReceipt }
func (e DomainNameIpEdited) Kind() EventKind    { return KindDomainNameIpEdited }
func (e DomainNameCidEdited) Kind() EventKind   { return KindDomainNameCidEdited }
func (e DomainNameTransferred) Kind() EventKind { return KindDomainNameTransferred }

func (e DomainNameRegistered) Time() int64  { return e.Timestamp }
func (e Receipt) Time() int64               { return e.Timestamp }
func (e DomainNameIpEdited) Time() int64    { return e.Timestamp }
func (e DomainNameCidEdited) Time() int64   { return e.Timestamp }
func (e DomainNameTransferred) Time() int64 { return e.Timestamp }

// LoggedEvent is an event as read back from the event log.
type LoggedEvent struct {
	Seq   uint64
	TxID  string
	Event Event
}

func eventRow(txID string, e Event) db.Event {
	row := db.Event{
		TxID:      txID,
		Kind:      string(e.Kind()),
		Timestamp: e.Time(),
	}

	switch ev := e.(type) {
	case DomainNameRegistered:
		row.Name, row.TLD = ev.Name, ev.TLD
	case Receipt:
		row.Name, row.Expires = ev.Name, ev.Expires
		row.Amount = amountString(ev.Amount)
	case DomainNameIpEdited:
		row.Name, row.TLD, row.Value = ev.Name, ev.TLD, ev.NewIP
	case DomainNameCidEdited:
		row.Name, row.TLD, row.Value = ev.Name, ev.TLD, ev.NewCID
	case DomainNameTransferred:
		row.Name, row.TLD = ev.Name, ev.TLD
		row.Owner, row.NewOwner = ev.Owner.Hex(), ev.NewOwner.Hex()
	}

	return row
}

func eventFromRow(row db.Event) (Event, error) {
	switch EventKind(row.Kind) {
	case KindDomainNameRegistered:
		return DomainNameRegistered{Timestamp: row.Timestamp, Name: row.Name, TLD: row.TLD}, nil
	case KindReceipt:
		amount, err := parseAmount(row.Amount)
		if err != nil {
			return nil, err
		}
		return Receipt{Timestamp: row.Timestamp, Name: row.Name, Amount: amount, Expires: row.Expires}, nil
	case KindDomainNameIpEdited:
		return DomainNameIpEdited{Timestamp: row.Timestamp, Name: row.Name, TLD: row.TLD, NewIP: row.Value}, nil
	case KindDomainNameCidEdited:
		return DomainNameCidEdited{Timestamp: row.Timestamp, Name: row.Name, TLD: row.TLD, NewCID: row.Value}, nil
	case KindDomainNameTransferred:
		return DomainNameTransferred{
			Timestamp: row.Timestamp,
			Name:      row.Name,
			TLD:       row.TLD,
			Owner:     common.HexToAddress(row.Owner),
			NewOwner:  common.HexToAddress(row.NewOwner),
		}, nil
	}

	return nil, fmt.Errorf("unknown event kind %q at seq %d", row.Kind, row.Seq)
}

func amountString(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.String()
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid stored amount %q", s)
	}
	return amount, nil
}
