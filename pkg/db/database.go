package db

import "context"

const (
	DialectSqlite = "sqlite"
	DialectMysql  = "mysql"
	DialectBolt   = "bolt"
)

// Database stores registry records, the instance state and the event log.
// A Database handed to a Transaction callback is bound to that transaction.
type Database interface {
	Transaction(ctx context.Context, fn func(tx Database) error) error
	GetState() (State, error)
	SaveState(state State) error
	GetRecord(domainKey string) (Record, error)
	SaveRecord(record Record) error
	AppendEvents(events []Event) error
	ListEvents(afterSeq uint64, limit int) ([]Event, error)
	Close() error
}
