package db

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"
)

var (
	stateBucket   = []byte("state")
	recordsBucket = []byte("records")
	eventsBucket  = []byte("events")

	stateKey = []byte("state")
)

type boltDatabase struct {
	db *bbolt.DB
	tx *bbolt.Tx
}

// NewBolt opens (or creates) a bbolt file at path.
func NewBolt(path string) (Database, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{stateBucket, recordsBucket, eventsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logrus.Debugf("opened bolt registry store at %s", path)
	return &boltDatabase{db: db}, nil
}

func (b *boltDatabase) Transaction(ctx context.Context, fn func(tx Database) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.tx != nil {
		return fn(b)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return fn(&boltDatabase{db: b.db, tx: tx})
	})
}

func (b *boltDatabase) GetState() (State, error) {
	state := State{}
	err := b.view(func(tx *bbolt.Tx) error {
		return get(tx.Bucket(stateBucket), stateKey, &state)
	})
	return state, err
}

func (b *boltDatabase) SaveState(state State) error {
	if state.ID == 0 {
		state.ID = 1
	}
	state.UpdatedAt = time.Now()
	return b.update(func(tx *bbolt.Tx) error {
		return put(tx.Bucket(stateBucket), stateKey, state)
	})
}

func (b *boltDatabase) GetRecord(domainKey string) (Record, error) {
	record := Record{}
	err := b.view(func(tx *bbolt.Tx) error {
		return get(tx.Bucket(recordsBucket), []byte(domainKey), &record)
	})
	return record, err
}

func (b *boltDatabase) SaveRecord(record Record) error {
	record.UpdatedAt = time.Now()
	return b.update(func(tx *bbolt.Tx) error {
		return put(tx.Bucket(recordsBucket), []byte(record.DomainKey), record)
	})
}

func (b *boltDatabase) AppendEvents(events []Event) error {
	return b.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(eventsBucket)
		for i := range events {
			seq, err := bucket.NextSequence()
			if err != nil {
				return err
			}
			events[i].Seq = seq
			if err := put(bucket, seqKey(seq), events[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *boltDatabase) ListEvents(afterSeq uint64, limit int) ([]Event, error) {
	var events []Event
	err := b.view(func(tx *bbolt.Tx) error {
		c := tx.Bucket(eventsBucket).Cursor()
		for k, v := c.Seek(seqKey(afterSeq + 1)); k != nil; k, v = c.Next() {
			if limit > 0 && len(events) >= limit {
				break
			}
			var event Event
			if err := json.Unmarshal(v, &event); err != nil {
				return err
			}
			events = append(events, event)
		}
		return nil
	})
	return events, err
}

func (b *boltDatabase) Close() error {
	return b.db.Close()
}

func (b *boltDatabase) view(fn func(tx *bbolt.Tx) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	return b.db.View(fn)
}

func (b *boltDatabase) update(fn func(tx *bbolt.Tx) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	return b.db.Update(fn)
}

// get leaves out untouched when key is absent.
func get(bucket *bbolt.Bucket, key []byte, out interface{}) error {
	v := bucket.Get(key)
	if v == nil {
		return nil
	}
	return json.Unmarshal(v, out)
}

func put(bucket *bbolt.Bucket, key []byte, in interface{}) error {
	v, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return bucket.Put(key, v)
}

func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}
