package registry

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/acorn-io/acorn-registry/pkg/db"
	"github.com/acorn-io/acorn-registry/pkg/rand"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
)

const recordCacheSize = 1000

// Registry is one deployed registry instance. Mutating calls are serialized
// and each one runs in a single store transaction, so a rejected call leaves
// records, balance and event log untouched.
type Registry struct {
	mu      sync.RWMutex
	db      db.Database
	records *lru.Cache

	// seen is the state version the cached records belong to.
	cacheMu sync.Mutex
	seen    uint64

	address common.Address
	admin   common.Address
	pricing Pricing
}

// Deploy initializes a new registry instance in database with admin as its
// administrator.
func Deploy(ctx context.Context, database db.Database, admin common.Address, pricing Pricing) (*Registry, error) {
	if admin == (common.Address{}) {
		return nil, fmt.Errorf("%w: administrator must not be the zero address", ErrInvalidArgument)
	}
	if err := pricing.Validate(); err != nil {
		return nil, err
	}

	err := database.Transaction(ctx, func(tx db.Database) error {
		state, err := tx.GetState()
		if err != nil {
			return err
		}
		if state.ID != 0 {
			return fmt.Errorf("%w at %s", ErrAlreadyDeployed, state.Address)
		}

		return tx.SaveState(db.State{
			ID:             1,
			Address:        rand.Address().Hex(),
			Admin:          admin.Hex(),
			Balance:        "0",
			BaseCost:       pricing.BaseCost.String(),
			ShortSurcharge: pricing.ShortSurcharge.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return Load(database)
}

// Load opens the registry instance already deployed in database.
func Load(database db.Database) (*Registry, error) {
	state, err := database.GetState()
	if err != nil {
		return nil, err
	}
	if state.ID == 0 {
		return nil, ErrNotDeployed
	}

	baseCost, err := parseAmount(state.BaseCost)
	if err != nil {
		return nil, err
	}
	surcharge, err := parseAmount(state.ShortSurcharge)
	if err != nil {
		return nil, err
	}

	cache, err := lru.New(recordCacheSize)
	if err != nil {
		return nil, err
	}

	return &Registry{
		db:      database,
		records: cache,
		seen:    state.Version,
		address: common.HexToAddress(state.Address),
		admin:   common.HexToAddress(state.Admin),
		pricing: Pricing{BaseCost: baseCost, ShortSurcharge: surcharge},
	}, nil
}

func (r *Registry) Address() common.Address {
	return r.address
}

func (r *Registry) Admin() common.Address {
	return r.admin
}

func (r *Registry) Pricing() Pricing {
	return Pricing{
		BaseCost:       new(big.Int).Set(r.pricing.BaseCost),
		ShortSurcharge: new(big.Int).Set(r.pricing.ShortSurcharge),
	}
}

func (r *Registry) GetPrice(name string) *big.Int {
	return r.pricing.Price(name)
}

func (r *Registry) GetDomainHash(name, tld string) common.Hash {
	return GetDomainHash(name, tld)
}

// Register claims name+tld for the caller for one year. The full attached
// value is kept, even when it exceeds the price.
func (r *Registry) Register(ctx context.Context, call Call, name, tld, ip string) (Result, error) {
	return r.transact(ctx, func(t *txn) error {
		if call.Caller == (common.Address{}) {
			return fmt.Errorf("%w: caller must not be the zero address", ErrInvalidArgument)
		}
		if len(name) <= DomainNameMinLength {
			return fmt.Errorf("%w: %q must be longer than %d characters", ErrInvalidName, name, DomainNameMinLength)
		}
		if len(strings.TrimPrefix(tld, ".")) < TopLevelDomainMinLength {
			return fmt.Errorf("%w: top-level domain must have at least %d character", ErrInvalidName, TopLevelDomainMinLength)
		}

		value, err := r.charge(call, name)
		if err != nil {
			return err
		}

		rec, err := t.record(GetDomainHash(name, tld))
		if err != nil {
			return err
		}
		if !rec.Available(call.Now) {
			return fmt.Errorf("%w: %s%s is registered until %d", ErrDomainTaken, name, tld, rec.Expires)
		}

		rec = Record{
			Key:     rec.Key,
			Owner:   call.Caller,
			Name:    name,
			TLD:     tld,
			IP:      ip,
			Expires: call.Now + OneYear,
		}
		if err := t.save(rec); err != nil {
			return err
		}
		t.credit(value)

		t.emit(
			DomainNameRegistered{Timestamp: call.Now, Name: name, TLD: tld},
			Receipt{Timestamp: call.Now, Name: name, Amount: value, Expires: rec.Expires},
		)
		return nil
	})
}

// RenewDomainName restarts the registration period from the call's time.
// Time left on the previous period is not carried over.
func (r *Registry) RenewDomainName(ctx context.Context, call Call, name, tld string) (Result, error) {
	return r.transact(ctx, func(t *txn) error {
		rec, err := t.owned(call, name, tld)
		if err != nil {
			return err
		}

		value, err := r.charge(call, name)
		if err != nil {
			return err
		}

		rec.Expires = call.Now + OneYear
		if err := t.save(rec); err != nil {
			return err
		}
		t.credit(value)

		t.emit(Receipt{Timestamp: call.Now, Name: name, Amount: value, Expires: rec.Expires})
		return nil
	})
}

// EditIP does not look at expiry: the owner of an expired record keeps
// control until someone registers it again.
func (r *Registry) EditIP(ctx context.Context, call Call, name, tld, ip string) (Result, error) {
	return r.transact(ctx, func(t *txn) error {
		rec, err := t.owned(call, name, tld)
		if err != nil {
			return err
		}

		rec.IP = ip
		if err := t.save(rec); err != nil {
			return err
		}

		t.emit(DomainNameIpEdited{Timestamp: call.Now, Name: name, TLD: tld, NewIP: ip})
		return nil
	})
}

func (r *Registry) EditCID(ctx context.Context, call Call, name, tld, cid string) (Result, error) {
	return r.transact(ctx, func(t *txn) error {
		rec, err := t.owned(call, name, tld)
		if err != nil {
			return err
		}

		rec.CID = cid
		if err := t.save(rec); err != nil {
			return err
		}

		t.emit(DomainNameCidEdited{Timestamp: call.Now, Name: name, TLD: tld, NewCID: cid})
		return nil
	})
}

func (r *Registry) TransferDomain(ctx context.Context, call Call, name, tld string, newOwner common.Address) (Result, error) {
	return r.transact(ctx, func(t *txn) error {
		rec, err := t.owned(call, name, tld)
		if err != nil {
			return err
		}
		if newOwner == (common.Address{}) {
			return fmt.Errorf("%w: new owner must not be the zero address", ErrInvalidArgument)
		}

		previous := rec.Owner
		rec.Owner = newOwner
		if err := t.save(rec); err != nil {
			return err
		}

		t.emit(DomainNameTransferred{Timestamp: call.Now, Name: name, TLD: tld, Owner: previous, NewOwner: newOwner})
		return nil
	})
}

// Withdraw hands the whole accumulated balance to the administrator and
// returns the amount moved.
func (r *Registry) Withdraw(ctx context.Context, call Call) (*big.Int, error) {
	var amount *big.Int
	_, err := r.transact(ctx, func(t *txn) error {
		if err := r.checkAdmin(call); err != nil {
			return err
		}
		amount = t.drain()
		return nil
	})
	return amount, err
}

// Destroy permanently disables the registry. Whatever balance is left goes to
// the administrator. Reads keep working afterwards.
func (r *Registry) Destroy(ctx context.Context, call Call) (*big.Int, error) {
	var amount *big.Int
	_, err := r.transact(ctx, func(t *txn) error {
		if err := r.checkAdmin(call); err != nil {
			return err
		}
		amount = t.drain()
		t.state.Destroyed = true
		return nil
	})
	return amount, err
}

func (r *Registry) GetIP(name, tld string) (string, error) {
	rec, err := r.GetRecord(GetDomainHash(name, tld))
	return rec.IP, err
}

func (r *Registry) GetCID(name, tld string) (string, error) {
	rec, err := r.GetRecord(GetDomainHash(name, tld))
	return rec.CID, err
}

// GetRecord returns the raw record stored under key, expired or not. Cached
// records are dropped as soon as the store shows a call committed by any
// handle, this one or another.
func (r *Registry) GetRecord(key common.Hash) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, err := r.db.GetState()
	if err != nil {
		return Record{}, err
	}
	r.syncCache(state.Version)

	if v, ok := r.records.Get(key); ok {
		return v.(Record), nil
	}

	row, err := r.db.GetRecord(key.Hex())
	if err != nil {
		return Record{}, err
	}

	rec := recordFromRow(key, row)
	r.cacheMu.Lock()
	if r.seen == state.Version {
		r.records.Add(key, rec)
	}
	r.cacheMu.Unlock()
	return rec, nil
}

func (r *Registry) syncCache(version uint64) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	if r.seen != version {
		r.records.Purge()
		r.seen = version
	}
}

func (r *Registry) Balance() (*big.Int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, err := r.db.GetState()
	if err != nil {
		return nil, err
	}
	return parseAmount(state.Balance)
}

func (r *Registry) Destroyed() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, err := r.db.GetState()
	if err != nil {
		return false, err
	}
	return state.Destroyed, nil
}

// Events returns up to limit logged events with a sequence number greater
// than after. A limit <= 0 returns all of them.
func (r *Registry) Events(after uint64, limit int) ([]LoggedEvent, error) {
	rows, err := r.db.ListEvents(after, limit)
	if err != nil {
		return nil, err
	}

	events := make([]LoggedEvent, 0, len(rows))
	for _, row := range rows {
		e, err := eventFromRow(row)
		if err != nil {
			return nil, err
		}
		events = append(events, LoggedEvent{Seq: row.Seq, TxID: row.TxID, Event: e})
	}
	return events, nil
}

func (r *Registry) charge(call Call, name string) (*big.Int, error) {
	value := call.value()
	if value.Sign() < 0 {
		return nil, fmt.Errorf("%w: attached value must not be negative", ErrInvalidArgument)
	}

	price := r.pricing.Price(name)
	if value.Cmp(price) < 0 {
		return nil, fmt.Errorf("%w: %s costs %s wei, got %s", ErrInsufficientFunds, name, price, value)
	}
	return value, nil
}

func (r *Registry) checkAdmin(call Call) error {
	if call.Caller != r.admin {
		return fmt.Errorf("%w: %s is not the administrator", ErrUnauthorized, call.Caller.Hex())
	}
	return nil
}

func (r *Registry) transact(ctx context.Context, fn func(t *txn) error) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		result   = Result{TxID: uuid.NewString()}
		touched  []common.Hash
		previous uint64
	)

	err := r.db.Transaction(ctx, func(tx db.Database) error {
		state, err := tx.GetState()
		if err != nil {
			return err
		}
		if state.ID == 0 {
			return ErrNotDeployed
		}
		if state.Destroyed {
			return ErrDestroyed
		}

		balance, err := parseAmount(state.Balance)
		if err != nil {
			return err
		}

		t := &txn{db: tx, state: state, balance: balance}
		if err := fn(t); err != nil {
			return err
		}

		previous = state.Version
		t.state.Version++
		t.state.Balance = t.balance.String()
		if err := tx.SaveState(t.state); err != nil {
			return err
		}

		if len(t.events) > 0 {
			rows := make([]db.Event, 0, len(t.events))
			for _, e := range t.events {
				rows = append(rows, eventRow(result.TxID, e))
			}
			if err := tx.AppendEvents(rows); err != nil {
				return err
			}
		}

		result.Events = t.events
		touched = t.touched
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	r.cacheMu.Lock()
	if r.seen != previous {
		r.records.Purge()
	}
	for _, key := range touched {
		r.records.Remove(key)
	}
	r.seen = previous + 1
	r.cacheMu.Unlock()

	return result, nil
}

// txn collects the writes of one call until its transaction commits.
type txn struct {
	db      db.Database
	state   db.State
	balance *big.Int
	events  []Event
	touched []common.Hash
}

func (t *txn) record(key common.Hash) (Record, error) {
	row, err := t.db.GetRecord(key.Hex())
	if err != nil {
		return Record{}, err
	}
	return recordFromRow(key, row), nil
}

func (t *txn) owned(call Call, name, tld string) (Record, error) {
	rec, err := t.record(GetDomainHash(name, tld))
	if err != nil {
		return Record{}, err
	}
	if rec.Owner == (common.Address{}) || rec.Owner != call.Caller {
		return Record{}, fmt.Errorf("%w: %s%s is not owned by %s", ErrUnauthorized, name, tld, call.Caller.Hex())
	}
	return rec, nil
}

func (t *txn) save(rec Record) error {
	if err := t.db.SaveRecord(recordRow(rec)); err != nil {
		return err
	}
	t.touched = append(t.touched, rec.Key)
	return nil
}

func (t *txn) credit(amount *big.Int) {
	t.balance.Add(t.balance, amount)
}

func (t *txn) drain() *big.Int {
	amount := new(big.Int).Set(t.balance)
	t.balance.SetInt64(0)
	return amount
}

func (t *txn) emit(events ...Event) {
	t.events = append(t.events, events...)
}

func recordRow(rec Record) db.Record {
	return db.Record{
		DomainKey: rec.Key.Hex(),
		Owner:     rec.Owner.Hex(),
		Name:      rec.Name,
		TLD:       rec.TLD,
		IP:        rec.IP,
		CID:       rec.CID,
		Expires:   rec.Expires,
	}
}

func recordFromRow(key common.Hash, row db.Record) Record {
	rec := Record{
		Key:     key,
		Name:    row.Name,
		TLD:     row.TLD,
		IP:      row.IP,
		CID:     row.CID,
		Expires: row.Expires,
	}
	if row.Owner != "" {
		rec.Owner = common.HexToAddress(row.Owner)
	}
	return rec
}
