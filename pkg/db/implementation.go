package db

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SqlitePragmas makes a sqlite writer wait for a concurrent one instead of
// failing with "database is locked".
const SqlitePragmas = "_pragma=busy_timeout(5000)"

const DefaultSqliteDSN = "file:registry.sqlite?" + SqlitePragmas

type database struct {
	db      *gorm.DB
	dialect string
	tx      bool
}

// New opens the registry store for dialect. sqlite and mysql go through gorm,
// bolt treats dsn as a file path.
func New(ctx context.Context, dialect string, dsn string, config *gorm.Config) (Database, error) {
	if dialect == DialectBolt {
		return NewBolt(dsn)
	}

	if config == nil {
		config = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	}

	var db *gorm.DB
	var err error

	switch dialect {
	case DialectSqlite:
		db, err = gorm.Open(sqlite.Open(dsn), config)
	case DialectMysql:
		db, err = gorm.Open(mysql.Open(dsn), config)
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
	if err != nil {
		return nil, err
	}

	db = db.WithContext(ctx)

	if err := db.AutoMigrate(
		&State{},
		&Record{},
		&Event{},
	); err != nil {
		return nil, err
	}

	logrus.Debugf("opened %s registry store", dialect)
	return &database{db: db, dialect: dialect}, nil
}

func (d *database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&database{db: tx, dialect: d.dialect, tx: true})
	})
}

func (d *database) GetState() (State, error) {
	state := State{}
	sql := d.stateQuery().Find(&state)
	return state, sql.Error
}

// stateQuery locks the state row inside mysql transactions. Every mutating
// call reads it first, so writers in separate processes queue up behind it.
// sqlite already serializes writers on the database file.
func (d *database) stateQuery() *gorm.DB {
	query := d.db.Limit(1)
	if d.tx && d.dialect == DialectMysql {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return query
}

func (d *database) SaveState(state State) error {
	sql := d.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&state)
	return sql.Error
}

func (d *database) GetRecord(domainKey string) (Record, error) {
	record := Record{}
	sql := d.db.Where("domain_key = ?", domainKey).Limit(1).Find(&record)
	return record, sql.Error
}

func (d *database) SaveRecord(record Record) error {
	sql := d.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&record)
	return sql.Error
}

func (d *database) AppendEvents(events []Event) error {
	if len(events) == 0 {
		return nil
	}
	sql := d.db.Create(&events)
	return sql.Error
}

func (d *database) ListEvents(afterSeq uint64, limit int) ([]Event, error) {
	var events []Event
	query := d.db.Where("seq > ?", afterSeq).Order("seq")
	if limit > 0 {
		query = query.Limit(limit)
	}
	sql := query.Find(&events)
	return events, sql.Error
}

func (d *database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
