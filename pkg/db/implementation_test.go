package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestStateQueryLocksInMysqlTransactions(t *testing.T) {
	gdb, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "registry:registry@tcp(127.0.0.1:3306)/registry",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	query := func(d *database) string {
		return d.stateQuery().Find(&State{}).Statement.SQL.String()
	}

	assert.Contains(t, query(&database{db: gdb, dialect: DialectMysql, tx: true}), "FOR UPDATE")
	assert.NotContains(t, query(&database{db: gdb, dialect: DialectMysql}), "FOR UPDATE")
	assert.NotContains(t, query(&database{db: gdb, dialect: DialectSqlite, tx: true}), "FOR UPDATE")
}

func TestTransactionsReadStateWithLocking(t *testing.T) {
	ctx := context.Background()
	d, err := New(ctx, DialectSqlite, filepath.Join(t.TempDir(), "registry.sqlite"), nil)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.SaveState(State{ID: 1, Balance: "0"}))

	err = d.Transaction(ctx, func(tx Database) error {
		assert.True(t, tx.(*database).tx)
		state, err := tx.GetState()
		if err != nil {
			return err
		}
		state.Balance = "7"
		return tx.SaveState(state)
	})
	require.NoError(t, err)

	state, err := d.GetState()
	require.NoError(t, err)
	assert.Equal(t, "7", state.Balance)
}

func TestSqliteBusyTimeout(t *testing.T) {
	assert.True(t, strings.HasSuffix(DefaultSqliteDSN, "?"+SqlitePragmas))

	dsn := "file:" + filepath.Join(t.TempDir(), "registry.sqlite") + "?" + SqlitePragmas
	d, err := New(context.Background(), DialectSqlite, dsn, nil)
	require.NoError(t, err)
	defer d.Close()

	var timeout int
	require.NoError(t, d.(*database).db.Raw("PRAGMA busy_timeout").Scan(&timeout).Error)
	assert.Equal(t, 5000, timeout)
}
