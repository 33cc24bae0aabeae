package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openWithTable(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE listens (song_id TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func countListens(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM listens`).Scan(&n))
	return n
}

func TestWithTx(t *testing.T) {
	abort := errors.New("abort")
	tests := []struct {
		name    string
		failAt  int // 0 commits both inserts
		wantErr error
		want    int
	}{
		{name: "commits", want: 2},
		{name: "rolls back everything after a late error", failAt: 2, wantErr: abort},
		{name: "rolls back on first error", failAt: 1, wantErr: abort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openWithTable(t)

			err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
				for i := 1; i <= 2; i++ {
					if _, err := tx.Exec(`INSERT INTO listens VALUES (?)`, "a"); err != nil {
						return err
					}
					if i == tt.failAt {
						return abort
					}
				}
				return nil
			})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, countListens(t, db))
		})
	}
}

func TestWithTx_CancelledContext(t *testing.T) {
	db := openWithTable(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithTx(ctx, db, func(*sql.Tx) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called, "fn must not run without a transaction")
}

func TestNullInt64Value(t *testing.T) {
	assert.Equal(t, int64(215000), NullInt64Value(sql.NullInt64{Int64: 215000, Valid: true}))
	assert.Zero(t, NullInt64Value(sql.NullInt64{Int64: 215000}))
}

func TestOpen_CreatesDirectoryAndEnablesForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
	assert.FileExists(t, path)
}
