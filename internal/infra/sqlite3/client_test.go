package sqlite3

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
)

func TestMemoryDSNUsesSingleConnection(t *testing.T) {
	cfg := newConfig(WithDSN(":memory:"), WithMaxOpenConns(10))
	if cfg.MaxOpenConns != 1 {
		t.Fatalf("MaxOpenConns = %d, want 1 for in-memory database", cfg.MaxOpenConns)
	}

	cfg = newConfig(WithDSN("/tmp/x.db"), WithMaxOpenConns(10))
	if cfg.MaxOpenConns != 10 {
		t.Fatalf("MaxOpenConns = %d, want 10", cfg.MaxOpenConns)
	}
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, WithDSN(filepath.Join(t.TempDir(), "tx.db")))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "CREATE TABLE items (name TEXT NOT NULL)"); err != nil {
		t.Fatalf("create table: %v", err)
	}

	err = WithTx(ctx, db.DB, nil, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", "kept")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx() commit = %v", err)
	}

	failure := errors.New("abort")
	err = WithTx(ctx, db.DB, nil, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", "dropped"); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("WithTx() = %v, want %v", err, failure)
	}

	var names []string
	if err := db.SelectContext(ctx, &names, "SELECT name FROM items"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(names) != 1 || names[0] != "kept" {
		t.Fatalf("names = %v, want [kept]", names)
	}
}
