package archive

import (
	"context"
	"database/sql"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"
)

// Open creates a bun.DB backed by modernc.org/sqlite at path (use
// "file::memory:?cache=shared" for an ephemeral, process-local archive)
// and ensures the archive schema exists.
//
// SQLite tolerates at most one writer at a time, so the returned pool is
// capped at a single open connection; Sink never needs more than one
// since it writes from a single background goroutine.
func Open(ctx context.Context, path string) (*bun.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	sqlDB, err := sql.Open("sqlite", path+sep+"_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := InitDB(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func initDB(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*Record)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}
	_, err = db.NewCreateIndex().
		Model((*Record)(nil)).
		Index("idx_archive_events_queue_at").
		Column("queue_id", "at").
		IfNotExists().
		Exec(ctx)
	return err
}

// InitDB creates the archive_events table and its index if they do not
// already exist. It is idempotent and safe to call on every startup.
func InitDB(ctx context.Context, db bun.IDB) error {
	return initDB(ctx, db)
}

// MustInitDB behaves like InitDB but panics if initialization fails. It
// is intended for application bootstrap where a broken archive schema is
// unrecoverable.
func MustInitDB(ctx context.Context, db bun.IDB) {
	if err := initDB(ctx, db); err != nil {
		panic(err)
	}
}
