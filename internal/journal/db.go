package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/vidkeeper/internal/dbx"
	"github.com/dmitrijs2005/vidkeeper/internal/journal/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema using the goose dialect that
// matches d.
func RunMigrations(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	goose.SetBaseFS(migrations.Migrations)

	gooseDialect := "sqlite3"
	if d == dbx.DialectPostgres {
		gooseDialect = "pgx"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// Open connects to dsn (sqlite file or postgres:// URL), migrates the schema
// and returns a ready repository together with the underlying handle, which
// the caller closes.
func Open(ctx context.Context, dsn string, maxEvents int) (*SQLRepository, *sql.DB, error) {
	d := dbx.DialectFromDSN(dsn)
	driver := "sqlite"
	if d == dbx.DialectPostgres {
		driver = "pgx"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	if d == dbx.DialectSQLite {
		// sqlite: one writer at a time
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping journal: %w", err)
	}
	if err := RunMigrations(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate journal: %w", err)
	}
	return NewSQLRepository(db, d, maxEvents), db, nil
}
