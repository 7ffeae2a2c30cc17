package db

import (
	"context"
	"embed"
	"log/slog"
	"strings"

	"github.com/baharkarakas/member-store/internal/errs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies every embedded *.up.sql once, in name order, and
// records it in schema_migrations.
func RunMigrations(ctx context.Context, src Source, log *slog.Logger) error {
	files, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}

	conn, err := src.Acquire(ctx)
	if err != nil {
		return err
	}
	defer Close(ctx, log, conn, nil, nil)

	if err := execOne(ctx, log, conn, `CREATE TABLE IF NOT EXISTS schema_migrations (version varchar(255) PRIMARY KEY)`); err != nil {
		return err
	}

	for _, f := range files {
		name := f.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		applied, err := migrationApplied(ctx, log, conn, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		b, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return err
		}
		for _, q := range splitStatements(string(b)) {
			if err := execOne(ctx, log, conn, q); err != nil {
				return errs.Retag(errs.Statement, "db.migrate "+name, err)
			}
		}
		if err := execOne(ctx, log, conn, `INSERT INTO schema_migrations(version) VALUES(?)`, name); err != nil {
			return err
		}
		log.Info("migration applied", "version", name)
	}
	return nil
}

func execOne(ctx context.Context, log *slog.Logger, conn Conn, q string, args ...any) error {
	stmt, err := conn.Prepare(ctx, q)
	if err != nil {
		return err
	}
	defer Close(ctx, log, nil, stmt, nil)
	_, err = stmt.Exec(ctx, args...)
	return err
}

func migrationApplied(ctx context.Context, log *slog.Logger, conn Conn, version string) (bool, error) {
	stmt, err := conn.Prepare(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`)
	if err != nil {
		return false, err
	}
	var rows Rows
	defer func() { Close(ctx, log, nil, stmt, rows) }()

	rows, err = stmt.Query(ctx, version)
	if err != nil {
		return false, err
	}
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return false, errs.E(errs.Statement, "db.migrate", err)
		}
	}
	if err := rows.Err(); err != nil {
		return false, errs.Retag(errs.Statement, "db.migrate", err)
	}
	return n > 0, nil
}

func splitStatements(s string) []string {
	var out []string
	for _, q := range strings.Split(s, ";") {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
