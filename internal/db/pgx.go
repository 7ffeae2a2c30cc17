package db

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
)

// pgxConn adapts a *pgx.Conn, whether borrowed from a pool or opened directly.
type pgxConn struct {
	conn    *pgx.Conn
	release func(ctx context.Context) error
}

func (c *pgxConn) Prepare(ctx context.Context, query string) (Stmt, error) {
	name := "stmt_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := c.conn.Prepare(ctx, name, sqlx.Rebind(sqlx.DOLLAR, query)); err != nil {
		return nil, statementError("db.prepare", err)
	}
	return &pgxStmt{conn: c.conn, name: name}, nil
}

func (c *pgxConn) Release(ctx context.Context) error { return c.release(ctx) }

type pgxStmt struct {
	conn *pgx.Conn
	name string
}

func (s *pgxStmt) Exec(ctx context.Context, args ...any) (int64, error) {
	tag, err := s.conn.Exec(ctx, s.name, args...)
	if err != nil {
		return 0, statementError("db.exec", err)
	}
	return tag.RowsAffected(), nil
}

func (s *pgxStmt) Query(ctx context.Context, args ...any) (Rows, error) {
	rows, err := s.conn.Query(ctx, s.name, args...)
	if err != nil {
		return nil, statementError("db.query", err)
	}
	return &pgxRows{rows: rows}, nil
}

func (s *pgxStmt) Close(ctx context.Context) error {
	return s.conn.Deallocate(ctx, s.name)
}

type pgxRows struct{ rows pgx.Rows }

func (r *pgxRows) Next() bool             { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *pgxRows) Err() error             { return r.rows.Err() }

func (r *pgxRows) Close() error {
	r.rows.Close()
	return nil
}
