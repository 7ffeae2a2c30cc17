package db

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/baharkarakas/member-store/internal/config"
	"github.com/baharkarakas/member-store/internal/errs"
)

// SQLSource borrows connections from database/sql's pool. It backs the
// sqlite driver.
type SQLSource struct {
	db      *sqlx.DB
	name    string
	timeout time.Duration
	log     *slog.Logger
}

func NewSQLSource(ctx context.Context, c config.Database, log *slog.Logger) (*SQLSource, error) {
	d, err := sqlx.Open(c.Driver, c.URL)
	if err != nil {
		return nil, errs.E(errs.Connection, "db.sql", err)
	}
	d.SetMaxOpenConns(c.MaxPoolSize)
	d.SetMaxIdleConns(c.MaxPoolSize)

	if err := d.PingContext(ctx); err != nil {
		d.Close()
		return nil, errs.E(errs.Connection, "db.sql", err)
	}
	log.Info("pool started", "pool", c.PoolName, "driver", c.Driver, "max", c.MaxPoolSize, "acquire_timeout", c.AcquireTimeout)
	return &SQLSource{db: d, name: c.PoolName, timeout: c.AcquireTimeout, log: log}, nil
}

func (s *SQLSource) Acquire(ctx context.Context) (Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	c, err := s.db.Conn(ctx)
	if err != nil {
		return nil, acquireError(s.name, s.timeout, err)
	}
	s.log.Debug("get connection", "pool", s.name)
	return &sqlConn{conn: c, rebind: s.db.Rebind}, nil
}

func (s *SQLSource) Stats() Stats {
	st := s.db.Stats()
	return Stats{
		Name:   s.name,
		Total:  st.OpenConnections,
		Active: st.InUse,
		Idle:   st.Idle,
		Max:    st.MaxOpenConnections,
	}
}

func (s *SQLSource) Close() { _ = s.db.Close() }

type sqlConn struct {
	conn   *sql.Conn
	rebind func(string) string
}

func (c *sqlConn) Prepare(ctx context.Context, query string) (Stmt, error) {
	st, err := c.conn.PrepareContext(ctx, c.rebind(query))
	if err != nil {
		return nil, statementError("db.prepare", err)
	}
	return &sqlStmt{stmt: st}, nil
}

func (c *sqlConn) Release(context.Context) error { return c.conn.Close() }

type sqlStmt struct{ stmt *sql.Stmt }

func (s *sqlStmt) Exec(ctx context.Context, args ...any) (int64, error) {
	res, err := s.stmt.ExecContext(ctx, args...)
	if err != nil {
		return 0, statementError("db.exec", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, statementError("db.exec", err)
	}
	return n, nil
}

func (s *sqlStmt) Query(ctx context.Context, args ...any) (Rows, error) {
	rows, err := s.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, statementError("db.query", err)
	}
	return rows, nil
}

func (s *sqlStmt) Close(context.Context) error { return s.stmt.Close() }
