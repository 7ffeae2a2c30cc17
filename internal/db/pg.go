package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/member-store/internal/config"
	"github.com/baharkarakas/member-store/internal/errs"
)

// PoolSource borrows connections from a pgxpool. Acquire waits at most
// AcquireTimeout for a free connection.
type PoolSource struct {
	pool    *pgxpool.Pool
	name    string
	timeout time.Duration
	log     *slog.Logger
}

func NewPool(ctx context.Context, c config.Database, log *slog.Logger) (*PoolSource, error) {
	cfg, err := pgxpool.ParseConfig(c.URL)
	if err != nil {
		return nil, errs.E(errs.Connection, "db.pool", fmt.Errorf("parse url: %w", err))
	}
	cfg.MaxConns = int32(c.MaxPoolSize)
	applyCredentials(cfg.ConnConfig, c)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errs.E(errs.Connection, "db.pool", err)
	}
	log.Info("pool started", "pool", c.PoolName, "max", c.MaxPoolSize, "acquire_timeout", c.AcquireTimeout)
	return &PoolSource{pool: pool, name: c.PoolName, timeout: c.AcquireTimeout, log: log}, nil
}

func (s *PoolSource) Acquire(ctx context.Context) (Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pc, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, acquireError(s.name, s.timeout, err)
	}
	s.log.Debug("get connection", "pool", s.name, "pid", pc.Conn().PgConn().PID())
	return &pgxConn{
		conn: pc.Conn(),
		release: func(context.Context) error {
			pc.Release()
			return nil
		},
	}, nil
}

func (s *PoolSource) Stats() Stats {
	st := s.pool.Stat()
	return Stats{
		Name:   s.name,
		Total:  int(st.TotalConns()),
		Active: int(st.AcquiredConns()),
		Idle:   int(st.IdleConns()),
		Max:    int(st.MaxConns()),
	}
}

func (s *PoolSource) Close() { s.pool.Close() }

// applyCredentials lets DB_USERNAME / DB_PASSWORD override the URL and tags
// every session with the pool name.
func applyCredentials(cc *pgx.ConnConfig, c config.Database) {
	if c.Username != "" {
		cc.User = c.Username
	}
	if c.Password != "" {
		cc.Password = c.Password
	}
	if c.PoolName != "" {
		if cc.RuntimeParams == nil {
			cc.RuntimeParams = map[string]string{}
		}
		cc.RuntimeParams["application_name"] = c.PoolName
	}
}
