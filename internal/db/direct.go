package db

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/member-store/internal/config"
	"github.com/baharkarakas/member-store/internal/errs"
)

// DirectSource opens a new physical connection on every Acquire and closes it
// on Release. Nothing is reused.
type DirectSource struct {
	cfg    *pgx.ConnConfig
	name   string
	log    *slog.Logger
	active atomic.Int64
}

func NewDirectSource(c config.Database, log *slog.Logger) (*DirectSource, error) {
	cc, err := pgx.ParseConfig(c.URL)
	if err != nil {
		return nil, errs.E(errs.Connection, "db.direct", fmt.Errorf("parse url: %w", err))
	}
	applyCredentials(cc, c)
	return &DirectSource{cfg: cc, name: c.PoolName, log: log}, nil
}

func (s *DirectSource) Acquire(ctx context.Context) (Conn, error) {
	c, err := pgx.ConnectConfig(ctx, s.cfg.Copy())
	if err != nil {
		return nil, errs.E(errs.Connection, "db.acquire", err)
	}
	s.active.Add(1)
	s.log.Info("get connection", "pid", c.PgConn().PID(), "host", s.cfg.Host, "user", s.cfg.User)
	return &pgxConn{
		conn: c,
		release: func(ctx context.Context) error {
			s.active.Add(-1)
			return c.Close(ctx)
		},
	}, nil
}

func (s *DirectSource) Stats() Stats {
	n := int(s.active.Load())
	return Stats{Name: s.name, Total: n, Active: n}
}

func (s *DirectSource) Close() {}
