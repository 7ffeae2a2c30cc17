package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/member-store/internal/config"
	"github.com/baharkarakas/member-store/internal/db"
	"github.com/baharkarakas/member-store/internal/errs"
	"github.com/baharkarakas/member-store/internal/repository/sqldb"
)

func sqliteConfig(t *testing.T, max int) config.Database {
	return config.Database{
		Driver:         "sqlite",
		Mode:           "pooled",
		URL:            filepath.Join(t.TempDir(), "member.db") + "?_pragma=busy_timeout(5000)",
		MaxPoolSize:    max,
		PoolName:       "MyPool",
		AcquireTimeout: 5 * time.Second,
	}
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRun_SQLite(t *testing.T) {
	require.NoError(t, run(context.Background(), sqliteConfig(t, 3), discard(), 3, 12))
}

func TestAcquireTwo_NeedsTwoConnections(t *testing.T) {
	ctx := context.Background()
	c := sqliteConfig(t, 1)
	c.AcquireTimeout = 50 * time.Millisecond
	src, err := db.Open(ctx, c, discard())
	require.NoError(t, err)
	defer src.Close()

	err = acquireTwo(ctx, src, discard())
	assert.ErrorIs(t, err, errs.ErrConnectionTimeout)
	assert.Equal(t, 0, src.Stats().Active)
}

func TestCycle_LeavesNoRow(t *testing.T) {
	ctx := context.Background()
	src, err := db.Open(ctx, sqliteConfig(t, 2), discard())
	require.NoError(t, err)
	defer src.Close()
	require.NoError(t, db.RunMigrations(ctx, src, discard()))

	members := sqldb.NewMembers(src, discard())
	require.NoError(t, cycle(ctx, members, "chk-0"))

	_, err = members.FindByID(ctx, "chk-0")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
