package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/member-store/internal/config"
	"github.com/baharkarakas/member-store/internal/errs"
)

// pgConfig returns a config for the server named by TEST_DATABASE_URL and
// skips the test when it is unset.
func pgConfig(t *testing.T, maxPool int, timeout time.Duration) config.Database {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return config.Database{
		Driver:         "postgres",
		URL:            url,
		MaxPoolSize:    maxPool,
		PoolName:       "MyPool",
		AcquireTimeout: timeout,
	}
}

func TestDirectSource_NewConnectionPerAcquire(t *testing.T) {
	src, err := NewDirectSource(pgConfig(t, 1, time.Second), discardLogger())
	require.NoError(t, err)
	ctx := context.Background()

	con1, err := src.Acquire(ctx)
	require.NoError(t, err)
	con2, err := src.Acquire(ctx)
	require.NoError(t, err)

	pid1 := con1.(*pgxConn).conn.PgConn().PID()
	pid2 := con2.(*pgxConn).conn.PgConn().PID()
	assert.NotEqual(t, pid1, pid2)
	assert.Equal(t, 2, src.Stats().Active)

	require.NoError(t, con1.Release(ctx))
	require.NoError(t, con2.Release(ctx))
	assert.Equal(t, 0, src.Stats().Active)
}

func TestPoolSource_AcquireTimesOutWhenPoolExhausted(t *testing.T) {
	ctx := context.Background()
	src, err := NewPool(ctx, pgConfig(t, 1, 200*time.Millisecond), discardLogger())
	require.NoError(t, err)
	defer src.Close()

	held, err := src.Acquire(ctx)
	require.NoError(t, err)

	_, err = src.Acquire(ctx)
	assert.ErrorIs(t, err, errs.ErrConnectionTimeout)

	require.NoError(t, held.Release(ctx))
	assert.Equal(t, 0, src.Stats().Active)
	assert.Equal(t, 1, src.Stats().Max)
}

func TestPoolSource_PrepareExecDeallocate(t *testing.T) {
	ctx := context.Background()
	src, err := NewPool(ctx, pgConfig(t, 2, time.Second), discardLogger())
	require.NoError(t, err)
	defer src.Close()
	require.NoError(t, RunMigrations(ctx, src, discardLogger()))

	conn, err := src.Acquire(ctx)
	require.NoError(t, err)
	defer Close(ctx, discardLogger(), conn, nil, nil)

	stmt, err := conn.Prepare(ctx, `delete from member where member_id = ?`)
	require.NoError(t, err)
	n, err := stmt.Exec(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	require.NoError(t, stmt.Close(ctx))
}
