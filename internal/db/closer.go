package db

import (
	"context"
	"log/slog"
)

// Close releases rows, then stmt, then conn. Any of them may be nil. A failed
// release is logged and the next one is still attempted; nothing is returned
// because the operation's outcome is already decided by the time this runs.
func Close(ctx context.Context, log *slog.Logger, conn Conn, stmt Stmt, rows Rows) {
	// a cancelled caller must still give its connection back
	ctx = context.WithoutCancel(ctx)

	if rows != nil {
		if err := rows.Close(); err != nil {
			log.Error("close result set", "err", err)
		}
	}
	if stmt != nil {
		if err := stmt.Close(ctx); err != nil {
			log.Error("close statement", "err", err)
		}
	}
	if conn != nil {
		if err := conn.Release(ctx); err != nil {
			log.Error("release connection", "err", err)
		}
	}
}
