package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/baharkarakas/member-store/internal/errs"
)

const pgUniqueViolation = "23505"

// statementError tags a prepare/execute failure. Key collisions become
// DuplicateKey so callers can tell them apart from other rejected statements.
func statementError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		return errs.E(errs.DuplicateKey, op, err)
	}
	var ce *pgconn.ConnectError
	if errors.As(err, &ce) {
		return errs.E(errs.Connection, op, err)
	}
	return errs.E(errs.Statement, op, err)
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
		return strings.Contains(sqlErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

// acquireError tags a failed borrow. Running out of the wait budget is a
// ConnectionTimeout; anything else is a plain ConnectionError.
func acquireError(pool string, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &errs.Error{
			Kind: errs.ConnectionTimeout,
			Op:   "db.acquire",
			Msg:  fmt.Sprintf("%s - connection is not available, request timed out after %s", pool, timeout),
			Err:  err,
		}
	}
	return errs.E(errs.Connection, "db.acquire", err)
}
