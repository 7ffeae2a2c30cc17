// Package db supplies connections to the repository layer. A Source hands out
// one Conn per operation; the caller prepares a single statement on it and
// releases everything through Close before returning.
package db

import "context"

// Source is the connection capability the repository depends on. Direct and
// pooled sources are interchangeable behind it.
type Source interface {
	Acquire(ctx context.Context) (Conn, error)
	Stats() Stats
	Close()
}

// Conn is a live session scoped to one repository operation.
type Conn interface {
	// Prepare takes a query with positional ? placeholders.
	Prepare(ctx context.Context, query string) (Stmt, error)
	Release(ctx context.Context) error
}

type Stmt interface {
	Exec(ctx context.Context, args ...any) (int64, error)
	Query(ctx context.Context, args ...any) (Rows, error)
	Close(ctx context.Context) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type Stats struct {
	Name   string
	Total  int
	Active int
	Idle   int
	Max    int
}
