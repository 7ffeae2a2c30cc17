package sqldb

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/baharkarakas/member-store/internal/db"
)

// --- Mock Source / Conn / Stmt / Rows ---

type mockSource struct{ mock.Mock }

func (m *mockSource) Acquire(ctx context.Context) (db.Conn, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.(db.Conn), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSource) Stats() db.Stats { return db.Stats{} }
func (m *mockSource) Close()          {}

type mockConn struct {
	mock.Mock
	order *[]string
}

func (m *mockConn) Prepare(ctx context.Context, query string) (db.Stmt, error) {
	args := m.Called(ctx, query)
	if s := args.Get(0); s != nil {
		return s.(db.Stmt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConn) Release(ctx context.Context) error {
	*m.order = append(*m.order, "conn")
	return m.Called(ctx).Error(0)
}

type mockStmt struct {
	mock.Mock
	order *[]string
}

func (m *mockStmt) Exec(ctx context.Context, args ...any) (int64, error) {
	ret := m.Called(ctx, args)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *mockStmt) Query(ctx context.Context, args ...any) (db.Rows, error) {
	ret := m.Called(ctx, args)
	if r := ret.Get(0); r != nil {
		return r.(db.Rows), ret.Error(1)
	}
	return nil, ret.Error(1)
}

func (m *mockStmt) Close(ctx context.Context) error {
	*m.order = append(*m.order, "stmt")
	return m.Called(ctx).Error(0)
}

type stubRows struct {
	order   *[]string
	rows    [][]any
	pos     int
	err     error
	scanErr error
}

func (r *stubRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.rows[r.pos-1]
	*dest[0].(*string) = row[0].(string)
	*dest[1].(*int) = row[1].(int)
	return nil
}

func (r *stubRows) Err() error { return r.err }

func (r *stubRows) Close() error {
	*r.order = append(*r.order, "rows")
	return nil
}
