package sqldb

import (
	"context"
	"log/slog"
	"time"

	"github.com/baharkarakas/member-store/internal/db"
	"github.com/baharkarakas/member-store/internal/errs"
	"github.com/baharkarakas/member-store/internal/metrics"
	"github.com/baharkarakas/member-store/internal/models"
	"github.com/baharkarakas/member-store/internal/repository"
)

const (
	insertMember = `insert into member(member_id, money) values(?, ?)`
	selectMember = `select member_id, money from member where member_id = ?`
	updateMember = `update member set money=? where member_id=?`
	deleteMember = `delete from member where member_id=?`
)

type membersRepo struct {
	src db.Source
	log *slog.Logger
}

func NewMembers(src db.Source, log *slog.Logger) repository.Members {
	return &membersRepo{src: src, log: log}
}

func (r *membersRepo) Save(ctx context.Context, m models.Member) (_ models.Member, err error) {
	defer r.observe("save", time.Now(), &err)

	var (
		conn db.Conn
		stmt db.Stmt
	)
	defer func() { db.Close(ctx, r.log, conn, stmt, nil) }()

	if conn, err = r.src.Acquire(ctx); err != nil {
		return models.Member{}, r.fail("member.save", err)
	}
	if stmt, err = conn.Prepare(ctx, insertMember); err != nil {
		return models.Member{}, r.fail("member.save", err)
	}
	if _, err = stmt.Exec(ctx, m.MemberID, m.Money); err != nil {
		return models.Member{}, r.fail("member.save", err)
	}
	return m, nil
}

func (r *membersRepo) FindByID(ctx context.Context, memberID string) (_ models.Member, err error) {
	defer r.observe("find", time.Now(), &err)

	var (
		conn db.Conn
		stmt db.Stmt
		rows db.Rows
	)
	defer func() { db.Close(ctx, r.log, conn, stmt, rows) }()

	if conn, err = r.src.Acquire(ctx); err != nil {
		return models.Member{}, r.fail("member.find", err)
	}
	if stmt, err = conn.Prepare(ctx, selectMember); err != nil {
		return models.Member{}, r.fail("member.find", err)
	}
	if rows, err = stmt.Query(ctx, memberID); err != nil {
		return models.Member{}, r.fail("member.find", err)
	}

	if rows.Next() {
		var m models.Member
		if err = rows.Scan(&m.MemberID, &m.Money); err != nil {
			return models.Member{}, r.fail("member.find", errs.E(errs.Statement, "member.find", err))
		}
		return m, nil
	}
	if err = rows.Err(); err != nil {
		return models.Member{}, r.fail("member.find", err)
	}
	return models.Member{}, errs.NotFoundf("member.find", "member not found, memberId=%s", memberID)
}

func (r *membersRepo) Update(ctx context.Context, memberID string, money int) (_ int64, err error) {
	defer r.observe("update", time.Now(), &err)
	n, err := r.exec(ctx, "member.update", updateMember, money, memberID)
	if err != nil {
		return 0, err
	}
	r.log.Info("result size", "op", "member.update", "member_id", memberID, "count", n)
	return n, nil
}

func (r *membersRepo) Delete(ctx context.Context, memberID string) (_ int64, err error) {
	defer r.observe("delete", time.Now(), &err)
	n, err := r.exec(ctx, "member.delete", deleteMember, memberID)
	if err != nil {
		return 0, err
	}
	r.log.Info("result size", "op", "member.delete", "member_id", memberID, "count", n)
	return n, nil
}

// exec runs one keyed write and returns the affected row count.
func (r *membersRepo) exec(ctx context.Context, op, query string, args ...any) (n int64, err error) {
	var (
		conn db.Conn
		stmt db.Stmt
	)
	defer func() { db.Close(ctx, r.log, conn, stmt, nil) }()

	if conn, err = r.src.Acquire(ctx); err != nil {
		return 0, r.fail(op, err)
	}
	if stmt, err = conn.Prepare(ctx, query); err != nil {
		return 0, r.fail(op, err)
	}
	if n, err = stmt.Exec(ctx, args...); err != nil {
		return 0, r.fail(op, err)
	}
	return n, nil
}

// fail logs a database failure and hands it back tagged; untagged errors
// become StatementErrors.
func (r *membersRepo) fail(op string, err error) error {
	err = errs.Retag(errs.Statement, op, err)
	r.log.Error("db error", "op", op, "kind", errs.KindOf(err).String(), "err", err)
	return err
}

func (r *membersRepo) observe(op string, start time.Time, errp *error) {
	outcome := "ok"
	if *errp != nil {
		outcome = errs.KindOf(*errp).String()
	}
	metrics.RepoOperations.WithLabelValues(op, outcome).Inc()
	metrics.RepoLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
