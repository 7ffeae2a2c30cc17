package services

import (
	"context"
	"log/slog"

	"github.com/baharkarakas/member-store/internal/errs"
	"github.com/baharkarakas/member-store/internal/models"
	repo "github.com/baharkarakas/member-store/internal/repository"
)

// MemberService sits between the HTTP layer and the repository. Unlike the
// repository it reports a write that matched no row as NotFound.
type MemberService struct {
	r   repo.Members
	log *slog.Logger
}

func NewMemberService(r repo.Members, log *slog.Logger) *MemberService {
	return &MemberService{r: r, log: log}
}

func (s *MemberService) Register(ctx context.Context, id string, money int) (models.Member, error) {
	m := models.NewMember(id, money)
	if err := m.Validate(); err != nil {
		return models.Member{}, &errs.Error{Kind: errs.Invalid, Op: "member.register", Msg: "invalid member", Err: err}
	}
	saved, err := s.r.Save(ctx, m)
	if err != nil {
		return models.Member{}, err
	}
	s.log.Info("member registered", "member_id", saved.MemberID)
	return saved, nil
}

func (s *MemberService) Get(ctx context.Context, id string) (models.Member, error) {
	if err := checkID("member.get", id); err != nil {
		return models.Member{}, err
	}
	return s.r.FindByID(ctx, id)
}

func (s *MemberService) SetMoney(ctx context.Context, id string, money int) (int64, error) {
	if err := checkID("member.set_money", id); err != nil {
		return 0, err
	}
	n, err := s.r.Update(ctx, id, money)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errs.NotFoundf("member.set_money", "member not found, memberId=%s", id)
	}
	return n, nil
}

func (s *MemberService) Remove(ctx context.Context, id string) error {
	if err := checkID("member.remove", id); err != nil {
		return err
	}
	n, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFoundf("member.remove", "member not found, memberId=%s", id)
	}
	s.log.Info("member removed", "member_id", id)
	return nil
}

func checkID(op, id string) error {
	if err := models.NewMember(id, 0).Validate(); err != nil {
		return &errs.Error{Kind: errs.Invalid, Op: op, Msg: "invalid member id", Err: err}
	}
	return nil
}
