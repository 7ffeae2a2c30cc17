package sqldb

import (
	"log/slog"

	"github.com/baharkarakas/member-store/internal/db"
	repo "github.com/baharkarakas/member-store/internal/repository"
)

type Repositories struct {
	Members repo.Members
}

func NewRepositories(src db.Source, log *slog.Logger) Repositories {
	return Repositories{
		Members: NewMembers(src, log),
	}
}
