package repository

import (
	"context"

	"github.com/baharkarakas/member-store/internal/models"
)

// Members is CRUD over the member table keyed by member id. Every call
// acquires and releases its own connection.
//
// Update and Delete report how many rows matched; zero is not an error.
// FindByID returns an errs.NotFound error when no row matches.
type Members interface {
	Save(ctx context.Context, m models.Member) (models.Member, error)
	FindByID(ctx context.Context, memberID string) (models.Member, error)
	Update(ctx context.Context, memberID string, money int) (int64, error)
	Delete(ctx context.Context, memberID string) (int64, error)
}
