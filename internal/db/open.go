package db

import (
	"context"
	"log/slog"

	"github.com/baharkarakas/member-store/internal/config"
)

// Open builds the Source selected by DB_DRIVER and DB_MODE.
func Open(ctx context.Context, c config.Database, log *slog.Logger) (Source, error) {
	switch {
	case c.Driver == "sqlite":
		s, err := NewSQLSource(ctx, c, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case c.Mode == "direct":
		s, err := NewDirectSource(c, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := NewPool(ctx, c, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
