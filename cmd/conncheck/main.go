// conncheck acquires connections from the configured source and drives the
// member CRUD cycle from concurrent workers, then reports pool stats. It exits
// non-zero if any cycle failed or a connection was not returned.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/baharkarakas/member-store/internal/config"
	"github.com/baharkarakas/member-store/internal/db"
	"github.com/baharkarakas/member-store/internal/logger"
	"github.com/baharkarakas/member-store/internal/models"
	"github.com/baharkarakas/member-store/internal/repository"
	"github.com/baharkarakas/member-store/internal/repository/sqldb"
	"github.com/baharkarakas/member-store/internal/worker"
)

func main() {
	workers := flag.Int("workers", 4, "concurrent CRUD workers")
	cycles := flag.Int("cycles", 20, "CRUD cycles to run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	if err := run(context.Background(), cfg.Database, log, *workers, *cycles); err != nil {
		log.Error("conncheck failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c config.Database, log *slog.Logger, workers, cycles int) error {
	src, err := db.Open(ctx, c, log)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := acquireTwo(ctx, src, log); err != nil {
		return err
	}
	if err := db.RunMigrations(ctx, src, log); err != nil {
		return err
	}

	before := src.Stats()
	failed := crud(ctx, sqldb.NewMembers(src, log), log, workers, cycles)
	after := src.Stats()

	fmt.Printf("pool=%s total=%d active=%d idle=%d max=%d cycles=%d failed=%d\n",
		after.Name, after.Total, after.Active, after.Idle, after.Max, cycles, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d cycles failed", failed, cycles)
	}
	if after.Active != before.Active {
		return fmt.Errorf("active connections %d, want %d", after.Active, before.Active)
	}
	return nil
}

// acquireTwo holds two connections at once, logs them, then gives both back.
func acquireTwo(ctx context.Context, src db.Source, log *slog.Logger) error {
	con1, err := src.Acquire(ctx)
	if err != nil {
		return err
	}
	defer db.Close(ctx, log, con1, nil, nil)

	con2, err := src.Acquire(ctx)
	if err != nil {
		return err
	}
	defer db.Close(ctx, log, con2, nil, nil)

	st := src.Stats()
	log.Info("connection", "n", 1, "conn", fmt.Sprintf("%p", con1), "pool", st.Name)
	log.Info("connection", "n", 2, "conn", fmt.Sprintf("%p", con2), "pool", st.Name, "active", st.Active)
	return nil
}

func crud(ctx context.Context, members repository.Members, log *slog.Logger, workers, cycles int) int64 {
	var failed atomic.Int64
	p := worker.NewPool(ctx, workers)
	for i := 0; i < cycles; i++ {
		id := fmt.Sprintf("chk-%d", i)
		p.Submit(func(ctx context.Context) {
			if err := cycle(ctx, members, id); err != nil {
				failed.Add(1)
				log.Error("cycle failed", "member_id", id, "err", err)
			}
		})
	}
	p.Stop()
	return failed.Load()
}

// cycle is save, find, update, find, delete on one member id.
func cycle(ctx context.Context, members repository.Members, id string) error {
	m := models.NewMember(id, 10000)
	if _, err := members.Save(ctx, m); err != nil {
		return err
	}
	found, err := members.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if found != m {
		return fmt.Errorf("found %+v, saved %+v", found, m)
	}
	if _, err := members.Update(ctx, id, 20000); err != nil {
		return err
	}
	if found, err = members.FindByID(ctx, id); err != nil {
		return err
	}
	if found.Money != 20000 {
		return fmt.Errorf("money %d after update, want 20000", found.Money)
	}
	_, err = members.Delete(ctx, id)
	return err
}
