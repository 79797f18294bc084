package accrual

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/robfig/cron/v3"

	"lever/core"
	"lever/worker"
)

// Worker accrues every pool once per tick
type Worker struct {
	worker.BaseJob
	db          *db.DB
	config      *core.Config
	poolStore   core.IPoolStore
	poolService core.IPoolService
}

// New new accrual worker
func New(
	cfg *core.Config,
	database *db.DB,
	poolStr core.IPoolStore,
	poolSrv core.IPoolService,
) *Worker {
	job := Worker{
		db:          database,
		config:      cfg,
		poolStore:   poolStr,
		poolService: poolSrv,
	}

	l, _ := time.LoadLocation(cfg.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 10s"
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "accrual")

	pools, err := w.poolStore.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("pools.All")
		return err
	}

	now := time.Now()
	for _, pool := range pools {
		pool := pool
		if err := w.db.Tx(func(tx *db.DB) error {
			return w.poolService.Accrue(ctx, tx, pool, now)
		}); err != nil {
			log.WithError(err).Errorln("accrue:", pool.Symbol)
		}
	}

	return nil
}
