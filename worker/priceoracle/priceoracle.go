package priceoracle

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"

	"lever/core"
	"lever/worker"
)

// Worker rolls the oracle accumulators forward so averaged prices
// stay at most one window old
type Worker struct {
	worker.BaseJob
	config        *core.Config
	oracleStore   core.IOracleStore
	oracleService core.IOracleService
}

// New new price oracle worker
func New(
	cfg *core.Config,
	oracleStr core.IOracleStore,
	oracleSrv core.IOracleService,
) *Worker {
	job := Worker{
		config:        cfg,
		oracleStore:   oracleStr,
		oracleService: oracleSrv,
	}

	l, _ := time.LoadLocation(cfg.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 30s"
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	prices, err := w.oracleStore.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("oracle.All")
		return err
	}

	for _, price := range prices {
		if price.External {
			continue
		}

		if _, err := w.oracleService.UpdateAndGetPrice(ctx, price.AssetID); err != nil {
			if err == core.ErrPriceNotReady {
				continue
			}
			log.WithError(err).Errorln("update price:", price.AssetID)
		}
	}

	return nil
}
