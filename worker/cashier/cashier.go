package cashier

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"lever/core"
	"lever/worker"
)

const batchSize = 64

// Worker delivers queued outbound transfers to the settlement
// endpoint and marks them handled
type Worker struct {
	worker.BaseJob
	config          *core.Config
	transferStore   core.ITransferStore
	transferService core.ITransferService
}

// New new cashier worker
func New(
	cfg *core.Config,
	transferStr core.ITransferStore,
	transferSrv core.ITransferService,
) *Worker {
	job := Worker{
		config:          cfg,
		transferStore:   transferStr,
		transferService: transferSrv,
	}

	l, _ := time.LoadLocation(cfg.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 2s"
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "cashier")

	transfers, err := w.transferStore.Top(ctx, batchSize)
	if err != nil {
		log.WithError(err).Errorln("transfers.Top")
		return err
	}

	var g errgroup.Group
	for _, transfer := range transfers {
		transfer := transfer
		if transfer.Direction != core.TransferDirectionOut {
			continue
		}

		g.Go(func() error {
			if err := w.transferService.Settle(ctx, transfer); err != nil {
				log.WithError(err).Errorln("settle:", transfer.TraceID)
			}
			return nil
		})
	}

	return g.Wait()
}
