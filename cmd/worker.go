package cmd

import (
	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"

	"lever/worker"
	"lever/worker/accrual"
	"lever/worker/cashier"
	"lever/worker/priceoracle"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "lever job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		jobs := []worker.IJob{
			accrual.New(provideConfig(), database, providePoolStore(database), providePoolService(database)),
			priceoracle.New(provideConfig(), provideOracleStore(database), provideOracleService(database)),
			cashier.New(provideConfig(), provideTransferStore(database), provideTransferService(database)),
		}

		for _, job := range jobs {
			if err := job.Start(); err != nil {
				log.WithError(err).Fatal("start job")
			}
		}

		done := make(chan struct{})
		signal.WithContextFunc(ctx, func() {
			for _, job := range jobs {
				job.Stop()
			}
			close(done)
		})

		log.Infoln("workers started")
		<-done
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
