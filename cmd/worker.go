package cmd

import (
	"sync"

	"lendefi/worker"
	"lendefi/worker/priceoracle"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "lendefi job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		assetStore := provideAssetStore(database)
		priceStore := providePriceStore(database)
		priceService := providePriceService(priceStore)

		workers := []worker.Worker{
			priceoracle.New(cfg.PriceOracle.PullInterval, database, assetStore, priceStore, priceService),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				_ = worker.Run(ctx)
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
