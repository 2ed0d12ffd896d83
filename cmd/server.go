package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lendefi/handler"
	"lendefi/handler/hc"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run lendefi api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		propertyStore := providePropertyStore(database)
		assetStore := provideAssetStore(database)
		tierStore := provideTierStore(database)
		positionStore := providePositionStore(database)
		poolStore := providePoolStore(database)
		priceStore := providePriceStore(database)
		transactionStore := provideTransactionStore(database)

		sysConfigService := provideSysConfigService(system, propertyStore)
		priceService := providePriceService(priceStore)
		assetService := provideAssetService(database, system, assetStore, tierStore)
		walletService := provideWalletService(provideWalletStore(database))
		poolService := providePoolService(database, poolStore, walletService, sysConfigService, transactionStore)
		positionService := providePositionService(database, assetStore, tierStore, positionStore, poolStore, priceService, walletService, sysConfigService, transactionStore)

		server := handler.New(
			assetStore,
			positionStore,
			transactionStore,
			assetService,
			positionService,
			poolService,
			priceService,
			sysConfigService,
		)

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(middleware.NewCompressor(5).Handler)

		mux.Mount("/hc", hc.Handle(rootCmd.Version))
		mux.Mount("/api", server.HandleRestAPI())

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		srv := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		logrus.Infoln("serve at", addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
}
