package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var showConfigCmd = &cobra.Command{
	Use:   "sysconfig",
	Short: "show protocol config",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		sysConfigService := provideSysConfigService(provideSystem(), providePropertyStore(database))

		cfg, err := sysConfigService.Get(ctx)
		if err != nil {
			panic(err)
		}

		paused, err := sysConfigService.Paused(ctx)
		if err != nil {
			panic(err)
		}

		bs, _ := json.MarshalIndent(cfg, "", "  ")
		cmd.Println(string(bs))
		cmd.Println("paused:", paused)
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set-sysconfig",
	Short: "replace protocol config",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		operator, _ := cmd.Flags().GetString("operator")

		database := provideDatabase()
		defer database.Close()

		sysConfigService := provideSysConfigService(provideSystem(), providePropertyStore(database))

		cfg, err := sysConfigService.Get(ctx)
		if err != nil {
			panic(err)
		}

		if fee, e := cmd.Flags().GetInt64("flash-loan-fee"); e == nil && cmd.Flags().Changed("flash-loan-fee") {
			cfg.FlashLoanFee = fee
		}
		if rate, e := cmd.Flags().GetInt64("borrow-rate"); e == nil && cmd.Flags().Changed("borrow-rate") {
			cfg.BorrowRate = rate
		}
		if threshold, e := cmd.Flags().GetString("liquidator-threshold"); e == nil && cmd.Flags().Changed("liquidator-threshold") {
			cfg.LiquidatorThreshold = parseAmount(threshold)
		}

		if err := sysConfigService.Load(ctx, operator, cfg); err != nil {
			panic(err)
		}

		cmd.Println("config saved")
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "halt all mutating operations",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		operator, _ := cmd.Flags().GetString("operator")

		database := provideDatabase()
		defer database.Close()

		sysConfigService := provideSysConfigService(provideSystem(), providePropertyStore(database))
		if err := sysConfigService.Pause(ctx, operator); err != nil {
			panic(err)
		}

		cmd.Println("protocol paused")
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "resume mutating operations",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		operator, _ := cmd.Flags().GetString("operator")

		database := provideDatabase()
		defer database.Close()

		sysConfigService := provideSysConfigService(provideSystem(), providePropertyStore(database))
		if err := sysConfigService.Resume(ctx, operator); err != nil {
			panic(err)
		}

		cmd.Println("protocol resumed")
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(setConfigCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)

	setConfigCmd.Flags().String("operator", "", "manager account")
	setConfigCmd.Flags().Int64("flash-loan-fee", 0, "flash loan fee, basis points")
	setConfigCmd.Flags().Int64("borrow-rate", 0, "fallback annual borrow rate, scaled 1e6")
	setConfigCmd.Flags().String("liquidator-threshold", "", "minimum pool shares to liquidate")

	pauseCmd.Flags().String("operator", "", "pauser account")
	resumeCmd.Flags().String("operator", "", "pauser account")
}
