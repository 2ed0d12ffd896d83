package cmd

import (
	"lendefi/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

// command for migrating database
var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"setdb"},
	Short:   "migrate database tables",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			cmd.PrintErrln("migrate database error:", err)
			return
		}

		// seed the singleton pool row and the default tier table
		if err := providePoolStore(database).Init(ctx, cfg.App.PoolAssetID); err != nil {
			cmd.PrintErrln("init pool error:", err)
			return
		}

		if err := provideTierStore(database).Init(ctx, core.DefaultTierParams()); err != nil {
			cmd.PrintErrln("init tiers error:", err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
