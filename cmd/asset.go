package cmd

import (
	"encoding/json"
	"strings"

	"lendefi/core"
	"lendefi/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/yiplee/structs"
)

var listAssetsCmd = &cobra.Command{
	Use:     "assets",
	Aliases: []string{"la"},
	Short:   "list configured assets",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		assets, err := provideAssetStore(database).All(ctx)
		if err != nil {
			panic(err)
		}

		for _, a := range assets {
			cmd.Println(a.Symbol, a.AssetID, "tier:", a.Tier.String(),
				"borrow:", a.BorrowThreshold, "liquidation:", a.LiquidationThreshold,
				"active:", a.Active)
		}
	},
}

var setAssetCmd = &cobra.Command{
	Use:     "set-asset",
	Aliases: []string{"sa"},
	Short:   "create or overwrite an asset config",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		assetID, e := cmd.Flags().GetString("asset")
		if e != nil || assetID == "" {
			panic("invalid asset id")
		}

		symbol, _ := cmd.Flags().GetString("symbol")
		operator, _ := cmd.Flags().GetString("operator")
		tier, _ := cmd.Flags().GetInt("tier")
		borrowThreshold, _ := cmd.Flags().GetInt64("borrow-threshold")
		liquidationThreshold, _ := cmd.Flags().GetInt64("liquidation-threshold")
		maxSupply, _ := cmd.Flags().GetString("max-supply")
		debtCap, _ := cmd.Flags().GetString("debt-cap")
		oracleAssetID, _ := cmd.Flags().GetString("oracle-asset")
		decimals, _ := cmd.Flags().GetInt("decimals")

		asset := &core.Asset{
			AssetID:              assetID,
			Symbol:               strings.ToUpper(symbol),
			Active:               true,
			Decimals:             cast.ToInt32(decimals),
			BorrowThreshold:      borrowThreshold,
			LiquidationThreshold: liquidationThreshold,
			MaxSupply:            parseAmount(maxSupply),
			IsolationDebtCap:     parseAmount(debtCap),
			Tier:                 core.Tier(tier),
			OracleAssetID:        oracleAssetID,
			MinOracleCount:       1,
		}

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		assetService := provideAssetService(database, system, provideAssetStore(database), provideTierStore(database))

		if err := assetService.UpdateAssetConfig(ctx, operator, asset); err != nil {
			panic(err)
		}

		cmd.Println("asset saved")
		bs, _ := json.MarshalIndent(structs.Map(asset), "", "  ")
		cmd.Println(string(bs))
	},
}

func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}

	return number.Decimal(s)
}

func init() {
	rootCmd.AddCommand(listAssetsCmd)
	rootCmd.AddCommand(setAssetCmd)

	setAssetCmd.Flags().String("asset", "", "asset id")
	setAssetCmd.Flags().String("symbol", "", "asset symbol")
	setAssetCmd.Flags().String("operator", "", "manager account")
	setAssetCmd.Flags().Int("tier", 0, "risk tier, 0 STABLE 1 CROSS_A 2 CROSS_B 3 ISOLATED")
	setAssetCmd.Flags().Int64("borrow-threshold", 0, "borrow threshold, per mille")
	setAssetCmd.Flags().Int64("liquidation-threshold", 0, "liquidation threshold, per mille")
	setAssetCmd.Flags().String("max-supply", "", "collateral supply cap, empty for unbounded")
	setAssetCmd.Flags().String("debt-cap", "", "isolation debt cap, empty for unbounded")
	setAssetCmd.Flags().String("oracle-asset", "", "asset id used by the price feed")
	setAssetCmd.Flags().Int("decimals", 8, "token decimals")
}
