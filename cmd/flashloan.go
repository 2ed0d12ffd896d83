package cmd

import (
	"context"

	"lendefi/core"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// selfRepayReceiver returns the borrowed funds in one step, paying the fee
// out of the account's existing balance
type selfRepayReceiver struct {
	account string
}

func (r *selfRepayReceiver) Account() string {
	return r.account
}

func (r *selfRepayReceiver) OnFlashLoan(ctx context.Context, repay core.RepayFunc, amount, fee decimal.Decimal, data []byte) error {
	return repay(amount.Add(fee))
}

var flashLoanCmd = &cobra.Command{
	Use:   "flash-loan",
	Short: "run a self repaying flash loan to verify pool liquidity and fee accrual",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		account, _ := cmd.Flags().GetString("account")
		amount, _ := cmd.Flags().GetString("amount")

		database := provideDatabase()
		defer database.Close()

		sysConfigService := provideSysConfigService(provideSystem(), providePropertyStore(database))
		flashLoanService := provideFlashLoanService(
			database,
			providePoolStore(database),
			provideWalletService(provideWalletStore(database)),
			sysConfigService,
			provideTransactionStore(database),
		)

		if err := flashLoanService.FlashLoan(ctx, &selfRepayReceiver{account: account}, parseAmount(amount), nil); err != nil {
			panic(err)
		}

		cmd.Println("flash loan settled")
	},
}

func init() {
	rootCmd.AddCommand(flashLoanCmd)

	flashLoanCmd.Flags().String("account", "", "account that pays the fee")
	flashLoanCmd.Flags().String("amount", "", "loan amount")
}
