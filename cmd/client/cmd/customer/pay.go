package customer

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"possync/cmd/client/cmd/types"
)

var payNote string

var PayCmd = &cobra.Command{
	Use:   "pay <customer-id> <amount>",
	Short: "Принять погашение долга",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("неверная сумма %q", args[1])
		}

		tx, err := app.Store().RecordCreditPayment(args[0], amount, payNote)
		if err != nil {
			return fmt.Errorf("ошибка погашения: %w", err)
		}
		balance, err := app.Store().CreditBalance(args[0])
		if err != nil {
			return err
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(map[string]any{"transaction": tx, "balance": balance})
		}
		fmt.Printf("✅ Принято: %s\n", tx.Amount.StringFixed(2))
		if tx.Amount.LessThan(amount) {
			fmt.Printf("Сумма сверх долга не проведена: %s\n", amount.Sub(tx.Amount).StringFixed(2))
		}
		fmt.Printf("Остаток долга: %s\n", balance.StringFixed(2))
		return nil
	},
}

func init() {
	PayCmd.Flags().StringVar(&payNote, "note", "", "комментарий")
}
