package expense

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"possync/cmd/client/cmd/types"
	"possync/internal/app/client/store"
	"possync/internal/domain/retail"
)

var (
	addCategory    string
	addDescription string
	addPayment     string
)

var AddCmd = &cobra.Command{
	Use:   "add <amount>",
	Short: "Записать расход",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		amount, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("неверная сумма %q", args[0])
		}

		e, err := app.Store().AddExpense(store.ExpenseInput{
			Category:      addCategory,
			Description:   addDescription,
			Amount:        amount,
			PaymentMethod: retail.PaymentMethod(addPayment),
		})
		if err != nil {
			return fmt.Errorf("ошибка записи расхода: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(e)
		}
		fmt.Printf("✅ Расход записан: %s %s (ID: %s)\n", e.Amount.StringFixed(2), e.Category, e.ID)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVar(&addCategory, "category", "other", "категория")
	AddCmd.Flags().StringVar(&addDescription, "description", "", "описание")
	AddCmd.Flags().StringVar(&addPayment, "payment", string(retail.PaymentCash), "способ оплаты: cash, transfer, pos")
}
