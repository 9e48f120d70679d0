package customer

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"possync/cmd/client/cmd/types"
	"possync/internal/app/client/store"
)

var (
	addPhone string
	addLimit string
)

var AddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Добавить покупателя",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		limit := decimal.Zero
		if addLimit != "" {
			if limit, err = decimal.NewFromString(addLimit); err != nil {
				return fmt.Errorf("неверный кредитный лимит %q", addLimit)
			}
		}

		c, err := app.Store().AddCustomer(store.CustomerInput{
			Name:        args[0],
			Phone:       addPhone,
			CreditLimit: limit,
		})
		if err != nil {
			return fmt.Errorf("ошибка добавления покупателя: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(c)
		}
		fmt.Printf("✅ Покупатель добавлен: %s (ID: %s)\n", c.Name, c.ID)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVar(&addPhone, "phone", "", "телефон")
	AddCmd.Flags().StringVar(&addLimit, "credit-limit", "", "кредитный лимит")
}
