package product

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"possync/cmd/client/cmd/types"
)

var (
	restockQty      int
	restockCost     string
	restockSupplier string
)

var RestockCmd = &cobra.Command{
	Use:   "restock <product-id>",
	Short: "Оприходовать поступление товара",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		var cost *decimal.Decimal
		if restockCost != "" {
			d, err := parseMoney("cost", restockCost)
			if err != nil {
				return err
			}
			cost = &d
		}

		mv, err := app.Store().Restock(args[0], restockQty, restockSupplier, cost)
		if err != nil {
			return fmt.Errorf("ошибка поступления: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(mv)
		}
		fmt.Printf("✅ %s: %d → %d\n", mv.ProductName, mv.PreviousQuantity, mv.NewQuantity)
		return nil
	},
}

func init() {
	RestockCmd.Flags().IntVar(&restockQty, "qty", 0, "количество")
	RestockCmd.Flags().StringVar(&restockCost, "cost", "", "закупочная цена за единицу")
	RestockCmd.Flags().StringVar(&restockSupplier, "supplier", "", "ID поставщика")
	_ = RestockCmd.MarkFlagRequired("qty")
}
