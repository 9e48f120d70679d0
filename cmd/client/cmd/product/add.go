package product

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"possync/cmd/client/cmd/types"
	"possync/internal/app/client/store"
)

var (
	addCategory  string
	addBarcode   string
	addUnit      string
	addCost      string
	addPrice     string
	addQuantity  int
	addThreshold int
)

var AddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Добавить товар",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		price, err := parseMoney("price", addPrice)
		if err != nil {
			return err
		}
		cost := decimal.Zero
		if addCost != "" {
			if cost, err = parseMoney("cost", addCost); err != nil {
				return err
			}
		}

		in := store.ProductInput{
			Name:              args[0],
			CostPrice:         cost,
			SellingPrice:      price,
			Quantity:          addQuantity,
			Unit:              addUnit,
			LowStockThreshold: addThreshold,
			Barcode:           addBarcode,
		}
		if addCategory != "" {
			in.Category = &addCategory
		}

		p, err := app.Store().AddProduct(in)
		if err != nil {
			return fmt.Errorf("ошибка добавления товара: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(p)
		}
		fmt.Printf("✅ Товар добавлен: %s (ID: %s)\n", p.Name, p.ID)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVar(&addPrice, "price", "", "цена продажи")
	AddCmd.Flags().StringVar(&addCost, "cost", "", "закупочная цена")
	AddCmd.Flags().StringVar(&addCategory, "category", "", "категория")
	AddCmd.Flags().StringVar(&addBarcode, "barcode", "", "штрихкод")
	AddCmd.Flags().StringVar(&addUnit, "unit", "", "единица измерения")
	AddCmd.Flags().IntVar(&addQuantity, "qty", 0, "начальный остаток")
	AddCmd.Flags().IntVar(&addThreshold, "low-stock", 0, "порог малого остатка")
	_ = AddCmd.MarkFlagRequired("price")
}
