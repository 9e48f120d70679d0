package product

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"possync/cmd/client/cmd/types"
	"possync/internal/domain/retail"
)

var listLowStock bool

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список товаров",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		var products []retail.Product
		if listLowStock {
			products = app.Store().LowStockProducts()
		} else {
			products = app.Store().Products()
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(products)
		}

		if len(products) == 0 {
			fmt.Println("Товары не найдены")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tНАЗВАНИЕ\tЦЕНА\tОСТАТОК\t")
		for _, p := range products {
			mark := ""
			if p.IsLowStock() {
				mark = " ⚠️"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d %s%s\t\n", p.ID, p.Name, p.SellingPrice.StringFixed(2), p.Quantity, p.Unit, mark)
		}
		return w.Flush()
	},
}

func init() {
	ListCmd.Flags().BoolVar(&listLowStock, "low", false, "только товары на исходе")
}
