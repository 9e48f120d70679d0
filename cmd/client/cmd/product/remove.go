package product

import (
	"fmt"

	"github.com/spf13/cobra"

	"possync/cmd/client/cmd/types"
	"possync/internal/domain/retail"
)

var (
	removeQty    int
	removeType   string
	removeReason string
)

var RemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Списать товар: порча, возврат поставщику, пересчет",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		mv, err := app.Store().RemoveStock(args[0], removeQty, retail.MovementType(removeType), removeReason)
		if err != nil {
			return fmt.Errorf("ошибка списания: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(mv)
		}
		fmt.Printf("✅ %s (%s): %d → %d\n", mv.ProductName, mv.Type, mv.PreviousQuantity, mv.NewQuantity)
		return nil
	},
}

func init() {
	RemoveCmd.Flags().IntVar(&removeQty, "qty", 0, "количество")
	RemoveCmd.Flags().StringVar(&removeType, "type", string(retail.MovementAdjustment), "adjustment, return или damage")
	RemoveCmd.Flags().StringVar(&removeReason, "reason", "", "причина списания")
	_ = RemoveCmd.MarkFlagRequired("qty")
}
