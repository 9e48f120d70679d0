package product

import (
	"fmt"

	"github.com/spf13/cobra"

	"possync/cmd/client/cmd/types"
)

var ImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Загрузить каталог из Excel",
	Long: `Загрузка товаров из первого листа книги xlsx.

Обязательные колонки: name и selling_price. Существующие товары
ищутся по штрихкоду, затем по названию, и пополняются.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		res, err := app.ImportProducts(args[0])
		if err != nil {
			return fmt.Errorf("ошибка импорта: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(res)
		}
		fmt.Println("✅ Импорт завершен")
		fmt.Printf("Создано: %d, обновлено: %d, пополнено: %d\n", res.Created, res.Updated, res.Restocked)
		return nil
	},
}
