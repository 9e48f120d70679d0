package product

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// ProductCmd - родительская команда для работы с каталогом товаров
var ProductCmd = &cobra.Command{
	Use:     "product",
	Aliases: []string{"products"},
	Short:   "Каталог товаров",
}

func parseMoney(flag, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("неверное значение --%s: %q", flag, value)
	}
	return d, nil
}
