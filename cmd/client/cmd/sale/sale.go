package sale

import (
	"github.com/spf13/cobra"
)

// SaleCmd - родительская команда для продаж
var SaleCmd = &cobra.Command{
	Use:     "sale",
	Aliases: []string{"sales"},
	Short:   "Продажи",
}
