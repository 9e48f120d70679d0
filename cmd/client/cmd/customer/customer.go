package customer

import (
	"github.com/spf13/cobra"
)

// CustomerCmd - родительская команда для покупателей и их долгов
var CustomerCmd = &cobra.Command{
	Use:     "customer",
	Aliases: []string{"customers"},
	Short:   "Покупатели и кредитная книга",
}
