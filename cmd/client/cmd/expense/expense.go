package expense

import (
	"github.com/spf13/cobra"
)

// ExpenseCmd - родительская команда для расходов магазина
var ExpenseCmd = &cobra.Command{
	Use:     "expense",
	Aliases: []string{"expenses"},
	Short:   "Расходы магазина",
}
