package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"possync/cmd/client/cmd/auth"
	"possync/cmd/client/cmd/customer"
	"possync/cmd/client/cmd/expense"
	"possync/cmd/client/cmd/product"
	"possync/cmd/client/cmd/sale"
	"possync/cmd/client/cmd/sync"
	"possync/cmd/client/cmd/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Запустить кассу в фоне с автосинхронизацией",
	Long: `Команда run выполняет холодный старт:
	1. Загружает локальное состояние магазина
	2. Выполняет одну полную синхронизацию
	3. Запускает синхронизацию по таймеру до SIGINT/SIGTERM`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return app.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Аутентификация магазина
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)

	// Синхронизация
	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(sync.StatusCmd)

	// Товары
	rootCmd.AddCommand(product.ProductCmd)
	product.ProductCmd.AddCommand(product.AddCmd)
	product.ProductCmd.AddCommand(product.ListCmd)
	product.ProductCmd.AddCommand(product.RestockCmd)
	product.ProductCmd.AddCommand(product.RemoveCmd)
	product.ProductCmd.AddCommand(product.ImportCmd)

	// Продажи
	rootCmd.AddCommand(sale.SaleCmd)
	sale.SaleCmd.AddCommand(sale.CheckoutCmd)

	// Покупатели
	rootCmd.AddCommand(customer.CustomerCmd)
	customer.CustomerCmd.AddCommand(customer.AddCmd)
	customer.CustomerCmd.AddCommand(customer.PayCmd)

	// Расходы
	rootCmd.AddCommand(expense.ExpenseCmd)
	expense.ExpenseCmd.AddCommand(expense.AddCmd)
}
