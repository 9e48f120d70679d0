package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"possync/cmd/client/cmd/types"
)

var shopName string

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрировать магазин на сервере",
	Long: `Регистрация магазина на сервере хранилища.

Секрет магазина общий для всех касс: с ним каждая касса получает свой токен.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		fmt.Print("Секрет: ")
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения секрета: %w", err)
		}
		fmt.Println()

		fmt.Print("Повторите секрет: ")
		confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения секрета: %w", err)
		}
		fmt.Println()

		if string(secret) != string(confirm) {
			return fmt.Errorf("секреты не совпадают")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.RegisterShop(ctx, shopName, string(secret)); err != nil {
			return fmt.Errorf("ошибка регистрации: %w", err)
		}

		fmt.Println("✅ Магазин зарегистрирован")
		fmt.Println("Теперь выполните: possync auth login")
		return nil
	},
}

func init() {
	RegisterCmd.Flags().StringVar(&shopName, "name", "", "название магазина")
}
