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

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Получить токен магазина",
	Long: `Аутентификация магазина на сервере по секрету.

Токен сохраняется локально и используется синхронизацией.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("Магазин: %s\n", app.Config().ShopID)
		fmt.Print("Секрет: ")
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения секрета: %w", err)
		}
		fmt.Println()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		tok, err := app.Login(ctx, string(secret))
		if err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		fmt.Printf("✅ Вход выполнен, токен действует до %s\n", tok.ExpiresAt.Local().Format("2006-01-02 15:04"))

		fmt.Println("Синхронизация данных...")
		if ok, event := app.SyncNow(ctx); !ok {
			fmt.Printf("⚠️  Синхронизация не выполнена: %s\n", event.Message)
			fmt.Println("Вы можете продолжить работу в офлайн-режиме")
		} else {
			fmt.Println("✓ Данные синхронизированы")
		}
		return nil
	},
}
