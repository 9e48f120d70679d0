// Package types общие для команд CLI ключи и помощники.
package types

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"possync/internal/app/client"
)

type contextKey string

// ClientAppKey ключ приложения в контексте команды
const ClientAppKey contextKey = "client_app"

// App достает приложение, созданное корневой командой
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}

// JSONOutput включен ли глобальный флаг --json
func JSONOutput(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool("json")
	return err == nil && v
}

// PrintJSON печатает значение с отступами
func PrintJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
