package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"possync/cmd/client/cmd/types"
	"possync/internal/app/client"
	"possync/internal/app/client/syncer"
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Синхронизировать данные магазина",
	Long: `Полная синхронизация всех таблиц магазина с удаленным хранилищем.

Товары и покупатели сливаются по времени изменения, продажи, расходы
и движения товара дополняются с обеих сторон.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if !app.RemoteConfigured() {
			return fmt.Errorf("%w: задайте SERVER_ADDRESS или REMOTE_DATABASE_URL", syncer.ErrRemoteNotConfigured)
		}
		if !app.IsAuthenticated() {
			return fmt.Errorf("требуется аутентификация. Выполните: possync auth login")
		}

		fmt.Println("Проверка соединения...")
		if err := app.CheckConnection(cmd.Context()); err != nil {
			return fmt.Errorf("хранилище недоступно: %w", err)
		}

		start := time.Now()
		ok, event := app.SyncNow(cmd.Context())
		if !ok {
			return fmt.Errorf("синхронизация не выполнена: %s", event.Message)
		}

		stats := app.Sync().Stats()
		if types.JSONOutput(cmd) {
			return types.PrintJSON(stats)
		}

		fmt.Println("✅ Синхронизация завершена!")
		fmt.Printf("Время выполнения: %v\n", time.Since(start).Round(time.Millisecond))
		fmt.Printf("Отправлено: %d записей\n", stats.TotalUploaded)
		fmt.Printf("Получено: %d записей\n", stats.TotalDownloaded)
		return nil
	},
}

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние кассы и синхронизации",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		return showStatus(cmd, app)
	},
}

func showStatus(cmd *cobra.Command, app *client.App) error {
	cfg := app.Config()

	lastSync, err := app.Sync().LastSyncTime()
	if err != nil {
		return fmt.Errorf("ошибка чтения времени синхронизации: %w", err)
	}
	pending, err := app.Sync().PendingSyncCount()
	if err != nil {
		return fmt.Errorf("ошибка подсчета продаж: %w", err)
	}
	summary := app.Store().DailySummary(time.Now())

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	connErr := app.CheckConnection(ctx)

	if types.JSONOutput(cmd) {
		return types.PrintJSON(map[string]any{
			"shop_id":       cfg.ShopID,
			"mode":          app.Mode(),
			"status":        app.Sync().Status(),
			"last_sync":     lastSync,
			"pending_sales": pending,
			"online":        connErr == nil,
			"authenticated": app.IsAuthenticated(),
			"today":         summary,
		})
	}

	fmt.Println("=== Состояние кассы ===")
	fmt.Printf("Магазин: %s\n", cfg.ShopID)
	fmt.Printf("Хранилище: %s (%s)\n", app.Mode(), cfg.StorageBackend)
	if connErr != nil {
		fmt.Printf("Соединение: ❌ %v\n", connErr)
	} else {
		fmt.Println("Соединение: ✅")
	}
	switch {
	case !app.RemoteConfigured():
		fmt.Println("Аутентификация: не требуется, сервер не настроен")
	case app.IsAuthenticated():
		fmt.Println("Аутентификация: ✅")
	default:
		fmt.Println("Аутентификация: ❌ выполните possync auth login")
	}

	if lastSync == "" {
		fmt.Println("Последняя синхронизация: никогда")
	} else {
		fmt.Printf("Последняя синхронизация: %s\n", lastSync)
	}
	fmt.Printf("Неотправленных продаж: %d\n", pending)

	fmt.Println()
	fmt.Printf("=== Сегодня (%s) ===\n", summary.Date)
	fmt.Printf("Продаж: %d, товаров: %d\n", summary.SalesCount, summary.ItemsSold)
	fmt.Printf("Выручка: %s\n", summary.Revenue.StringFixed(2))
	fmt.Printf("Валовая прибыль: %s\n", summary.GrossProfit.StringFixed(2))
	fmt.Printf("Расходы: %s\n", summary.Expenses.StringFixed(2))
	fmt.Printf("Чистая прибыль: %s\n", summary.NetProfit.StringFixed(2))
	return nil
}
