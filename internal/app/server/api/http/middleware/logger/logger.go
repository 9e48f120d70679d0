package logger

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"possync/internal/app/server/api/http/middleware/auth"
)

// slowRequest порог, после которого запрос логируется предупреждением
const slowRequest = 2 * time.Second

// Logger пишет одну строку на запрос кассы
type Logger struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Logger {
	return &Logger{
		log: log.With(slog.String("component", "http_logger")),
	}
}

// Middleware уровень записи зависит от ответа: 5xx ошибка, 4xx и медленные запросы предупреждение
func (l *Logger) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()
		next(ctx)
		elapsed := time.Since(start)

		status := ctx.Status()
		attrs := []any{
			slog.String("method", ctx.Method()),
			slog.String("path", ctx.URL().Path),
			slog.Int("status", status),
			slog.Duration("duration", elapsed),
			slog.String("remote_addr", ctx.RemoteAddr()),
		}
		if q := ctx.URL().RawQuery; q != "" {
			attrs = append(attrs, slog.String("query", q))
		}
		// id магазина есть только за auth-мидлварью
		if shopID, ok := auth.GetShopID(ctx.Context()); ok {
			attrs = append(attrs, slog.String("shop_id", shopID))
		}

		switch {
		case status >= 500:
			l.log.Error("HTTP request failed", attrs...)
		case status >= 400:
			l.log.Warn("HTTP request rejected", attrs...)
		case elapsed > slowRequest:
			l.log.Warn("HTTP request slow", attrs...)
		default:
			l.log.Info("HTTP request", attrs...)
		}
	}
}
