package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

const pingTimeout = 2 * time.Second

// Pinger проверка доступности хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	pinger     Pinger
	log        *slog.Logger
	middleware huma.Middlewares
}

// NewHandler pinger может быть nil, тогда состояние хранилища не проверяется
func NewHandler(pinger Pinger, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		pinger:     pinger,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.pingOp(), h.ping)
}

func (h *Handler) ping(ctx context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	if h.pinger == nil {
		return &Output{Body: Response{Status: "OK"}}, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := h.pinger.Ping(pingCtx); err != nil {
		h.log.Warn("datastore ping failed", "error", err)
		return nil, huma.Error503ServiceUnavailable("datastore unavailable")
	}

	return &Output{Body: Response{Status: "OK", Database: "up"}}, nil
}
