// Package api собирает HTTP API хранилища магазинов.
//
//	GET  /api/v1/health          # Состояние сервиса (публичный)
//	POST /api/v1/shops/register  # Регистрация магазина (публичный)
//	POST /api/v1/auth/token      # Токен магазина (публичный)
//	POST /api/v1/rest/{table}    # Upsert строк (auth)
//	GET  /api/v1/rest/{table}    # Строки после метки времени (auth)
package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	healthAPI "possync/internal/app/server/api/http/health"
	"possync/internal/app/server/api/http/middleware"
	"possync/internal/app/server/api/http/middleware/auth"
	"possync/internal/app/server/api/http/middleware/logger"
	restAPI "possync/internal/app/server/api/http/rest"
	shopAPI "possync/internal/app/server/api/http/shop"
	"possync/internal/domain/session"
	"possync/internal/domain/shop"
	"possync/internal/domain/tables"
)

// Deps зависимости API
type Deps struct {
	Shops    shop.Repository
	Tables   tables.Repository
	Sessions session.Servicer
	// Pinger необязателен
	Pinger       healthAPI.Pinger
	MaxBatchRows int
}

type Handlers struct {
	Health *healthAPI.Handler
	Shop   *shopAPI.Handler
	Rest   *restAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(deps Deps, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("possync datastore API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
	}

	API := humachi.New(mux, config)

	h := handlers(deps, log)
	h.Health.SetupRoutes(API)
	h.Shop.SetupRoutes(API)
	h.Rest.SetupRoutes(API)

	return mux
}

func handlers(deps Deps, log *slog.Logger) *Handlers {
	authMW := auth.New(deps.Sessions, log)
	loggerMW := logger.New(log)

	// auth стоит перед логгером, чтобы в лог попадал shop_id
	public := middleware.NewChain(loggerMW.Middleware())
	shopScoped := middleware.NewChain(authMW.Middleware(), loggerMW.Middleware())

	shopService := shop.NewService(deps.Shops, shop.NewSecretValidator(), log)

	var tablesConfig *tables.ServiceConfig
	if deps.MaxBatchRows > 0 {
		tablesConfig = &tables.ServiceConfig{MaxBatchRows: deps.MaxBatchRows}
	}
	tablesService := tables.NewService(deps.Tables, log, tablesConfig)

	return &Handlers{
		Health: healthAPI.NewHandler(deps.Pinger, log, public.Middlewares()),
		Shop:   shopAPI.NewHandler(shopService, deps.Sessions, log, public.Middlewares()),
		Rest:   restAPI.NewHandler(tablesService, log, shopScoped.Middlewares()),
	}
}
