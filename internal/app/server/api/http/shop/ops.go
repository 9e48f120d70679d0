package shop

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) registerOp() huma.Operation {
	return huma.Operation{
		OperationID:   "shop-register",
		Method:        http.MethodPost,
		Path:          "/api/v1/shops/register",
		Summary:       "Регистрация магазина",
		Tags:          []string{"shops"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) tokenOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-token",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/token",
		Summary:     "Выдача токена магазина",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}
