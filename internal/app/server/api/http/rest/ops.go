package rest

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) pushOp() huma.Operation {
	return huma.Operation{
		OperationID: "rest-upsert",
		Method:      http.MethodPost,
		Path:        "/api/v1/rest/{table}",
		Summary:     "Вставка или обновление строк",
		Description: "Строки приписываются магазину из токена. Повтор запроса безопасен.",
		Tags:        []string{"rest"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) pullOp() huma.Operation {
	return huma.Operation{
		OperationID: "rest-select",
		Method:      http.MethodGet,
		Path:        "/api/v1/rest/{table}",
		Summary:     "Чтение строк после метки времени",
		Tags:        []string{"rest"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
