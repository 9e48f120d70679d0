package rest

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"possync/internal/app/server/api/http/middleware/auth"
	"possync/internal/domain/datastore"
	"possync/internal/domain/tables"
)

type Handler struct {
	service    tables.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service tables.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.pushOp(), h.push)
	huma.Register(api, h.pullOp(), h.pull)
}

func (h *Handler) push(ctx context.Context, input *pushInput) (*pushOutput, error) {
	shopID, ok := auth.GetShopID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	count, err := h.service.Push(ctx, shopID, input.Table, input.Body.Rows, input.Body.OnConflict)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &pushOutput{
		Body: PushResponse{Status: "Ok", Count: count},
	}, nil
}

func (h *Handler) pull(ctx context.Context, input *pullInput) (*pullOutput, error) {
	shopID, ok := auth.GetShopID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	if input.ShopID != "" && input.ShopID != shopID {
		return nil, huma.Error403Forbidden("token does not grant access to this shop")
	}

	rows, err := h.service.Pull(ctx, shopID, input.Table, input.Column, input.After)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &pullOutput{
		Body: PullResponse{Rows: rows},
	}, nil
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, datastore.ErrUnknownTable):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, tables.ErrForeignShop):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, tables.ErrBatchTooLarge):
		return huma.Error413RequestEntityTooLarge(err.Error())
	case errors.Is(err, datastore.ErrUnknownColumn),
		errors.Is(err, datastore.ErrShopRequired),
		errors.Is(err, tables.ErrEmptyBatch),
		errors.Is(err, tables.ErrMissingID),
		errors.Is(err, tables.ErrMissingColumn),
		errors.Is(err, tables.ErrConflictKey):
		return huma.Error400BadRequest(err.Error())
	}

	h.log.Error("table operation failed", "error", err)
	return huma.Error500InternalServerError("internal error")
}
