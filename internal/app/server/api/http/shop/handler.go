package shop

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"possync/internal/domain/session"
	"possync/internal/domain/shop"
)

type Handler struct {
	service    shop.Servicer
	session    session.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service shop.Servicer, session session.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		session:    session,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.tokenOp(), h.token)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	s, err := h.service.Register(ctx, input.Body.ShopID, input.Body.Name, input.Body.Secret)
	switch {
	case errors.Is(err, shop.ErrInvalidInput):
		return nil, huma.Error400BadRequest(err.Error())
	case errors.Is(err, shop.ErrExists):
		return nil, huma.Error409Conflict(err.Error())
	case err != nil:
		h.log.Error("register shop", "error", err)
		return nil, huma.Error500InternalServerError("register failed")
	}

	return &registerOutput{
		Body: RegisterResponse{ShopID: s.ID, Status: "Ok"},
	}, nil
}

func (h *Handler) token(ctx context.Context, input *tokenInput) (*tokenOutput, error) {
	s, err := h.service.Authenticate(ctx, input.Body.ShopID, input.Body.Secret)
	if err != nil {
		if errors.Is(err, shop.ErrInvalidAuth) {
			return nil, huma.Error401Unauthorized("Invalid credentials")
		}
		h.log.Error("authenticate shop", "error", err)
		return nil, huma.Error500InternalServerError("authentication failed")
	}

	token, err := h.session.Create(ctx, s.ID)
	if err != nil {
		h.log.Error("create session", "error", err)
		return nil, huma.Error500InternalServerError("token issue failed")
	}

	return &tokenOutput{
		Body: TokenResponse{Token: token.Value, ExpiresAt: token.ExpiresAt, Status: "Ok"},
	}, nil
}
