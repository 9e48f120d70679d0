package logger

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"

	"possync/internal/app/server/api/http/middleware/auth"
)

func TestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		level  string
		status int
	}{
		{name: "ok", level: `"level":"INFO"`},
		{name: "client error", err: huma.Error404NotFound("unknown table"), level: `"level":"WARN"`, status: http.StatusNotFound},
		{name: "server error", err: huma.Error500InternalServerError("internal error"), level: `"level":"ERROR"`, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(slog.New(slog.NewJSONHandler(&buf, nil)))

			_, api := humatest.New(t)
			huma.Register(api, huma.Operation{
				Method:      http.MethodGet,
				Path:        "/api/v1/rest/{table}",
				Middlewares: huma.Middlewares{l.Middleware()},
			}, func(_ context.Context, _ *struct {
				Table string `path:"table"`
			}) (*struct{}, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return &struct{}{}, nil
			})

			resp := api.Get("/api/v1/rest/products?after=x")
			if tt.status != 0 {
				assert.Equal(t, tt.status, resp.Code)
			} else {
				assert.Less(t, resp.Code, http.StatusBadRequest)
			}

			out := buf.String()
			assert.Contains(t, out, tt.level)
			assert.Contains(t, out, `"path":"/api/v1/rest/products"`)
			assert.Contains(t, out, `"query":"after=x"`)
			assert.NotContains(t, out, "shop_id")
		})
	}
}

func TestLogger_ShopFromAuth(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewJSONHandler(&buf, nil)))

	withShop := func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, context.WithValue(ctx.Context(), auth.ShopIDKey, "shop-1")))
	}

	_, api := humatest.New(t)
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/ping",
		Middlewares: huma.Middlewares{withShop, l.Middleware()},
	}, func(_ context.Context, _ *struct{}) (*struct{}, error) {
		return &struct{}{}, nil
	})

	api.Get("/ping")
	assert.Contains(t, buf.String(), `"shop_id":"shop-1"`)
}
