package middleware

import (
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
)

func TestChain_WithDoesNotMutate(t *testing.T) {
	var calls []string
	mark := func(name string) Func {
		return func(ctx huma.Context, next func(huma.Context)) {
			calls = append(calls, name)
			next(ctx)
		}
	}

	base := NewChain(mark("logger"))
	public := base.With()
	shop := NewChain(mark("auth")).With(mark("logger"))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 1, public.Len())
	assert.Equal(t, 2, shop.Len())

	for _, mw := range shop.Middlewares() {
		mw(nil, func(huma.Context) {})
	}
	assert.Equal(t, []string{"auth", "logger"}, calls)

	mws := base.Middlewares()
	mws[0] = nil
	assert.NotNil(t, base.Middlewares()[0])
}
