package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Func сигнатура мидлвари huma
type Func = func(ctx huma.Context, next func(huma.Context))

// Chain неизменяемая цепочка мидлварей. With возвращает новую цепочку,
// поэтому общий префикс можно переиспользовать для нескольких групп операций.
type Chain struct {
	mws huma.Middlewares
}

func NewChain(mws ...Func) Chain {
	return Chain{}.With(mws...)
}

// With добавляет мидлвари в конец, исходная цепочка не меняется
func (c Chain) With(mws ...Func) Chain {
	next := make(huma.Middlewares, 0, len(c.mws)+len(mws))
	next = append(next, c.mws...)
	next = append(next, mws...)
	return Chain{mws: next}
}

// Middlewares копия цепочки для huma.Operation
func (c Chain) Middlewares() huma.Middlewares {
	out := make(huma.Middlewares, len(c.mws))
	copy(out, c.mws)
	return out
}

func (c Chain) Len() int {
	return len(c.mws)
}
