package router

import (
	"fmt"
	"reflect"

	"github.com/gofiber/fiber/v2"

	"github.com/oarkflow/pathmatch/utils"
)

const (
	paramsKey        = "params"
	chainHandlersKey = "chain_handlers"
	chainIndexKey    = "chain_index"
)

type middlewareEntry struct {
	id      uintptr
	handler fiber.Handler
}

func wrapMiddleware(m fiber.Handler) middlewareEntry {
	return middlewareEntry{
		id:      reflect.ValueOf(m).Pointer(),
		handler: m,
	}
}

func middlewareIDsEqual(a fiber.Handler, b middlewareEntry) bool {
	return reflect.ValueOf(a).Pointer() == b.id
}

// Next runs the next handler of the route chain. Middlewares call it instead
// of c.Next() since the chain lives in the request locals.
func Next(c *fiber.Ctx) error {
	idx, ok := c.Locals(chainIndexKey).(int)
	if !ok {
		idx = 0
	}
	handlers, ok := c.Locals(chainHandlersKey).([]fiber.Handler)
	if !ok || idx >= len(handlers) {
		return nil
	}
	c.Locals(chainIndexKey, idx+1)
	if err := handlers[idx](c); err != nil {
		return fmt.Errorf("middleware[%d] error: %w", idx, err)
	}
	return nil
}

// Params returns what the route shape captured for the current request.
func Params(c *fiber.Ctx) utils.Params {
	params, _ := c.Locals(paramsKey).(utils.Params)
	return params
}

func Param(c *fiber.Ctx, name string) string {
	return Params(c).Get(name)
}

// Rest returns the segments absorbed by a "**" shape segment.
func Rest(c *fiber.Ctx) []string {
	rest, _ := Params(c).Rest()
	return rest
}
