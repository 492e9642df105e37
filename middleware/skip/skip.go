package skip

import (
	"github.com/gofiber/fiber/v2"

	router "github.com/oarkflow/pathmatch"
	"github.com/oarkflow/pathmatch/utils"
)

// New creates a middleware handler which skips the wrapped handler
// if the exclude predicate returns true.
func New(handler fiber.Handler, exclude func(c *fiber.Ctx) bool) fiber.Handler {
	if exclude == nil {
		return handler
	}

	return func(c *fiber.Ctx) error {
		if exclude(c) {
			return router.Next(c)
		}

		return handler(c)
	}
}

// Shapes skips the wrapped handler for requests whose path matches any of
// the given route shapes, e.g. "/health" or "/assets/**".
func Shapes(handler fiber.Handler, shapes ...string) fiber.Handler {
	if len(shapes) == 0 {
		return handler
	}
	compiled := make([]*utils.Shape, 0, len(shapes))
	for _, s := range shapes {
		compiled = append(compiled, utils.Compile(s))
	}
	return New(handler, func(c *fiber.Ctx) bool {
		for _, s := range compiled {
			if _, ok := s.Match(c.Path()); ok {
				return true
			}
		}
		return false
	})
}
