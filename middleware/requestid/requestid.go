package requestid

import (
	"github.com/gofiber/fiber/v2"

	router "github.com/oarkflow/pathmatch"
)

const maxIDLength = 128

// New creates a new middleware handler
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return router.Next(c)
		}
		// Reuse the caller's id unless it is unusable as a header value
		rid := c.Get(cfg.Header)
		if !valid(rid) {
			rid = cfg.Generator()
		}
		c.Set(cfg.Header, rid)
		c.Locals(cfg.ContextKey, rid)
		return router.Next(c)
	}
}

// FromContext returns the request id stored by the middleware.
func FromContext(c *fiber.Ctx, config ...Config) string {
	cfg := configDefault(config...)
	rid, _ := c.Locals(cfg.ContextKey).(string)
	return rid
}

func valid(rid string) bool {
	if rid == "" || len(rid) > maxIDLength {
		return false
	}
	for i := 0; i < len(rid); i++ {
		if rid[i] < 0x21 || rid[i] > 0x7e {
			return false
		}
	}
	return true
}
