package healthcheck

import (
	"github.com/gofiber/fiber/v2"

	router "github.com/oarkflow/pathmatch"
	"github.com/oarkflow/pathmatch/utils"
)

// HealthChecker defines a function to check liveness or readiness of the application
type HealthChecker func(*fiber.Ctx) bool

func healthCheckerHandler(checker HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if checker(c) {
			return c.SendStatus(fiber.StatusOK)
		}
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}
}

// New answers GET requests on the liveness and readiness shapes and passes
// everything else down the chain. Shapes are matched after normalization, so
// "/livez/" and "//livez" hit the liveness endpoint too.
func New(config ...Config) fiber.Handler {
	cfg := defaultConfig(config...)

	liveShape := utils.Compile(cfg.LivenessEndpoint)
	readyShape := utils.Compile(cfg.ReadinessEndpoint)
	isLiveHandler := healthCheckerHandler(cfg.LivenessCheck)
	isReadyHandler := healthCheckerHandler(cfg.ReadinessCheck)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return router.Next(c)
		}
		if c.Method() != fiber.MethodGet {
			return router.Next(c)
		}
		if _, ok := readyShape.Match(c.Path()); ok {
			return isReadyHandler(c)
		}
		if _, ok := liveShape.Match(c.Path()); ok {
			return isLiveHandler(c)
		}
		return router.Next(c)
	}
}
