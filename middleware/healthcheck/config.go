package healthcheck

import (
	"github.com/gofiber/fiber/v2"
)

// Config defines the configuration options for the healthcheck middleware.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Function used for checking the liveness of the application. Returns true if the application
	// is running and false if it is not.
	//
	// Optional. Default: func(c *fiber.Ctx) bool { return true }
	LivenessCheck HealthChecker

	// Route shape of the liveness endpoint.
	//
	// Optional. Default: "/livez"
	LivenessEndpoint string

	// Function used for checking the readiness of the application. Returns true if the application
	// is ready to process requests and false otherwise.
	//
	// Optional. Default: func(c *fiber.Ctx) bool { return true }
	ReadinessCheck HealthChecker

	// Route shape of the readiness endpoint.
	//
	// Optional. Default: "/readyz"
	ReadinessEndpoint string
}

const (
	DefaultLivenessEndpoint  = "/livez"
	DefaultReadinessEndpoint = "/readyz"
)

func defaultCheck(*fiber.Ctx) bool { return true }

func defaultConfig(config ...Config) Config {
	if len(config) < 1 {
		return Config{
			LivenessCheck:     defaultCheck,
			ReadinessCheck:    defaultCheck,
			LivenessEndpoint:  DefaultLivenessEndpoint,
			ReadinessEndpoint: DefaultReadinessEndpoint,
		}
	}

	cfg := config[0]

	if cfg.LivenessCheck == nil {
		cfg.LivenessCheck = defaultCheck
	}
	if cfg.ReadinessCheck == nil {
		cfg.ReadinessCheck = defaultCheck
	}
	if cfg.LivenessEndpoint == "" {
		cfg.LivenessEndpoint = DefaultLivenessEndpoint
	}
	if cfg.ReadinessEndpoint == "" {
		cfg.ReadinessEndpoint = DefaultReadinessEndpoint
	}
	return cfg
}
