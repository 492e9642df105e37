package healthcheck

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rohanthewiz/assert"

	router "github.com/oarkflow/pathmatch"
)

func setup(cfg ...Config) *fiber.App {
	app := fiber.New()
	dr := router.New(app)
	dr.Use(New(cfg...))
	dr.AddRoute("GET", "/**", func(c *fiber.Ctx) error {
		return c.SendString("app")
	})
	return app
}

func status(t *testing.T, app *fiber.App, method, path string) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	assert.Nil(t, err)
	return resp.StatusCode
}

func TestDefaultEndpoints(t *testing.T) {
	app := setup()
	assert.Equal(t, status(t, app, "GET", "/livez"), fiber.StatusOK)
	assert.Equal(t, status(t, app, "GET", "/readyz/"), fiber.StatusOK)
	assert.Equal(t, status(t, app, "GET", "/other"), fiber.StatusOK)
	assert.Equal(t, status(t, app, "POST", "/livez"), fiber.StatusNotFound)
}

func TestHealthChecks(t *testing.T) {
	ready := false
	app := setup(Config{
		ReadinessCheck:    func(*fiber.Ctx) bool { return ready },
		ReadinessEndpoint: "/status/:service/ready",
	})
	assert.Equal(t, status(t, app, "GET", "/status/db/ready"), fiber.StatusServiceUnavailable)
	ready = true
	assert.Equal(t, status(t, app, "GET", "/status/db/ready"), fiber.StatusOK)
	assert.Equal(t, status(t, app, "GET", "/livez"), fiber.StatusOK)
}
