package router

import (
	"strconv"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rohanthewiz/assert"
)

func passThrough(c *fiber.Ctx) error {
	return Next(c)
}

func TestRouteChangesWhileServing(t *testing.T) {
	app, dr := newTestRouter()
	dr.AddRoute("GET", "/users/:id", serveString("v0"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			dr.UpdateRoute("GET", "/users/:id", serveString("v"+strconv.Itoa(i%2)))
			dr.AddMiddleware("GET", "/users/:id", passThrough)
			dr.RemoveMiddleware("GET", "/users/:id", passThrough)
			dr.Use(passThrough)
		}
	}()
	for i := 0; i < 50; i++ {
		resp, body := doRequest(t, app, "GET", "/users/1")
		assert.Equal(t, resp.StatusCode, fiber.StatusOK)
		assert.True(t, body == "v0" || body == "v1")
	}
	wg.Wait()
}

func TestGroupChangesKeepShapePrecedence(t *testing.T) {
	app, dr := newTestRouter()
	api := dr.Group("/api")
	api.Get("/:id", serveString("group"))
	dr.AddRoute("GET", "/api/**", serveString("catchall"))

	_, body := doRequest(t, app, "GET", "/api/7")
	assert.Equal(t, body, "group")

	api.AddMiddleware(passThrough)
	_, body = doRequest(t, app, "GET", "/api/7")
	assert.Equal(t, body, "group")

	api.RemoveMiddleware(passThrough)
	_, body = doRequest(t, app, "GET", "/api/7")
	assert.Equal(t, body, "group")

	dr.UpdateRoute("GET", "/api/:id", serveString("updated"))
	_, body = doRequest(t, app, "GET", "/api/7")
	assert.Equal(t, body, "updated")

	dr.RenameRoute("GET", "/api/:id", "/api/[id]")
	_, body = doRequest(t, app, "GET", "/api/7")
	assert.Equal(t, body, "updated")
	_, body = doRequest(t, app, "GET", "/api/7/files")
	assert.Equal(t, body, "catchall")
	assert.DeepEqual(t, dr.ListRoutes(), []string{"GET /api/[id]", "GET /api/**"})
}

func TestRenameOntoRegisteredShape(t *testing.T) {
	app, dr := newTestRouter()
	dr.AddRoute("GET", "/a/:id", serveString("first"))
	dr.AddRoute("GET", "/b/:id", serveString("second"))

	dr.RenameRoute("GET", "/b/:id", "//a/:id/")
	assert.DeepEqual(t, dr.ListRoutes(), []string{"GET //a/:id/"})
	_, body := doRequest(t, app, "GET", "/a/1")
	assert.Equal(t, body, "second")
}

func TestGroupRemoveRouteByMethod(t *testing.T) {
	app, dr := newTestRouter()
	things := dr.Group("/things")
	things.Get("/:id", serveString("get"))
	things.Post("/:id", serveString("post"))

	things.RemoveRoute("post", "/:id/")
	resp, _ := doRequest(t, app, "POST", "/things/1")
	assert.Equal(t, resp.StatusCode, fiber.StatusNotFound)
	_, body := doRequest(t, app, "GET", "/things/1")
	assert.Equal(t, body, "get")
	assert.Equal(t, len(things.routes), 1)

	things.RemoveRoute("DELETE", "/:id")
	assert.Equal(t, len(things.routes), 1)
}

func TestDuplicateShapeReplacesInPlace(t *testing.T) {
	app, dr := newTestRouter()
	dr.AddRoute("GET", "/x", serveString("first"))
	dr.AddRoute("GET", "//x/", serveString("second"))
	dr.AddRoute("GET", "/u/:id", serveString("u1"))
	dr.AddRoute("GET", "/u/**", serveString("rest"))
	dr.AddRoute("GET", "/u/:id/", serveString("u2"))
	assert.Equal(t, len(dr.ListRoutes()), 3)

	_, body := doRequest(t, app, "GET", "/x")
	assert.Equal(t, body, "second")

	_, body = doRequest(t, app, "GET", "/u/1")
	assert.Equal(t, body, "u2")

	_, body = doRequest(t, app, "GET", "/u/1/2")
	assert.Equal(t, body, "rest")
}
