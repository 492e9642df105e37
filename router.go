package router

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/oarkflow/log"

	"github.com/oarkflow/pathmatch/utils"
)

type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"`
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	errResp := ErrorResponse{
		Timestamp: time.Now(),
		Error:     err.Error(),
	}
	log.Error().Str("path", c.Path()).Msg(err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(errResp)
}

type Route struct {
	Method      string
	Path        string
	Handler     fiber.Handler
	Middlewares []middlewareEntry
	shape       *utils.Shape
}

// Shape returns the compiled shape the route was registered with.
func (dr *Route) Shape() *utils.Shape {
	return dr.shape
}

func (dr *Route) Serve(c *fiber.Ctx, globalMWs []middlewareEntry, compress bool) error {
	chain := make([]fiber.Handler, 0, len(globalMWs)+len(dr.Middlewares)+1)
	for _, m := range globalMWs {
		chain = append(chain, m.handler)
	}
	for _, m := range dr.Middlewares {
		chain = append(chain, m.handler)
	}
	chain = append(chain, dr.Handler)
	c.Locals(chainHandlersKey, chain)
	c.Locals(chainIndexKey, 0)
	if err := Next(c); err != nil {
		return fmt.Errorf("chain error: %w", err)
	}
	if !compress || len(c.Response().Header.Peek(fiber.HeaderContentEncoding)) > 0 {
		return nil
	}
	body := c.Response().Body()
	if len(body) == 0 {
		return nil
	}
	compData, encoding, err := utils.Negotiate(c.Get(fiber.HeaderAcceptEncoding), body)
	if err != nil {
		return fmt.Errorf("compression error: %w", err)
	}
	if encoding != "" {
		c.Response().Header.Set(fiber.HeaderContentEncoding, encoding)
		c.Response().SetBodyRaw(compData)
	}
	return nil
}

// clone returns a copy whose middleware slice is not shared. Installed routes
// are never modified: mutators swap in a clone so in-flight requests keep
// serving the route they matched.
func (dr *Route) clone() *Route {
	next := *dr
	next.Middlewares = slices.Clone(dr.Middlewares)
	return &next
}

type methodRoutes struct {
	exact  map[string]*Route
	params []*Route
}

func newMethodRoutes() *methodRoutes {
	return &methodRoutes{
		exact:  make(map[string]*Route),
		params: []*Route{},
	}
}

// add installs route. A route whose shape normalizes to an already registered
// one takes its place, keeping the old registration position.
func (mr *methodRoutes) add(route *Route) (replaced bool) {
	key := utils.Normalize(route.Path)
	if route.shape.IsStatic() {
		_, replaced = mr.exact[key]
		mr.exact[key] = route
		return replaced
	}
	for i, existing := range mr.params {
		if utils.Normalize(existing.Path) == key {
			mr.params[i] = route
			return true
		}
	}
	mr.params = append(mr.params, route)
	return false
}

// find returns the route registered under the given shape, comparing shapes
// in normalized form. The index is -1 for static shapes.
func (mr *methodRoutes) find(path string) (*Route, int) {
	key := utils.Normalize(path)
	if route, ok := mr.exact[key]; ok {
		return route, -1
	}
	for i, route := range mr.params {
		if utils.Normalize(route.Path) == key {
			return route, i
		}
	}
	return nil, -1
}

func (mr *methodRoutes) remove(path string) (*Route, bool) {
	route, i := mr.find(path)
	if route == nil {
		return nil, false
	}
	if i < 0 {
		delete(mr.exact, utils.Normalize(path))
	} else {
		mr.params = append(mr.params[:i], mr.params[i+1:]...)
	}
	return route, true
}

// replace installs a modified clone of the route registered under path at
// the same position.
func (mr *methodRoutes) replace(path string, modify func(*Route)) bool {
	route, i := mr.find(path)
	if route == nil {
		return false
	}
	next := route.clone()
	modify(next)
	if i < 0 {
		mr.exact[utils.Normalize(route.Path)] = next
	} else {
		mr.params[i] = next
	}
	return true
}

// rename moves a route to a new shape. A dynamic route renamed to another
// dynamic shape keeps its position; switching between static and dynamic
// re-registers it.
func (mr *methodRoutes) rename(oldPath, newPath string) bool {
	route, i := mr.find(oldPath)
	if route == nil {
		return false
	}
	next := route.clone()
	next.Path = newPath
	next.shape = utils.Compile(newPath)
	if i >= 0 && !next.shape.IsStatic() {
		if _, j := mr.find(newPath); j >= 0 && j != i {
			mr.params = slices.Delete(mr.params, j, j+1)
			if j < i {
				i--
			}
		}
		mr.params[i] = next
		return true
	}
	mr.remove(oldPath)
	mr.add(next)
	return true
}

// match resolves a request path: exact static shapes first, then dynamic
// shapes in registration order.
func (mr *methodRoutes) match(path string) (*Route, utils.Params, bool) {
	if route, ok := mr.exact[utils.Normalize(path)]; ok {
		return route, utils.Params{}, true
	}
	for _, route := range mr.params {
		if params, ok := route.shape.Match(path); ok {
			return route, params, true
		}
	}
	return nil, utils.Params{}, false
}

type Router struct {
	app               *fiber.App
	cfg               Config
	lock              sync.RWMutex
	routes            map[string]*methodRoutes
	GlobalMiddlewares []middlewareEntry
	NotFoundHandler   fiber.Handler
	staticCache       map[string]staticCacheEntry
	staticCacheLock   sync.RWMutex
}

func New(app *fiber.App, config ...Config) *Router {
	dr := &Router{
		app:               app,
		cfg:               configDefault(config...),
		routes:            make(map[string]*methodRoutes),
		staticCache:       make(map[string]staticCacheEntry),
		GlobalMiddlewares: []middlewareEntry{},
	}

	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			return customErrorHandler(c, err)
		}
		return nil
	})
	app.All("/*", dr.dispatch)
	return dr
}

func (dr *Router) Use(mw ...fiber.Handler) {
	dr.lock.Lock()
	defer dr.lock.Unlock()
	for _, m := range mw {
		dr.GlobalMiddlewares = append(dr.GlobalMiddlewares, wrapMiddleware(m))
	}
	log.Info().Int("count", len(mw)).Msg("Added global middleware")
}

// MatchRoute finds the route serving method and path without dispatching.
func (dr *Router) MatchRoute(method, path string) (*Route, bool, utils.Params) {
	dr.lock.RLock()
	defer dr.lock.RUnlock()
	mr, ok := dr.routes[strings.ToUpper(method)]
	if !ok {
		return nil, false, utils.Params{}
	}
	route, params, matched := mr.match(path)
	return route, matched, params
}

func (dr *Router) dispatch(c *fiber.Ctx) error {
	path := fiberutils.CopyString(c.Path())
	route, matched, params := dr.MatchRoute(c.Method(), path)
	if matched {
		c.Locals(paramsKey, params)
		dr.lock.RLock()
		globals := dr.GlobalMiddlewares
		dr.lock.RUnlock()
		return route.Serve(c, globals, dr.cfg.Compress)
	}
	dr.lock.RLock()
	notFound := dr.NotFoundHandler
	dr.lock.RUnlock()
	if notFound != nil {
		return notFound(c)
	}
	return c.Status(fiber.StatusNotFound).SendString(dr.cfg.NotFoundMessage)
}

func (dr *Router) AddRoute(method, path string, handler fiber.Handler, middlewares ...fiber.Handler) {
	dr.lock.Lock()
	defer dr.lock.Unlock()
	method = strings.ToUpper(method)
	if dr.routes[method] == nil {
		dr.routes[method] = newMethodRoutes()
	}
	var mwEntries []middlewareEntry
	for _, m := range middlewares {
		mwEntries = append(mwEntries, wrapMiddleware(m))
	}
	route := &Route{
		Method:      method,
		Path:        path,
		Handler:     handler,
		Middlewares: mwEntries,
		shape:       utils.Compile(path),
	}
	if dr.routes[method].add(route) {
		log.Warn().Str("method", method).Str("path", path).Msg("Replaced route registered under the same shape")
		return
	}
	log.Info().Str("method", method).Str("path", path).Bool("dynamic", !route.shape.IsStatic()).Msg("Added route")
}

func (dr *Router) UpdateRoute(method, path string, newHandler fiber.Handler) {
	dr.lock.Lock()
	defer dr.lock.Unlock()
	method = strings.ToUpper(method)
	if mr, ok := dr.routes[method]; ok {
		if mr.replace(path, func(r *Route) { r.Handler = newHandler }) {
			log.Info().Str("method", method).Str("path", path).Msg("Updated route handler")
			return
		}
	}
	log.Warn().Str("method", method).Str("path", path).Msg("Route not found for update")
}

func (dr *Router) RenameRoute(method, oldPath, newPath string) {
	dr.lock.Lock()
	defer dr.lock.Unlock()
	method = strings.ToUpper(method)
	if mr, ok := dr.routes[method]; ok {
		if mr.rename(oldPath, newPath) {
			log.Info().Str("method", method).Str("oldPath", oldPath).Str("newPath", newPath).Msg("Renamed route")
			return
		}
	}
	log.Warn().Str("method", method).Str("oldPath", oldPath).Str("newPath", newPath).Msg("Route not found for rename")
}

func (dr *Router) AddMiddleware(method, path string, middlewares ...fiber.Handler) {
	dr.lock.Lock()
	defer dr.lock.Unlock()
	method = strings.ToUpper(method)
	if mr, ok := dr.routes[method]; ok {
		added := mr.replace(path, func(r *Route) {
			for _, m := range middlewares {
				r.Middlewares = append(r.Middlewares, wrapMiddleware(m))
			}
		})
		if added {
			log.Info().Str("method", method).Str("path", path).Int("count", len(middlewares)).Msg("Added middleware to route")
			return
		}
	}
	log.Warn().Str("method", method).Str("path", path).Int("count", len(middlewares)).Msg("Route not found for adding middleware")
}

func (dr *Router) RemoveMiddleware(method, path string, middlewares ...fiber.Handler) {
	dr.lock.Lock()
	defer dr.lock.Unlock()
	method = strings.ToUpper(method)
	if mr, ok := dr.routes[method]; ok {
		removed := mr.replace(path, func(r *Route) {
			newChain := make([]middlewareEntry, 0, len(r.Middlewares))
			for _, existing := range r.Middlewares {
				if !slices.ContainsFunc(middlewares, func(rm fiber.Handler) bool {
					return middlewareIDsEqual(rm, existing)
				}) {
					newChain = append(newChain, existing)
				}
			}
			r.Middlewares = newChain
		})
		if removed {
			log.Info().Str("method", method).Str("path", path).Int("count", len(middlewares)).Msg("Removed middleware from route")
			return
		}
	}
	log.Warn().Str("method", method).Str("path", path).Int("count", len(middlewares)).Msg("Route not found for removing middleware")
}

// setMiddlewares swaps the whole per-route chain without moving the route.
func (dr *Router) setMiddlewares(method, path string, middlewares []fiber.Handler) bool {
	dr.lock.Lock()
	defer dr.lock.Unlock()
	mr, ok := dr.routes[strings.ToUpper(method)]
	if !ok {
		return false
	}
	return mr.replace(path, func(r *Route) {
		r.Middlewares = make([]middlewareEntry, 0, len(middlewares))
		for _, m := range middlewares {
			r.Middlewares = append(r.Middlewares, wrapMiddleware(m))
		}
	})
}

func (dr *Router) RemoveRoute(method, path string) {
	dr.lock.Lock()
	defer dr.lock.Unlock()
	method = strings.ToUpper(method)
	if mr, ok := dr.routes[method]; ok {
		if _, removed := mr.remove(path); removed {
			log.Info().Str("method", method).Str("path", path).Msg("Removed route")
			return
		}
	}
	log.Warn().Str("method", method).Str("path", path).Msg("Route not found for removal")
}

func (dr *Router) SetNotFoundHandler(handler fiber.Handler) {
	dr.lock.Lock()
	defer dr.lock.Unlock()
	dr.NotFoundHandler = handler
	log.Info().Msg("Set custom NotFoundHandler")
}

// ListRoutes returns "METHOD shape" entries. Dynamic routes keep their
// registration order.
func (dr *Router) ListRoutes() []string {
	dr.lock.RLock()
	defer dr.lock.RUnlock()
	var routesList []string
	for method, mr := range dr.routes {
		for _, route := range mr.exact {
			routesList = append(routesList, method+" "+route.Path)
		}
		for _, route := range mr.params {
			routesList = append(routesList, method+" "+route.Path)
		}
	}
	return routesList
}

func (dr *Router) Shutdown() error {
	log.Info().Msg("Initiating graceful shutdown")
	return dr.app.Shutdown()
}
