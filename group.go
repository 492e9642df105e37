package router

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/oarkflow/log"

	"github.com/oarkflow/pathmatch/utils"
)

// groupRoute remembers how a route was declared inside a group so the group
// can re-derive its shape and chain when the prefix or middlewares change.
type groupRoute struct {
	method   string
	relPath  string
	routeMWs []fiber.Handler
}

// Group registers shapes below a common prefix. The prefix may itself carry
// parametric segments, e.g. "/orgs/:org". Changing the prefix or the group
// middlewares updates the registered routes in place, so they keep their
// position among the router's dynamic shapes.
type Group struct {
	prefix      string
	middlewares []fiber.Handler
	routes      []*groupRoute
	router      *Router
}

func (dr *Router) Group(prefix string, m ...fiber.Handler) *Group {
	return &Group{prefix: prefix, middlewares: m, router: dr}
}

// Group nests a group below g. The child starts with g's middlewares.
func (g *Group) Group(prefix string, m ...fiber.Handler) *Group {
	return &Group{
		prefix:      g.shape(prefix),
		middlewares: append(slices.Clone(g.middlewares), m...),
		router:      g.router,
	}
}

// shape joins the group prefix and a relative shape.
func (g *Group) shape(relPath string) string {
	joined := utils.Normalize(g.prefix + "/" + relPath)
	return "/" + joined
}

func (g *Group) chain(gr *groupRoute) []fiber.Handler {
	return append(slices.Clone(g.middlewares), gr.routeMWs...)
}

func (g *Group) find(method, relPath string) int {
	method = strings.ToUpper(method)
	key := utils.Normalize(relPath)
	return slices.IndexFunc(g.routes, func(gr *groupRoute) bool {
		return gr.method == method && utils.Normalize(gr.relPath) == key
	})
}

func (g *Group) AddRoute(method, relPath string, handler fiber.Handler, m ...fiber.Handler) {
	gr := &groupRoute{method: strings.ToUpper(method), relPath: relPath, routeMWs: m}
	if i := g.find(method, relPath); i >= 0 {
		g.routes[i] = gr
	} else {
		g.routes = append(g.routes, gr)
	}
	g.router.AddRoute(gr.method, g.shape(relPath), handler, g.chain(gr)...)
}

func (g *Group) Get(relPath string, handler fiber.Handler, m ...fiber.Handler) {
	g.AddRoute(fiber.MethodGet, relPath, handler, m...)
}
func (g *Group) Post(relPath string, handler fiber.Handler, m ...fiber.Handler) {
	g.AddRoute(fiber.MethodPost, relPath, handler, m...)
}
func (g *Group) Put(relPath string, handler fiber.Handler, m ...fiber.Handler) {
	g.AddRoute(fiber.MethodPut, relPath, handler, m...)
}
func (g *Group) Delete(relPath string, handler fiber.Handler, m ...fiber.Handler) {
	g.AddRoute(fiber.MethodDelete, relPath, handler, m...)
}
func (g *Group) Patch(relPath string, handler fiber.Handler, m ...fiber.Handler) {
	g.AddRoute(fiber.MethodPatch, relPath, handler, m...)
}
func (g *Group) Options(relPath string, handler fiber.Handler, m ...fiber.Handler) {
	g.AddRoute(fiber.MethodOptions, relPath, handler, m...)
}
func (g *Group) Head(relPath string, handler fiber.Handler, m ...fiber.Handler) {
	g.AddRoute(fiber.MethodHead, relPath, handler, m...)
}

func (g *Group) Static(prefix, directory string, cfg ...StaticConfig) {
	g.router.Static(g.shape(prefix), directory, cfg...)
}

func (g *Group) ChangePrefix(newPrefix string) {
	oldPrefix := g.prefix
	if utils.Normalize(oldPrefix) == utils.Normalize(newPrefix) {
		return
	}
	oldShapes := make([]string, len(g.routes))
	for i, gr := range g.routes {
		oldShapes[i] = g.shape(gr.relPath)
	}
	g.prefix = newPrefix
	for i, gr := range g.routes {
		g.router.RenameRoute(gr.method, oldShapes[i], g.shape(gr.relPath))
	}
	log.Info().Str("oldPrefix", oldPrefix).Str("newPrefix", newPrefix).Msg("Group prefix changed")
}

func (g *Group) UpdateMiddlewares(newMW []fiber.Handler) {
	g.middlewares = slices.Clone(newMW)
	for _, gr := range g.routes {
		if !g.router.setMiddlewares(gr.method, g.shape(gr.relPath), g.chain(gr)) {
			log.Warn().Str("method", gr.method).Str("path", g.shape(gr.relPath)).Msg("Group route no longer registered")
		}
	}
	log.Info().Str("groupPrefix", g.prefix).Int("count", len(newMW)).Msg("Group middlewares updated")
}

func (g *Group) AddMiddleware(mw ...fiber.Handler) {
	g.UpdateMiddlewares(append(slices.Clone(g.middlewares), mw...))
}

func (g *Group) RemoveMiddleware(mw ...fiber.Handler) {
	g.UpdateMiddlewares(slices.DeleteFunc(slices.Clone(g.middlewares), func(m fiber.Handler) bool {
		return slices.ContainsFunc(mw, func(rm fiber.Handler) bool {
			return middlewareIDsEqual(rm, wrapMiddleware(m))
		})
	}))
}

// RemoveRoute drops the group route declared for method and relPath.
func (g *Group) RemoveRoute(method, relPath string) {
	i := g.find(method, relPath)
	if i < 0 {
		log.Warn().Str("method", method).Str("relPath", relPath).Msg("Group route not found for removal")
		return
	}
	gr := g.routes[i]
	g.router.RemoveRoute(gr.method, g.shape(gr.relPath))
	g.routes = slices.Delete(g.routes, i, i+1)
	log.Info().Str("groupPrefix", g.prefix).Str("method", gr.method).Str("relPath", relPath).Msg("Group route removed")
}
