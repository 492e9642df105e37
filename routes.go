package router

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/oarkflow/json"
	"github.com/oarkflow/log"
)

// RouteSpec declares one route in a route file.
type RouteSpec struct {
	Method      string          `json:"method"`
	Shape       string          `json:"shape"`
	HandlerKey  string          `json:"handler_key"`
	Description string          `json:"description,omitempty"`
	Schema      json.RawMessage `json:"schema,omitempty"`
}

func (rs RouteSpec) String() string {
	return strings.ToUpper(rs.Method) + " " + rs.Shape + " -> " + rs.HandlerKey
}

type RouteFile struct {
	Routes []RouteSpec `json:"routes"`
}

func ParseRouteFile(data []byte) (*RouteFile, error) {
	var file RouteFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse route file: %w", err)
	}
	for i, rs := range file.Routes {
		if rs.Method == "" || rs.HandlerKey == "" {
			return nil, fmt.Errorf("route %d (%q): method and handler_key are required", i, rs.Shape)
		}
	}
	return &file, nil
}

func LoadRouteFile(path string) (*RouteFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route file: %w", err)
	}
	return ParseRouteFile(data)
}

// Apply registers every route of file whose handler key is known. Routes with
// an unknown key or an invalid schema are skipped and reported in the
// returned error.
func (dr *Router) Apply(file *RouteFile, handlers map[string]fiber.Handler) error {
	var errs []error
	for _, rs := range file.Routes {
		handler, exists := handlers[rs.HandlerKey]
		if !exists {
			errs = append(errs, fmt.Errorf("handler not found for key %q (%s)", rs.HandlerKey, rs.Shape))
			continue
		}
		var mws []fiber.Handler
		if len(rs.Schema) > 0 {
			if err := CompileSchema(rs.Method, rs.Shape, rs.Schema); err != nil {
				errs = append(errs, err)
				continue
			}
			mws = append(mws, dr.ValidateRequestBySchema)
		}
		dr.AddRoute(rs.Method, rs.Shape, handler, mws...)
	}
	log.Info().Int("routes", len(file.Routes)).Int("errors", len(errs)).Msg("Applied route file")
	return errors.Join(errs...)
}

// Withdraw removes every route of file from the router along with any
// schema compiled for it.
func (dr *Router) Withdraw(file *RouteFile) {
	for _, rs := range file.Routes {
		dr.RemoveRoute(rs.Method, rs.Shape)
		removeSchema(rs.Method, rs.Shape)
	}
}
