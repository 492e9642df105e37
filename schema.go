package router

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/oarkflow/json"
	v2 "github.com/oarkflow/json/jsonschema/v2"

	"github.com/oarkflow/pathmatch/utils"
)

type Schema struct {
	m     sync.RWMutex
	items map[string]*v2.Schema
}

var (
	compiledSchemas *Schema
	compiler        *v2.Compiler
)

func init() {
	compiler = v2.NewCompiler()
	compiledSchemas = &Schema{items: make(map[string]*v2.Schema)}
}

func schemaKey(method, shape string) string {
	return strings.ToUpper(method) + ":" + utils.Normalize(shape)
}

func AddSchema(method, shape string, schema *v2.Schema) {
	compiledSchemas.m.Lock()
	defer compiledSchemas.m.Unlock()
	compiledSchemas.items[schemaKey(method, shape)] = schema
}

func removeSchema(method, shape string) {
	compiledSchemas.m.Lock()
	defer compiledSchemas.m.Unlock()
	delete(compiledSchemas.items, schemaKey(method, shape))
}

func lookupSchema(method, shape string) (*v2.Schema, bool) {
	compiledSchemas.m.RLock()
	defer compiledSchemas.m.RUnlock()
	schema, ok := compiledSchemas.items[schemaKey(method, shape)]
	return schema, ok
}

// CompileSchema compiles a JSON schema for the route registered under method
// and shape.
func CompileSchema(method, shape string, schema json.RawMessage) error {
	s, err := compiler.Compile(schema)
	if err != nil {
		return fmt.Errorf("compile schema for %s %s: %w", method, shape, err)
	}
	AddSchema(method, shape, s)
	return nil
}

// ValidateRequestBySchema - validates each request that has schema validation
func (dr *Router) ValidateRequestBySchema(c *fiber.Ctx) error {
	route, matched, _ := dr.MatchRoute(c.Method(), c.Path())
	if !matched {
		return Next(c)
	}
	schema, exists := lookupSchema(route.Method, route.Path)
	if !exists {
		return Next(c)
	}
	body := c.Body()
	if len(body) == 0 {
		return Next(c)
	}
	var intermediate any
	if err := json.Unmarshal(body, &intermediate); err != nil {
		return fmt.Errorf("failed to unmarshal into intermediate: %w", err)
	}
	merged, err := schema.SmartUnmarshal(intermediate)
	if err != nil {
		return fmt.Errorf("failed to unmarshal: %w", err)
	}
	mergedBytes, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to marshal merged result: %w", err)
	}
	c.Request().SetBody(mergedBytes)
	return Next(c)
}
