package router

import (
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oarkflow/log"

	"github.com/oarkflow/pathmatch/utils"
)

type Static struct {
	Prefix           string `json:"prefix"`
	Directory        string `json:"directory"`
	CacheControl     string
	DirectoryListing bool
}

type staticCacheEntry struct {
	data      []byte
	timestamp time.Time
}

type StaticConfig struct {
	CacheControl     string
	DirectoryListing bool
}

// Static serves directory under prefix. It is registered as the GET shape
// prefix + "/**", so the wildcard capture is the file path below directory.
func (dr *Router) Static(prefix, directory string, cfg ...StaticConfig) {
	var sc StaticConfig
	if len(cfg) > 0 {
		sc = cfg[0]
	}
	sr := Static{
		Prefix:           prefix,
		Directory:        directory,
		CacheControl:     sc.CacheControl,
		DirectoryListing: sc.DirectoryListing,
	}
	dr.AddRoute(fiber.MethodGet, staticShape(prefix), dr.serveStatic(sr))
	log.Info().Str("prefix", prefix).Str("directory", directory).Msg("Added static route")
}

func staticShape(prefix string) string {
	return "/" + strings.TrimPrefix(path.Join(utils.Normalize(prefix), utils.Wildcard), "/")
}

func (dr *Router) serveStatic(sr Static) fiber.Handler {
	return func(c *fiber.Ctx) error {
		relativePath := "/" + strings.Join(Rest(c), "/")
		filePath := filepath.Join(sr.Directory, filepath.Clean(relativePath))
		absDir, err := filepath.Abs(sr.Directory)
		if err != nil {
			log.Error().Err(err).Msg("Could not resolve absolute directory")
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}
		absFile, err := filepath.Abs(filePath)
		if err != nil || !strings.HasPrefix(absFile, absDir) {
			log.Warn().Err(err).Msgf("Attempted directory traversal: %s", filePath)
			return c.Status(fiber.StatusForbidden).SendString("Forbidden")
		}
		info, err := os.Stat(filePath)
		if err == nil && info.IsDir() {
			if sr.DirectoryListing {
				return dr.listDirectory(c, filePath)
			}
			filePath = filepath.Join(filePath, "index.html")
		}
		if _, err := os.Stat(filePath); err != nil {
			return c.Status(fiber.StatusNotFound).SendString(dr.cfg.NotFoundMessage)
		}
		if mimeType := mime.TypeByExtension(filepath.Ext(filePath)); mimeType != "" {
			c.Response().Header.Set(fiber.HeaderContentType, mimeType)
			c.Response().Header.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		}
		if sr.CacheControl != "" {
			c.Response().Header.Set(fiber.HeaderCacheControl, sr.CacheControl)
		}
		data, err := dr.readStatic(filePath)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to read file: %s", filePath)
			return c.Status(fiber.StatusInternalServerError).SendString("Error reading file")
		}
		return c.Send(data)
	}
}

func (dr *Router) listDirectory(c *fiber.Ctx, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to read directory: %s", dir)
		return c.Status(fiber.StatusInternalServerError).SendString("Error reading directory")
	}
	var builder strings.Builder
	builder.WriteString("<html><head><meta charset=\"UTF-8\"><title>Directory listing</title></head><body>")
	builder.WriteString("<h1>Directory listing for " + c.Path() + "</h1><ul>")
	for _, entry := range entries {
		name := entry.Name()
		builder.WriteString(fmt.Sprintf("<li><a href=\"%s\">%s</a></li>", path.Join(c.Path(), name), name))
	}
	builder.WriteString("</ul></body></html>")
	c.Type("html")
	return c.SendString(builder.String())
}

func (dr *Router) readStatic(filePath string) ([]byte, error) {
	dr.staticCacheLock.RLock()
	entry, found := dr.staticCache[filePath]
	dr.staticCacheLock.RUnlock()
	if found && time.Since(entry.timestamp) < dr.cfg.StaticCacheTTL {
		log.Info().Str("file", filePath).Msg("Static cache hit")
		return entry.data, nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	dr.staticCacheLock.Lock()
	dr.staticCache[filePath] = staticCacheEntry{data: data, timestamp: time.Now()}
	dr.staticCacheLock.Unlock()
	return data, nil
}

func (dr *Router) InvalidateStaticCache(file string) {
	dr.staticCacheLock.Lock()
	defer dr.staticCacheLock.Unlock()
	delete(dr.staticCache, file)
	log.Info().Str("file", file).Msg("Invalidated static cache")
}
