package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets a default Cache-Control on GET responses that do
// not carry one. Journal data changes at any time, so API responses must be
// revalidated (see ETagMiddleware); stored images set their own header.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || len(c.Response().Header.Peek(fiber.HeaderCacheControl)) > 0 {
			return err
		}

		path := c.Path()
		switch {
		case path == "/v1/health" || path == "/v1/ready" || path == "/metrics":
			c.Set(fiber.HeaderCacheControl, "no-store")
		case strings.HasPrefix(path, "/docs"):
			c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
		case strings.HasPrefix(path, "/v1/"):
			c.Set(fiber.HeaderCacheControl, "private, no-cache")
		}
		return err
	}
}
