package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers based on endpoint unless the
// handler already set one. Profile responses depend on live elevation data
// and request bodies, so they are never cached.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if existing := string(c.Response().Header.Peek(fiber.HeaderCacheControl)); existing != "" {
			return err
		}

		path := c.Path()
		var value string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			value = "no-cache"

		case path == "/metrics":
			value = "no-cache"

		case strings.HasPrefix(path, "/v1/profiles"), path == "/graphql":
			value = "no-store"

		case strings.HasPrefix(path, "/docs"):
			value = "public, max-age=3600"
		}

		if value != "" {
			c.Set(fiber.HeaderCacheControl, value)
		}

		return err
	}
}
