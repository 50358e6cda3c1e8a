package webapi

import (
	"errors"

	"github.com/amirasaad/accounts/pkg/config"
	"github.com/amirasaad/accounts/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// newFiber builds the Fiber application with the error handler and the
// middleware stack shared by every route.
func newFiber(cfg *config.App) *fiber.App {
	fiberConfig := fiber.Config{
		AppName: "accounts",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	}
	if cfg.Server != nil && cfg.Server.ProxyHeader != "" {
		fiberConfig.ProxyHeader = cfg.Server.ProxyHeader
		fiberConfig.EnableTrustedProxyCheck = true
		fiberConfig.TrustedProxies = cfg.Server.TrustedProxies
		fiberConfig.EnableIPValidation = true
	}
	fiberApp := fiber.New(fiberConfig)

	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	if cfg.RateLimit != nil && cfg.RateLimit.MaxRequests > 0 {
		// Keyed by c.IP(), which reads ProxyHeader only from trusted proxies
		fiberApp.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.MaxRequests,
			Expiration: cfg.RateLimit.Window,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return common.ProblemDetailsJSON(
					c,
					"Too Many Requests",
					errors.New("rate limit exceeded"),
					fiber.StatusTooManyRequests,
				)
			},
		}))
	}
	return fiberApp
}
