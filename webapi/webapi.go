// Package webapi provides the HTTP API of the accounts service.
// It is organized into sub-packages:
// - account: account record endpoints
// - balance: total balance endpoint
// - common: response envelopes, problem details and request validation
package webapi

import (
	"github.com/amirasaad/accounts/pkg/app"
	accountweb "github.com/amirasaad/accounts/webapi/account"
	balanceweb "github.com/amirasaad/accounts/webapi/balance"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	fiberApp := newFiber(a.Config)

	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled: true,
	}))

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Accounts API is running! 🚀")
	})

	accountweb.Routes(fiberApp, a.AccountService)
	balanceweb.Routes(fiberApp, a.BalanceAggregator, a.Config.Balance)
	return fiberApp
}
