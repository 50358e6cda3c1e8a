package handler

import (
	"log"
	"net/http"
	"sync"

	"github.com/amirasaad/accounts/infra/initializer"
	"github.com/amirasaad/accounts/pkg/app"
	"github.com/amirasaad/accounts/pkg/config"
	"github.com/amirasaad/accounts/webapi"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

var (
	once    sync.Once
	handled http.HandlerFunc
)

// Handler is the serverless entry point of the application.
// Think of it like the main() method
func Handler(w http.ResponseWriter, r *http.Request) {
	// This is needed to set the proper request path in `*fiber.Ctx`
	r.RequestURI = r.URL.String()

	// Dependencies are built on the first request and reused by warm invocations
	once.Do(func() { handled = handler() })
	handled.ServeHTTP(w, r)
}

// building the fiber application
func handler() http.HandlerFunc {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}
	return adaptor.FiberApp(webapi.SetupApp(app.New(deps, cfg)))
}
