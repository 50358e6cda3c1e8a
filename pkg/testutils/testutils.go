package testutils

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	infraeventbus "github.com/amirasaad/accounts/infra/eventbus"
	infranotification "github.com/amirasaad/accounts/infra/notification"
	"github.com/amirasaad/accounts/infra/repository/memory"
	"github.com/amirasaad/accounts/pkg/app"
	"github.com/amirasaad/accounts/pkg/config"
	repo "github.com/amirasaad/accounts/pkg/repository/account"
	"github.com/gofiber/fiber/v2"
)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestConfig returns the configuration used by the HTTP tests: the
// documented defaults with rate limiting disabled.
func TestConfig() *config.App {
	return &config.App{
		Env: "test",
		Server: &config.Server{
			Scheme:          "http",
			Host:            "localhost",
			Port:            3000,
			ShutdownTimeout: time.Second,
		},
		Log: &config.Log{Format: "text"},
		DB: &config.DB{
			Url:          ":memory:",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Redis:     &config.Redis{KeyPrefix: "accounts-test:", Group: "accounts-test"},
		RateLimit: &config.RateLimit{MaxRequests: 0, Window: time.Minute},
		Balance: &config.Balance{
			DefaultBatchSize: 5,
			MaxBatchSize:     10000,
			Timeout:          5 * time.Second,
		},
		SMTP: &config.SMTP{From: "noreply@accounts.local"},
	}
}

// NewMemoryApp wires the application over the given repository with a
// synchronous in-memory event bus and a logging notifier.
func NewMemoryApp(r repo.Repository, cfg *config.App) (*app.App, *infraeventbus.MemoryEventBus) {
	logger := DiscardLogger()
	bus := infraeventbus.NewWithMemory(logger)
	deps := &app.Deps{
		Repository: r,
		EventBus:   bus,
		Notifier:   infranotification.NewLogNotifier(logger),
		Logger:     logger,
		Closers:    []io.Closer{bus},
	}
	return app.New(deps, cfg), bus
}

// NewMemoryStoreApp is NewMemoryApp over a fresh in-memory store.
func NewMemoryStoreApp(cfg *config.App) (*app.App, *memory.Store) {
	store := memory.New()
	a, _ := NewMemoryApp(store, cfg)
	return a, store
}

// MakeRequestWithApp is a helper for making HTTP requests with a standalone app (for non-suite tests)
func MakeRequestWithApp(app *fiber.App, method, path, body string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := app.Test(req, 1000000)
	if err != nil {
		panic(err) // For standalone tests, panic on error
	}
	return resp
}
