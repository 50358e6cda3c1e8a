package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/amirasaad/accounts/pkg/config"
	"github.com/amirasaad/accounts/pkg/eventbus"
	"github.com/amirasaad/accounts/pkg/notification"
	repo "github.com/amirasaad/accounts/pkg/repository/account"
	"github.com/amirasaad/accounts/pkg/service/account"
	"github.com/amirasaad/accounts/pkg/service/balance"
)

// Deps contains the infrastructure the services are built from.
type Deps struct {
	Repository repo.Repository
	EventBus   eventbus.Bus
	Notifier   notification.Notifier
	Logger     *slog.Logger
	// Closers are released in reverse order by App.Close.
	Closers []io.Closer
}

type App struct {
	Deps              *Deps
	Config            *config.App
	AccountService    *account.Service
	BalanceAggregator *balance.Aggregator
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()

	app.AccountService = account.NewService(deps.Repository, deps.EventBus, deps.Logger)
	app.BalanceAggregator = balance.New(
		deps.Repository,
		deps.Logger,
		balance.WithMaxWorkers(cfg.Balance.MaxWorkers),
	)
	return app
}

// Close releases the dependencies, last acquired first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.Deps.Closers) - 1; i >= 0; i-- {
		if err := a.Deps.Closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
