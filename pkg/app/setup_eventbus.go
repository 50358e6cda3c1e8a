// Package app wires the services together and registers the event handlers
// they rely on.
package app

import (
	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/amirasaad/accounts/pkg/notification"
)

// setupEventBus registers all event handlers with the event bus.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	if bus == nil || a.Deps.Notifier == nil {
		return
	}
	var to []string
	if a.Config.SMTP != nil {
		to = notification.Recipients(a.Config.SMTP.To)
	}
	bus.Register(
		events.EventTypeAccountCreated,
		notification.AccountCreatedHandler(a.Deps.Notifier, to, a.Deps.Logger),
	)
}
