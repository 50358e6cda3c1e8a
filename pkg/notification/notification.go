// Package notification sends messages to people about account changes.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/amirasaad/accounts/pkg/eventbus"
	"github.com/amirasaad/accounts/pkg/utils"
)

// AccountCreatedSubject is the subject of the account creation email.
const AccountCreatedSubject = "New Account Created"

// Message is a plain-text notification.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Notifier delivers messages.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// AccountCreatedHandler returns a bus handler that notifies recipients
// whenever an account is created.
func AccountCreatedHandler(n Notifier, recipients []string, logger *slog.Logger) eventbus.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, e events.Event) error {
		created, ok := e.(*events.AccountCreated)
		if !ok {
			return fmt.Errorf("notification: unexpected event %T", e)
		}
		msg := Message{
			To:      recipients,
			Subject: AccountCreatedSubject,
			Body:    fmt.Sprintf("Account for %s has been created.", created.Name),
		}
		if err := n.Send(ctx, msg); err != nil {
			return fmt.Errorf("notify account %s created: %w", created.AccountID, err)
		}
		logger.Debug("account creation notified", "account_id", created.AccountID)
		return nil
	}
}

// Recipients splits a comma separated address list. Blank entries and
// entries that are not email addresses are dropped.
func Recipients(list string) []string {
	var out []string
	for _, r := range strings.Split(list, ",") {
		if r = strings.TrimSpace(r); r != "" && utils.IsEmail(r) {
			out = append(out, r)
		}
	}
	return out
}
