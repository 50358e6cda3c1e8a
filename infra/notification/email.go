// Package notification implements notifiers over SMTP and the process log.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/amirasaad/accounts/pkg/config"
	"github.com/amirasaad/accounts/pkg/notification"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier sends notifications through an SMTP relay. smtp.SendMail
// upgrades the connection with STARTTLS when the server offers it.
type EmailNotifier struct {
	cfg      *config.SMTP
	auth     smtp.Auth
	sendMail sendMailFunc
}

// NewEmailNotifier creates a new EmailNotifier.
func NewEmailNotifier(cfg *config.SMTP) *EmailNotifier {
	var auth smtp.Auth
	if cfg.Username != "" {
		// PlainAuth refuses to send credentials over an unencrypted connection to a remote host.
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &EmailNotifier{cfg: cfg, auth: auth, sendMail: smtp.SendMail}
}

// Send sends msg to its recipients.
func (n *EmailNotifier) Send(ctx context.Context, msg notification.Message) error {
	if len(msg.To) == 0 {
		return errors.New("email notifier: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	if err := n.sendMail(addr, n.auth, n.cfg.From, msg.To, n.compose(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (n *EmailNotifier) compose(msg notification.Message) []byte {
	var b strings.Builder
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("From: " + n.cfg.From + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// LogNotifier writes notifications to the log instead of delivering them.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("notifier", "log")}
}

func (n *LogNotifier) Send(_ context.Context, msg notification.Message) error {
	n.logger.Info("notification", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}

// New returns an EmailNotifier when an SMTP host is configured and a
// LogNotifier otherwise.
func New(cfg *config.SMTP, logger *slog.Logger) notification.Notifier {
	if cfg == nil || cfg.Host == "" || len(notification.Recipients(cfg.To)) == 0 {
		return NewLogNotifier(logger)
	}
	return NewEmailNotifier(cfg)
}

var (
	_ notification.Notifier = (*EmailNotifier)(nil)
	_ notification.Notifier = (*LogNotifier)(nil)
)
