package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"tutor-platform/internal/config"
	"tutor-platform/internal/domain/account"
	"tutor-platform/internal/logger"
	appErrors "tutor-platform/pkg/errors"
)

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier sends plain-text mail through an SMTP relay.
type EmailNotifier struct {
	cfg  config.SMTPConfig
	send sendFunc
}

func NewEmailNotifier(cfg config.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, send: smtp.SendMail}
}

func (n *EmailNotifier) AccountRegistered(ctx context.Context, a *account.Account) error {
	return n.deliver(ctx, a.Email, "Registration received",
		fmt.Sprintf("Thanks for registering as a %s. An administrator will review your account shortly.", a.Role))
}

func (n *EmailNotifier) AccountReviewed(ctx context.Context, a *account.Account) error {
	switch a.Lifecycle.Status() {
	case account.StatusApproved:
		return n.deliver(ctx, a.Email, "Your account has been approved",
			"Your account was approved. You can now log in.")
	case account.StatusRejected:
		reason := appErrors.DefaultRejectionReason
		if a.Lifecycle.RejectionReason != nil {
			reason = *a.Lifecycle.RejectionReason
		}
		return n.deliver(ctx, a.Email, "Your account has been rejected",
			fmt.Sprintf("Your account was rejected.\r\nReason: %s", reason))
	default:
		return nil
	}
}

func (n *EmailNotifier) PasswordResetIssued(ctx context.Context, a *account.Account, token string) error {
	return n.deliver(ctx, a.Email, "Password reset",
		fmt.Sprintf("Use this token to reset your password: %s\r\nIf you did not ask for a reset you can ignore this message.", token))
}

func (n *EmailNotifier) PasswordChanged(ctx context.Context, a *account.Account) error {
	return n.deliver(ctx, a.Email, "Password changed",
		"Your password was changed. If this was not you, contact support immediately.")
}

func (n *EmailNotifier) deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	if err := n.send(addr, auth, n.cfg.From, []string{to}, buildMessage(n.cfg.From, to, subject, body)); err != nil {
		logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Debug("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
