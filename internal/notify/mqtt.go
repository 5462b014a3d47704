package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tutor-platform/internal/domain/account"
)

// Publisher is the slice of the MQTT client the event publisher needs.
type Publisher interface {
	PublishJSON(ctx context.Context, topic string, qos byte, v interface{}) error
}

type AccountEvent struct {
	Event           string         `json:"event"`
	AccountID       uuid.UUID      `json:"account_id"`
	Email           string         `json:"email"`
	Role            account.Role   `json:"role"`
	Status          account.Status `json:"status"`
	RejectionReason *string        `json:"rejection_reason,omitempty"`
	OccurredAt      time.Time      `json:"occurred_at"`
}

// EventPublisher emits account events on <prefix>/accounts/<id>/<event>.
// Reset tokens are never published.
type EventPublisher struct {
	client Publisher
	prefix string
	qos    byte
	now    func() time.Time
}

func NewEventPublisher(client Publisher, prefix string) *EventPublisher {
	return &EventPublisher{client: client, prefix: prefix, qos: 1, now: time.Now}
}

func (p *EventPublisher) AccountRegistered(ctx context.Context, a *account.Account) error {
	return p.publish(ctx, "registered", a)
}

func (p *EventPublisher) AccountReviewed(ctx context.Context, a *account.Account) error {
	return p.publish(ctx, "reviewed", a)
}

func (p *EventPublisher) PasswordResetIssued(ctx context.Context, a *account.Account, _ string) error {
	return p.publish(ctx, "password-reset-requested", a)
}

func (p *EventPublisher) PasswordChanged(ctx context.Context, a *account.Account) error {
	return p.publish(ctx, "password-changed", a)
}

func (p *EventPublisher) Topic(accountID uuid.UUID, event string) string {
	return fmt.Sprintf("%s/accounts/%s/%s", p.prefix, accountID, event)
}

func (p *EventPublisher) publish(ctx context.Context, event string, a *account.Account) error {
	payload := AccountEvent{
		Event:           event,
		AccountID:       a.ID,
		Email:           a.Email,
		Role:            a.Role,
		Status:          a.Lifecycle.Status(),
		RejectionReason: a.Lifecycle.RejectionReason,
		OccurredAt:      p.now().UTC(),
	}
	if err := p.client.PublishJSON(ctx, p.Topic(a.ID, event), p.qos, payload); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event, err)
	}
	return nil
}
