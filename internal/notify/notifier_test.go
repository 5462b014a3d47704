package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutor-platform/internal/config"
	"tutor-platform/internal/domain/account"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestEmailNotifier(sent *[]sentMail) *EmailNotifier {
	n := NewEmailNotifier(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		*sent = append(*sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return n
}

func testAccount() *account.Account {
	reason := "Incomplete documents"
	return &account.Account{
		ID:    uuid.New(),
		Email: "t@x.io",
		Role:  account.RoleTutor,
		Lifecycle: account.State{
			IsRejected:      true,
			RejectionReason: &reason,
		},
	}
}

func TestEmailNotifier_AccountReviewedIncludesReason(t *testing.T) {
	var sent []sentMail
	n := newTestEmailNotifier(&sent)

	require.NoError(t, n.AccountReviewed(context.Background(), testAccount()))
	require.Len(t, sent, 1)

	assert.Equal(t, "smtp.example.com:587", sent[0].addr)
	assert.Equal(t, []string{"t@x.io"}, sent[0].to)
	assert.Contains(t, sent[0].msg, "Subject: Your account has been rejected")
	assert.Contains(t, sent[0].msg, "Reason: Incomplete documents")
}

func TestEmailNotifier_PasswordResetCarriesToken(t *testing.T) {
	var sent []sentMail
	n := newTestEmailNotifier(&sent)

	require.NoError(t, n.PasswordResetIssued(context.Background(), testAccount(), "tok-123"))
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].msg, "tok-123")
}

func TestEmailNotifier_SendFailure(t *testing.T) {
	n := NewEmailNotifier(config.SMTPConfig{Host: "smtp.example.com", Port: 25, From: "noreply@example.com"})
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := n.AccountRegistered(context.Background(), testAccount())
	assert.ErrorContains(t, err, "connection refused")
}

type recordedPublish struct {
	topic   string
	payload interface{}
}

type fakePublisher struct {
	published []recordedPublish
}

func (f *fakePublisher) PublishJSON(_ context.Context, topic string, _ byte, v interface{}) error {
	f.published = append(f.published, recordedPublish{topic: topic, payload: v})
	return nil
}

func TestEventPublisher_TopicsAndPayload(t *testing.T) {
	pub := &fakePublisher{}
	p := NewEventPublisher(pub, "tutors")
	p.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	a := testAccount()
	require.NoError(t, p.AccountReviewed(context.Background(), a))
	require.NoError(t, p.PasswordResetIssued(context.Background(), a, "secret-token"))
	require.Len(t, pub.published, 2)

	assert.Equal(t, "tutors/accounts/"+a.ID.String()+"/reviewed", pub.published[0].topic)
	event := pub.published[0].payload.(AccountEvent)
	assert.Equal(t, account.StatusRejected, event.Status)
	assert.Equal(t, "Incomplete documents", *event.RejectionReason)

	assert.True(t, strings.HasSuffix(pub.published[1].topic, "/password-reset-requested"))
	assert.NotContains(t, pub.published[1].payload.(AccountEvent).Email, "secret-token")
}

type failingNotifier struct{ Nop }

func (failingNotifier) AccountRegistered(context.Context, *account.Account) error {
	return errors.New("boom")
}

func TestMulti_ContinuesAfterFailure(t *testing.T) {
	pub := &fakePublisher{}
	m := Multi{failingNotifier{}, NewEventPublisher(pub, "p")}

	err := m.AccountRegistered(context.Background(), testAccount())
	assert.ErrorContains(t, err, "boom")
	assert.Len(t, pub.published, 1)
}
