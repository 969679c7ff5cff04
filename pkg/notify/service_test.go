package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juristmind/newsroom/pkg/notify"
)

type fakeMailer struct {
	mu     sync.Mutex
	sent   []notify.Message
	failAt int // 1-based call number that fails; 0 never fails
	calls  int
}

func (f *fakeMailer) Send(ctx context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAt == f.calls {
		return errors.New("provider unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) NotificationSent(kind, result string) {
	o.events = append(o.events, kind+":"+result)
}

func validContact() notify.ContactRequest {
	return notify.ContactRequest{
		Name:        "Ada",
		Email:       "ada@example.com",
		Company:     "Analytical Ltd",
		Subject:     "Pricing",
		Message:     "Line one\nLine two",
		InquiryType: "sales",
	}
}

func TestNewService(t *testing.T) {
	_, err := notify.NewService(nil, "ops@example.com")
	assert.Error(t, err)

	_, err = notify.NewService(&fakeMailer{}, "")
	assert.Error(t, err)

	svc, err := notify.NewService(&fakeMailer{}, "ops@example.com")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestSendContact(t *testing.T) {
	mailer := &fakeMailer{}
	observer := &recordingObserver{}
	svc, err := notify.NewService(mailer, "ops@example.com", notify.WithObserver(observer))
	require.NoError(t, err)

	require.NoError(t, svc.SendContact(context.Background(), validContact()))
	require.Len(t, mailer.sent, 2)

	operator := mailer.sent[0]
	assert.Equal(t, []string{"ops@example.com"}, operator.To)
	assert.Equal(t, "ada@example.com", operator.ReplyTo)
	assert.Equal(t, "Contact Form: Pricing", operator.Subject)
	assert.Contains(t, operator.HTML, "Line one<br>Line two")
	assert.Contains(t, operator.HTML, "Analytical Ltd")
	assert.Contains(t, operator.HTML, "<strong>Inquiry Type:</strong> sales")

	confirmation := mailer.sent[1]
	assert.Equal(t, []string{"ada@example.com"}, confirmation.To)
	assert.Empty(t, confirmation.ReplyTo)
	assert.Equal(t, "We received your message!", confirmation.Subject)
	assert.Contains(t, confirmation.HTML, "Thank you for contacting us, Ada!")

	assert.Equal(t, []string{"contact:ok", "contact_confirmation:ok"}, observer.events)
}

func TestSendContact_EscapesUserInput(t *testing.T) {
	mailer := &fakeMailer{}
	svc, err := notify.NewService(mailer, "ops@example.com")
	require.NoError(t, err)

	req := validContact()
	req.Name = `<script>alert("x")</script>`
	req.Message = `<img src=x onerror=alert(1)>`
	require.NoError(t, svc.SendContact(context.Background(), req))

	for _, msg := range mailer.sent {
		assert.NotContains(t, msg.HTML, "<script>")
		assert.NotContains(t, msg.HTML, "<img")
		assert.Contains(t, msg.HTML, "&lt;script&gt;")
	}
}

func TestSendContact_OmitsEmptyOptionalFields(t *testing.T) {
	mailer := &fakeMailer{}
	svc, err := notify.NewService(mailer, "ops@example.com")
	require.NoError(t, err)

	req := validContact()
	req.Company = ""
	req.InquiryType = ""
	require.NoError(t, svc.SendContact(context.Background(), req))

	assert.NotContains(t, mailer.sent[0].HTML, "Company:")
	assert.NotContains(t, mailer.sent[0].HTML, "Inquiry Type:")
}

func TestSendContact_Validation(t *testing.T) {
	mailer := &fakeMailer{}
	svc, err := notify.NewService(mailer, "ops@example.com")
	require.NoError(t, err)

	err = svc.SendContact(context.Background(), notify.ContactRequest{Name: "Ada", Email: "not-an-email"})
	require.Error(t, err)
	assert.ErrorIs(t, err, notify.ErrInvalidSubmission)

	var serr *notify.SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "must be a valid email address", serr.Fields["email"])
	assert.Equal(t, "is required", serr.Fields["subject"])
	assert.Equal(t, "is required", serr.Fields["message"])
	assert.Empty(t, mailer.sent)
}

func TestSendContact_ProviderFailure(t *testing.T) {
	t.Run("operator email fails", func(t *testing.T) {
		mailer := &fakeMailer{failAt: 1}
		svc, err := notify.NewService(mailer, "ops@example.com")
		require.NoError(t, err)

		err = svc.SendContact(context.Background(), validContact())
		require.Error(t, err)
		assert.NotErrorIs(t, err, notify.ErrInvalidSubmission)
		assert.Empty(t, mailer.sent)
	})

	t.Run("confirmation fails", func(t *testing.T) {
		mailer := &fakeMailer{failAt: 2}
		svc, err := notify.NewService(mailer, "ops@example.com")
		require.NoError(t, err)

		err = svc.SendContact(context.Background(), validContact())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "confirmation")
		assert.Len(t, mailer.sent, 1)
	})
}

func TestCreateSupportTicket(t *testing.T) {
	mailer := &fakeMailer{}
	fixed := time.UnixMilli(1717000000123)
	svc, err := notify.NewService(mailer, "support@example.com",
		notify.WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	ticketID, err := svc.CreateSupportTicket(context.Background(), notify.TicketRequest{
		Name:        "Grace",
		Email:       "grace@example.com",
		Issue:       "Login fails",
		Description: "Since Monday",
		Priority:    "high",
	})
	require.NoError(t, err)
	assert.Equal(t, "JURIST-1717000000123", ticketID)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "Support Ticket JURIST-1717000000123: Login fails", mailer.sent[0].Subject)
	assert.Equal(t, "grace@example.com", mailer.sent[0].ReplyTo)
	assert.Contains(t, mailer.sent[0].HTML, "<strong>Priority:</strong> high")
	assert.Equal(t, "Support Ticket Created: JURIST-1717000000123", mailer.sent[1].Subject)
	assert.Contains(t, mailer.sent[1].HTML, "<strong>Status:</strong> Open")
}

func TestCreateSupportTicket_Validation(t *testing.T) {
	svc, err := notify.NewService(&fakeMailer{}, "support@example.com")
	require.NoError(t, err)

	id, err := svc.CreateSupportTicket(context.Background(), notify.TicketRequest{Name: "Grace", Email: "grace@example.com"})
	assert.ErrorIs(t, err, notify.ErrInvalidSubmission)
	assert.Empty(t, id)
}
