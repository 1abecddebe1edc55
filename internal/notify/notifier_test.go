package notify

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/billing"
	"rental-backend/internal/config"
	"rental-backend/internal/duedate"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

type recordingSender struct {
	sent []Message
}

func (s *recordingSender) Send(ctx context.Context, m Message) error {
	s.sent = append(s.sent, m)
	return nil
}

func rental() *models.Rental {
	return &models.Rental{
		Reference:       "3f1c",
		ClientName:      "Asha",
		ClientEmail:     "asha@example.com",
		Product:         &models.Product{Name: "Wheelchair"},
		EndDate:         time.Date(2024, 1, 10, 0, 0, 0, 0, timeutil.Location),
		SecurityDeposit: decimal.NewFromInt(500),
		SerialNumber:    "WC-7",
		AgreementHTML:   "<h1>Agreement</h1>",
	}
}

func TestSendAgreement(t *testing.T) {
	s := &recordingSender{}
	n := NewNotifier(s, "shop@example.com", billing.Formatter{Currency: "Rs."})

	require.NoError(t, n.SendAgreement(context.Background(), rental()))
	require.Len(t, s.sent, 1)
	assert.Equal(t, []string{"asha@example.com", "shop@example.com"}, s.sent[0].To)
	assert.Equal(t, "Rental Agreement - Wheelchair - WC-7", s.sent[0].Subject)
	assert.Equal(t, "<h1>Agreement</h1>", s.sent[0].HTML)
}

func TestSendAgreement_NoRecipients(t *testing.T) {
	s := &recordingSender{}
	n := NewNotifier(s, "", billing.Formatter{Currency: "Rs."})

	r := rental()
	r.ClientEmail = ""
	require.NoError(t, n.SendAgreement(context.Background(), r))
	assert.Empty(t, s.sent)
}

func TestSendAgreement_DeduplicatesRecipients(t *testing.T) {
	s := &recordingSender{}
	n := NewNotifier(s, "ASHA@example.com", billing.Formatter{Currency: "Rs."})

	require.NoError(t, n.SendAgreement(context.Background(), rental()))
	assert.Equal(t, []string{"asha@example.com"}, s.sent[0].To)
}

func TestSendReminder(t *testing.T) {
	s := &recordingSender{}
	n := NewNotifier(s, "shop@example.com", billing.Formatter{Currency: "Rs."})

	require.NoError(t, n.SendReminder(context.Background(), rental(), duedate.StatusDueToday))
	require.Len(t, s.sent, 1)
	m := s.sent[0]
	assert.Equal(t, []string{"asha@example.com"}, m.To)
	assert.Contains(t, m.Subject, "today")
	assert.Contains(t, m.Text, "10/1/2024")
	assert.Contains(t, m.Text, "Rs.500/-")
}

func TestNewSender(t *testing.T) {
	cfg := &config.Config{}

	s, err := NewSender(cfg)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)
	assert.NoError(t, s.Send(context.Background(), Message{To: []string{"a@b.c"}}))

	cfg.Mail.Provider = "smtp"
	_, err = NewSender(cfg)
	assert.Error(t, err)
	cfg.Mail.SMTPUser = "user@example.com"
	s, err = NewSender(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	cfg.Mail.Provider = "sendgrid"
	_, err = NewSender(cfg)
	assert.Error(t, err)
	cfg.Mail.SendGridAPIKey = "SG.key"
	s, err = NewSender(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SendGridSender{}, s)

	cfg.Mail.Provider = "pigeon"
	_, err = NewSender(cfg)
	assert.Error(t, err)
}
