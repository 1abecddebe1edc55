package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"rental-backend/internal/billing"
	"rental-backend/internal/duedate"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

// Notifier composes rental emails and hands them to a Sender
type Notifier struct {
	sender Sender
	copyTo string
	format billing.Formatter
}

// NewNotifier builds a notifier. copyTo, when set, receives a copy of
// every agreement email.
func NewNotifier(sender Sender, copyTo string, format billing.Formatter) *Notifier {
	return &Notifier{sender: sender, copyTo: strings.TrimSpace(copyTo), format: format}
}

// SendAgreement mails the stored agreement to the client and the shop copy
// address. It is a no-op when there is nobody to send to.
func (n *Notifier) SendAgreement(ctx context.Context, r *models.Rental) error {
	to := recipients(r.ClientEmail, n.copyTo)
	if len(to) == 0 {
		return nil
	}
	return n.sender.Send(ctx, Message{
		To:      to,
		Subject: agreementSubject(r),
		HTML:    r.AgreementHTML,
	})
}

// SendReminder tells the client their rental is due. Only the client is
// addressed.
func (n *Notifier) SendReminder(ctx context.Context, r *models.Rental, status duedate.Status) error {
	to := recipients(r.ClientEmail)
	if len(to) == 0 {
		return nil
	}

	when := "tomorrow"
	if status == duedate.StatusDueToday {
		when = "today"
	}
	text := fmt.Sprintf("Hello %s,\n\nYour rental of %s is due for return %s (%s).\nSecurity deposit held: %s.\n\nThank you.",
		r.ClientName, r.ProductName(), when, timeutil.FormatDisplay(r.EndDate), n.format.Amount(r.SecurityDeposit))
	body := fmt.Sprintf("<p>Hello %s,</p><p>Your rental of <strong>%s</strong> is due for return %s (%s).</p><p>Security deposit held: %s.</p><p>Thank you.</p>",
		html.EscapeString(r.ClientName), html.EscapeString(r.ProductName()), when,
		timeutil.FormatDisplay(r.EndDate), n.format.Amount(r.SecurityDeposit))

	return n.sender.Send(ctx, Message{
		To:      to,
		Subject: fmt.Sprintf("Rental return due %s - %s", when, r.ProductName()),
		HTML:    body,
		Text:    text,
	})
}

func agreementSubject(r *models.Rental) string {
	ref := r.SerialNumber
	if ref == "" {
		ref = r.Reference
	}
	return fmt.Sprintf("Rental Agreement - %s - %s", r.ProductName(), ref)
}

func recipients(addrs ...string) []string {
	var out []string
	seen := map[string]bool{}
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		if a == "" || seen[strings.ToLower(a)] {
			continue
		}
		seen[strings.ToLower(a)] = true
		out = append(out, a)
	}
	return out
}
