package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/buildquick/booking-api/internal/scheduling"
	"github.com/buildquick/booking-api/pkg/logging"
)

// ConfirmationMailer sends the invitee a summary of their booking. Failures
// are logged and never bubble up to the booking response.
type ConfirmationMailer struct {
	sender EmailSender
	logger *logging.Logger
}

func NewConfirmationMailer(sender EmailSender, logger *logging.Logger) *ConfirmationMailer {
	if logger == nil {
		logger = logging.Default()
	}
	if sender == nil {
		sender = NewStubEmailSender(logger)
	}
	return &ConfirmationMailer{sender: sender, logger: logger}
}

// SendConfirmation emails the invitee. Safe to call in a goroutine.
func (m *ConfirmationMailer) SendConfirmation(ctx context.Context, req scheduling.BookingRequest, conf *scheduling.BookingConfirmation) {
	if req.Email == "" || conf == nil {
		return
	}
	msg := ConfirmationMessage(req, conf)
	if err := m.sender.Send(ctx, msg); err != nil {
		m.logger.Error("confirmation email failed", "error", err, "to", req.Email)
		return
	}
	m.logger.Info("confirmation email sent", "to", req.Email)
}

// ConfirmationMessage builds the email for a confirmed booking.
func ConfirmationMessage(req scheduling.BookingRequest, conf *scheduling.BookingConfirmation) EmailMessage {
	when := conf.StartTime.Format("Monday, January 2, 2006 at 3:04 PM MST")
	body := fmt.Sprintf("Hi %s,\n\nYour meeting %q is confirmed for %s.\n", req.Name, conf.Name, when)
	if conf.Location.JoinURL != "" {
		body += fmt.Sprintf("\nJoin link: %s\n", conf.Location.JoinURL)
	}
	if !conf.EndTime.IsZero() {
		body += fmt.Sprintf("\nDuration: %d minutes\n", int(conf.EndTime.Sub(conf.StartTime)/time.Minute))
	}
	body += "\nNeed to make a change? Cancellations are free up to 24 hours before the meeting.\n"

	return EmailMessage{
		To:      req.Email,
		ToName:  req.Name,
		Subject: fmt.Sprintf("Confirmed: %s on %s", conf.Name, conf.StartTime.Format("Jan 2")),
		Body:    body,
	}
}
