// Package notify delivers budget alerts outside of the API.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// Notifier delivers a budget alert.
type Notifier interface {
	Notify(ctx context.Context, alert models.BudgetAlert) error
}

// Options configure the notifier returned by New.
type Options struct {
	Domain  string   // Mailgun sending domain
	APIKey  string   // Mailgun private API key
	APIBase string   // Mailgun API base URL, e.g. for the EU region. Optional.
	From    string   // Sender address
	To      []string // Recipients
}

// New returns a Mailgun notifier if domain, key, sender and at least one
// recipient are configured and a Log notifier otherwise.
func New(o Options) Notifier {
	if o.Domain == "" || o.APIKey == "" || o.From == "" || len(o.To) == 0 {
		return Log{}
	}

	mg := mailgun.NewMailgun(o.Domain, o.APIKey)
	if o.APIBase != "" {
		mg.SetAPIBase(o.APIBase)
	}

	send := func(ctx context.Context, from, subject, text string, to ...string) (string, string, error) {
		return mg.Send(ctx, mg.NewMessage(from, subject, text, to...))
	}

	return &Mailgun{send: send, from: o.From, to: o.To}
}

// Log writes alerts to the log.
type Log struct{}

func (Log) Notify(_ context.Context, alert models.BudgetAlert) error {
	log.Info().
		Str("budget", alert.BudgetID.String()).
		Str("owner", alert.OwnerID.String()).
		Str("level", string(alert.Level)).
		Msg(alert.Message)
	return nil
}

// sendFunc sends a plain text email and returns the response message and id.
type sendFunc func(ctx context.Context, from, subject, text string, to ...string) (string, string, error)

// sendTimeout bounds a single delivery.
const sendTimeout = 20 * time.Second

// Mailgun sends alerts by email.
type Mailgun struct {
	send sendFunc
	from string
	to   []string
}

// Subject returns the email subject for the alert.
func Subject(alert models.BudgetAlert) string {
	if alert.Level == models.AlertLevelExceeded {
		return "Budget exceeded"
	}
	return "Budget almost used up"
}

func (m *Mailgun) Notify(ctx context.Context, alert models.BudgetAlert) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, id, err := m.send(ctx, m.from, Subject(alert), alert.Message, m.to...)
	if err != nil {
		return fmt.Errorf("mailgun send failed for alert %s: %w", alert.ID, err)
	}

	log.Debug().Str("alert", alert.ID.String()).Str("mailgun-id", id).Msg(resp)
	return nil
}
