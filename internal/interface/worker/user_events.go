package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-cache-api/internal/domain/event"
	"github.com/oksasatya/user-cache-api/pkg/mailer"
	mailtpl "github.com/oksasatya/user-cache-api/pkg/mailer/templates"
)

// Outcome tells the consumer loop what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Drop
	Retry
)

// WelcomeMailer turns user.created events into welcome e-mails.
type WelcomeMailer struct {
	Sender      mailer.Sender
	Logger      *logrus.Logger
	AppName     string
	CompanyName string
	SupportURL  string
}

// Handle decodes one queue message. Malformed messages are dropped, events
// other than user.created are acked untouched, and send failures are retried.
func (w *WelcomeMailer) Handle(ctx context.Context, body []byte) Outcome {
	var ev event.UserEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		w.Logger.WithError(err).Warn("bad user event message")
		return Drop
	}
	if ev.Type != event.UserCreated {
		return Ack
	}
	if ev.Email == "" {
		w.Logger.WithField("user_id", ev.UserID).Warn("user.created without email")
		return Drop
	}

	job, err := w.render(ev)
	if err != nil {
		w.Logger.WithError(err).WithField("user_id", ev.UserID).Error("render welcome failed")
		return Drop
	}
	if err := job.SendWith(ctx, w.Sender); err != nil {
		w.Logger.WithError(err).WithField("user_id", ev.UserID).Warn("send welcome failed")
		return Retry
	}
	w.Logger.WithField("user_id", ev.UserID).Info("welcome email sent")
	return Ack
}

func (w *WelcomeMailer) render(ev event.UserEvent) (mailer.EmailJob, error) {
	subject, text, html, err := mailtpl.RenderWelcome(mailtpl.Welcome{
		Name:        ev.Name,
		Email:       ev.Email,
		AppName:     w.AppName,
		CompanyName: w.CompanyName,
		SupportURL:  w.SupportURL,
	})
	if err != nil {
		return mailer.EmailJob{}, fmt.Errorf("render welcome: %w", err)
	}
	return mailer.EmailJob{To: ev.Email, Subject: subject, Text: text, HTML: html}, nil
}
