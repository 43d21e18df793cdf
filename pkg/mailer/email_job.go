package mailer

import "context"

// Sender delivers a single message. html is optional.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// EmailJob is a rendered message ready to hand to a Sender.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

func (j EmailJob) SendWith(ctx context.Context, s Sender) error {
	return s.Send(ctx, j.To, j.Subject, j.Text, j.HTML)
}
