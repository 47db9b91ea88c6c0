// Package mailer sends rendered quote documents as email attachments
// over SMTP.
package mailer

import (
	"io"

	"github.com/go-gomail/gomail"

	"quotegen/internal/config"
)

// Attachment is an in-memory file to attach; rendered PDFs never touch
// disk on the way out.
type Attachment struct {
	Filename string
	Data     []byte
}

// Send delivers an HTML-bodied message with the given attachments.
func Send(cfg *config.Config, to, subject, body string, attachments ...Attachment) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.Email.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	for _, a := range attachments {
		data := a.Data
		msg.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	return dialer.DialAndSend(msg)
}
