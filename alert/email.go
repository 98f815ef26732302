package alert

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Email sends failure events to an operator mailbox through SendGrid.
type Email struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
	toEmail   string
	log       *zap.SugaredLogger
}

func NewEmail(apiKey, fromName, fromEmail, toEmail string, log *zap.SugaredLogger) *Email {
	return &Email{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		log:       log,
	}
}

func (e *Email) Post(level, message, source string, params map[string]string) {
	subject := fmt.Sprintf("[%s] catalog sync: %s", strings.ToUpper(level), source)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var body strings.Builder
	body.WriteString(message)
	body.WriteString("\n\n")
	for _, k := range keys {
		fmt.Fprintf(&body, "%s: %s\n", k, params[k])
	}

	from := mail.NewEmail(e.fromName, e.fromEmail)
	to := mail.NewEmail("", e.toEmail)
	msg := mail.NewSingleEmail(from, subject, to, body.String(), "")

	res, err := e.client.Send(msg)
	if err != nil {
		e.log.Errorw("alert email failed", "err", err)
		return
	}
	if res.StatusCode >= 400 {
		e.log.Errorw("alert email rejected", "status", res.StatusCode, "body", res.Body)
	}
}
