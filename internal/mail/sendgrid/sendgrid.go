package sendgrid

import (
	"context"
	"fmt"
	"net/http"

	sg "github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/SocialShift/Knowledge-Backend/internal/config"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type Mailer struct {
	log  logger.Log
	key  string
	from *sgmail.Email
	send func(key string, m *sgmail.SGMailV3) (int, error)
}

func NewMailer(l logger.Log, cfg config.SendGrid) *Mailer {
	return &Mailer{
		log:  l,
		key:  cfg.APIKey,
		from: sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		send: post,
	}
}

func post(key string, m *sgmail.SGMailV3) (int, error) {
	req := sg.GetRequest(key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)
	res, err := sg.API(req)
	if err != nil {
		return 0, err
	}
	return res.StatusCode, nil
}

func (m *Mailer) verificationMail(email, code string) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = "Verify your email"
	p.AddTos(sgmail.NewEmail("", email))

	msg := sgmail.NewV3Mail()
	msg.SetFrom(m.from)
	msg.AddPersonalizations(p)
	msg.AddContent(
		sgmail.NewContent("text/plain", fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)),
		sgmail.NewContent("text/html", fmt.Sprintf("<p>Your verification code is <strong>%s</strong>.</p><p>It expires in 10 minutes.</p>", code)),
	)
	return msg
}

// SendVerificationCode mails the OTP. Without an API key the code is only logged.
func (m *Mailer) SendVerificationCode(_ context.Context, email, code string) error {
	if m.key == "" {
		m.log.Warn("sendgrid api key not set, verification mail skipped", "email", email)
		return nil
	}
	status, err := m.send(m.key, m.verificationMail(email, code))
	if err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	if status >= http.StatusBadRequest {
		return fmt.Errorf("send verification mail: sendgrid status %d", status)
	}
	return nil
}
