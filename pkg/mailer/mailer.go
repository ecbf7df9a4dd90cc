package mailer

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/pkg/config"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// Mailer delivers transactional mail for the provisioning flow.
type Mailer interface {
	SendInvite(toEmail, toName, token string) error
}

// SendGridMailer sends mail through the SendGrid v3 API.
type SendGridMailer struct {
	cfg    config.InvitesConfig
	logger *zap.Logger
}

// NewSendGridMailer builds a mailer from the invites configuration.
func NewSendGridMailer(cfg config.InvitesConfig, logger *zap.Logger) *SendGridMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendGridMailer{cfg: cfg, logger: logger}
}

// SendInvite emails an account activation link carrying the invite token.
func (m *SendGridMailer) SendInvite(toEmail, toName, token string) error {
	if m.cfg.SendGridAPIKey == "" {
		return appErrors.ErrMailerUnavailable
	}

	link := m.activationLink(token)

	from := sgmail.NewEmail(m.cfg.FromName, m.cfg.FromEmail)
	to := sgmail.NewEmail(toName, toEmail)

	subject := fmt.Sprintf("[%s] You have been invited", m.cfg.FromName)
	text := fmt.Sprintf(
		"Hello %s,\n\nAn account has been created for you. Activate it and set your password here:\n%s\n\nThe link expires in %s.",
		toName, link, m.cfg.TokenTTL,
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>An account has been created for you. <a href=%q>Activate it and set your password</a>.</p><p>The link expires in %s.</p>",
		toName, link, m.cfg.TokenTTL,
	)

	message := sgmail.NewSingleEmail(from, subject, to, text, html)

	req := sendgrid.GetRequest(m.cfg.SendGridAPIKey, sendGridEndpoint, sendGridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(message)

	res, err := sendgrid.API(req)
	if err != nil {
		return appErrors.Wrap(err, "MAILER_UNAVAILABLE", http.StatusInternalServerError, "mail delivery failed")
	}
	if res.StatusCode >= http.StatusBadRequest {
		m.logger.Warn("sendgrid rejected invite mail",
			zap.Int("status", res.StatusCode),
			zap.String("to", toEmail),
		)
		return appErrors.ErrMailerUnavailable
	}

	return nil
}

func (m *SendGridMailer) activationLink(token string) string {
	base := strings.TrimRight(m.cfg.SiteURL, "/")
	path := m.cfg.RegisterPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s%s?token=%s", base, path, url.QueryEscape(token))
}
