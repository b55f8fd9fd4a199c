package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"reviewhub/internal/config"

	"gopkg.in/gomail.v2"
)

// EmailNotifier sends confirmation codes over SMTP.
type EmailNotifier struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewEmailNotifier(cfg *config.Config, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		logger: logger,
	}
}

// SendConfirmationCode emails the code. When SMTP is not configured the code
// is logged instead so local development works without a mail server.
func (n *EmailNotifier) SendConfirmationCode(ctx context.Context, toEmail, username, code string) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("empty recipient")
	}

	if n.cfg.SMTPHost == "" || n.cfg.FromEmail == "" {
		n.logger.Warn("email config missing, logging confirmation code instead",
			slog.String("to", toEmail), slog.String("code", code))
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.FromEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your confirmation code")

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Hello, %s</h2>
    <p>Your confirmation code:</p>
    <div style="font-size: 28px; font-weight: bold; letter-spacing: 3px;">%s</div>
    <p>Exchange it for an access token at /api/v1/auth/token.</p>
  </div>
</body>
</html>`, username, code)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.SMTPUser, n.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("confirmation email sent", slog.String("to", toEmail))
	return nil
}
