package mail

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"

	"chemmarket/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.opentelemetry.io/otel"
)

// Mailer sends transactional mail through SendGrid.
type Mailer struct {
	apiKey    string
	fromName  string
	fromEmail string
}

var MailerTracer = otel.Tracer("Mailer")

func NewMailer(apiKey, fromName, fromEmail string) *Mailer {
	return &Mailer{
		apiKey:    apiKey,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// GenerateOTP returns a 6-digit numeric one-time password.
func GenerateOTP() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	otp := make([]byte, 6)
	for i, v := range b {
		otp[i] = '0' + v%10
	}
	return string(otp), nil
}

// SendOTP mails a verification code. The caller keeps only a hash of the
// code; the plain value exists in the mail body alone.
func (m *Mailer) SendOTP(ctx context.Context, toName, toEmail, otp string) error {
	text := fmt.Sprintf("Dear %s,\n\nYour One-Time-Password (OTP) for verification is %s. Please enter this code within the next 10 minutes to proceed.\n\nFor your security, do not share this OTP with anyone.", toName, otp)
	html := fmt.Sprintf("<p>Dear %s,<br /><br />Your One-Time-Password (OTP) for verification is <b>%s</b>. Please enter this code within the next 10 minutes to proceed.<br /><br />For your security, do not share this OTP with anyone.</p>", toName, otp)
	return m.send(ctx, toName, toEmail, "Email Verification OTP", text, html)
}

// SendPasswordReset mails a one-shot reset link.
func (m *Mailer) SendPasswordReset(ctx context.Context, toName, toEmail, resetLink string) error {
	text := fmt.Sprintf("Dear %s,\n\nA password reset was requested for your account. Open the link below within 10 minutes to choose a new password:\n\n%s\n\nIf you did not request this, you can ignore this mail.", toName, resetLink)
	html := fmt.Sprintf("<p>Dear %s,<br /><br />A password reset was requested for your account. Open the link below within 10 minutes to choose a new password:<br /><br /><a href=%q>%s</a><br /><br />If you did not request this, you can ignore this mail.</p>", toName, resetLink, resetLink)
	return m.send(ctx, toName, toEmail, "Password Reset", text, html)
}

// SendSecurityAlert notifies the account owner after a password change.
func (m *Mailer) SendSecurityAlert(ctx context.Context, toName, toEmail string) error {
	text := fmt.Sprintf("Dear %s,\n\nThe password of your account was just changed. If this was not you, contact support immediately.", toName)
	html := fmt.Sprintf("<p>Dear %s,<br /><br />The password of your account was just changed. If this was not you, contact support immediately.</p>", toName)
	return m.send(ctx, toName, toEmail, "Security Alert", text, html)
}

func (m *Mailer) send(ctx context.Context, toName, toEmail, subject, text, html string) error {
	ctx, span := MailerTracer.Start(ctx, "Mailer.send")
	defer span.End()

	if m.apiKey == "" {
		return fmt.Errorf("mailer is not configured")
	}

	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	to := sgmail.NewEmail(toName, toEmail)
	message := sgmail.NewSingleEmail(from, subject, to, text, html)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		logger.Error(ctx, "Mail send failed", slog.String("error", err.Error()))
		return err
	}
	if response.StatusCode >= 400 {
		logger.Error(ctx, "Mail rejected",
			slog.Int("status", response.StatusCode),
			slog.String("body", response.Body),
		)
		return fmt.Errorf("failed to send mail, status code: %d", response.StatusCode)
	}

	logger.Info(ctx, "Mail sent", slog.String("subject", subject))
	return nil
}
