package services

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"itinera/internal/config"
)

type MailServiceInterface interface {
	SendOtpMail(ctx context.Context, to, code string) error
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type OtpMailData struct {
	AppName string
	Code    string
	Minutes int
	Year    int
}

type smtpMailService struct {
	sender   mailSender
	from     string
	fromName string
	appName  string
	html     *template.Template
	text     *template.Template
	logger   *zap.Logger
}

// NewMailService returns a logging no-op service when SMTP is not configured.
func NewMailService(cfg *config.Config, logger *zap.Logger) MailServiceInterface {
	if !cfg.SMTPEnabled() {
		return &noopMailService{logger: logger}
	}
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return newSMTPMailService(dialer, cfg.MailFrom, cfg.MailFromName, logger)
}

func newSMTPMailService(sender mailSender, from, fromName string, logger *zap.Logger) *smtpMailService {
	return &smtpMailService{
		sender:   sender,
		from:     from,
		fromName: fromName,
		appName:  fromName,
		html:     template.Must(template.New("otpHTML").Parse(otpHTMLTemplate)),
		text:     template.Must(template.New("otpText").Parse(otpTextTemplate)),
		logger:   logger,
	}
}

func (s *smtpMailService) SendOtpMail(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := OtpMailData{
		AppName: s.appName,
		Code:    code,
		Minutes: int(OtpTTL / time.Minute),
		Year:    time.Now().Year(),
	}
	var hb, tb bytes.Buffer
	if err := s.html.Execute(&hb, data); err != nil {
		return err
	}
	if err := s.text.Execute(&tb, data); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your OTP Code - Valid for 5 Minutes")
	m.SetBody("text/plain", tb.String())
	m.AddAlternative("text/html", hb.String())

	if err := s.sender.DialAndSend(m); err != nil {
		s.logger.Warn("send otp mail", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}

type noopMailService struct {
	logger *zap.Logger
}

func (n *noopMailService) SendOtpMail(_ context.Context, to, _ string) error {
	n.logger.Info("smtp not configured, otp mail skipped", zap.String("to", to))
	return nil
}

const otpHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.AppName}} OTP</title>
</head>
<body style="margin:0;padding:0;background:#f8fafc;font-family:-apple-system,'Segoe UI',Roboto,Arial,sans-serif;">
  <div style="max-width:600px;margin:0 auto;padding:32px 16px;">
    <h2 style="color:#2563eb;text-align:center;margin:0 0 8px;">Your OTP Code</h2>
    <p style="color:#475569;text-align:center;margin:0 0 24px;">Enter this code to verify your account</p>
    <div style="background:#2563eb;color:#ffffff;padding:28px 16px;text-align:center;border-radius:16px;font-size:36px;font-weight:800;letter-spacing:8px;">
      {{.Code}}
    </div>
    <p style="color:#475569;text-align:center;margin:24px 0 0;">
      <strong>This code expires in {{.Minutes}} minutes.</strong><br>
      If you didn't request this, you can ignore this email.
    </p>
    <p style="color:#94a3b8;font-size:13px;text-align:center;margin:32px 0 0;">&copy; {{.Year}} {{.AppName}}</p>
  </div>
</body>
</html>`

const otpTextTemplate = `{{.AppName}} OTP: {{.Code}}
Valid for {{.Minutes}} minutes only.

If you didn't request this, you can ignore this email.
`
