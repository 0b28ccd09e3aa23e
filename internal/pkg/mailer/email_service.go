package mailer

import (
	"errors"
	"fmt"
	"html"

	"sumii-mobile-api/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("mailer not configured")

type LawyerResponseMail struct {
	ToEmail        string
	UserName       string
	LawyerName     string
	ResponseText   string
	CaseSummaryURL string
}

type IEmailService interface {
	SendVerification(toEmail, token string) error
	SendPasswordReset(toEmail, token string) error
	SendLawyerResponse(mail LawyerResponseMail) error
}

type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderName  string
	FromEmail   string
	FrontendURL string
}

type emailService struct {
	send        func(m ...*gomail.Message) error
	from        string
	frontendURL string
	logger      logger.ILogger
}

func NewEmailService(cfg Config, log logger.ILogger) IEmailService {
	s := &emailService{
		from:        fmt.Sprintf("%s <%s>", cfg.SenderName, cfg.FromEmail),
		frontendURL: cfg.FrontendURL,
		logger:      log,
	}
	if cfg.Host != "" {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		s.send = d.DialAndSend
	} else {
		log.Warn("Mailer", "SMTP host not set, emails will not be sent", nil)
	}
	return s
}

func (s *emailService) deliver(toEmail, subject, body, kind string) error {
	if s.send == nil {
		s.logger.Warn("Mailer", "skipping email, mailer not configured", map[string]interface{}{"to": toEmail, "kind": kind})
		return ErrNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		s.logger.Error("Mailer", "failed to send email", map[string]interface{}{"to": toEmail, "kind": kind, "error": err})
		return err
	}
	s.logger.Info("Mailer", "email sent", map[string]interface{}{"to": toEmail, "kind": kind})
	return nil
}

func (s *emailService) SendVerification(toEmail, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Willkommen bei Sumii!</h2>
			<p>Bitte bestätigen Sie Ihre E-Mail-Adresse:</p>
			<a href="%s" style="background-color: #1B4D89; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">E-Mail bestätigen</a>
			<p>Oder kopieren Sie diesen Link:</p>
			<p>%s</p>
			<p>Der Link ist 24 Stunden gültig.</p>
		</div>
	`, link, link)
	return s.deliver(toEmail, "Verify your Sumii email address", body, "verification")
}

func (s *emailService) SendPasswordReset(toEmail, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Passwort zurücksetzen</h2>
			<p>Sie haben angefordert, Ihr Passwort zurückzusetzen:</p>
			<a href="%s" style="background-color: #1B4D89; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Passwort zurücksetzen</a>
			<p>Oder kopieren Sie diesen Link:</p>
			<p>%s</p>
			<p>Der Link ist 1 Stunde gültig. Falls Sie dies nicht angefordert haben, ignorieren Sie diese E-Mail.</p>
		</div>
	`, link, link)
	return s.deliver(toEmail, "Reset your Sumii password", body, "password_reset")
}

func (s *emailService) SendLawyerResponse(mail LawyerResponseMail) error {
	greeting := "Hallo"
	if mail.UserName != "" {
		greeting = "Hallo " + html.EscapeString(mail.UserName)
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s,</h2>
			<p>Ihr Anwalt <strong>%s</strong> hat auf Ihren Fall geantwortet:</p>
			<blockquote style="border-left: 4px solid #1B4D89; margin: 0; padding-left: 12px;">%s</blockquote>
			<p><a href="%s">Fall in Sumii öffnen</a></p>
		</div>
	`, greeting, html.EscapeString(mail.LawyerName), html.EscapeString(mail.ResponseText), mail.CaseSummaryURL)
	return s.deliver(mail.ToEmail, "Ihr Anwalt hat geantwortet", body, "lawyer_response")
}
