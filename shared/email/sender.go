package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"creator-stack/internal/models"
	"creator-stack/shared/config"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("email").Funcs(template.FuncMap{
	"join": strings.Join,
}).ParseFS(templateFS, "templates/*.html"))

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Sender struct {
	config *config.EmailConfig
	send   sendFunc
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
		send:   smtp.SendMail,
	}
}

// SendDigest emails the generated topics of one content digest run.
func (s *Sender) SendDigest(report *models.DigestReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}

	if len(report.Items) == 0 && len(report.Failed) == 0 {
		return nil // Nothing to report
	}

	subject := fmt.Sprintf("Content Digest - %d Topics (%s)",
		len(report.Items), report.Date.Format("Jan 2, 2006"))

	body, err := RenderDigest(report)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.SendHTML(subject, body)
}

// SendVideoReport emails one video comparison.
func (s *Sender) SendVideoReport(report *models.VideoCoachReport) error {
	if report == nil || report.Analysis == nil || report.UserVideo == nil || report.ViralVideo == nil {
		return fmt.Errorf("report is incomplete")
	}

	subject := fmt.Sprintf("Video Coach - %q scored %d/100 (%s)",
		report.UserVideo.Title, report.Analysis.OverallScore, report.Date.Format("Jan 2, 2006"))

	body, err := RenderVideoReport(report)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.SendHTML(subject, body)
}

// SendHTML sends an email with custom HTML content
func (s *Sender) SendHTML(subject, htmlBody string) error {
	return s.sendViaSMTP(subject, htmlBody)
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return s.send(addr, auth, s.config.FromEmail, to, msg)
}

func RenderDigest(report *models.DigestReport) (string, error) {
	return render("digest.html", report)
}

func RenderVideoReport(report *models.VideoCoachReport) (string, error) {
	return render("video_report.html", report)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
