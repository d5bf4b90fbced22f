package services

import (
	"fmt"
	"log"
	"net/smtp"
)

// EmailSender delivers a single email
type EmailSender interface {
	Send(to, subject, htmlBody, textBody string) error
}

// EmailConfig represents email service configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// SMTPEmailService sends email over SMTP
type SMTPEmailService struct {
	config EmailConfig
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config EmailConfig) *SMTPEmailService {
	return &SMTPEmailService{config: config}
}

// Send delivers an email with both HTML and text parts
func (s *SMTPEmailService) Send(to, subject, htmlBody, textBody string) error {
	message := s.createMIMEMessage(to, subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// createMIMEMessage creates a MIME email message with both HTML and text parts
func (s *SMTPEmailService) createMIMEMessage(to, subject, htmlBody, textBody string) string {
	boundary := "boundary123456789"

	return fmt.Sprintf(`From: %s <%s>
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="%s"

--%s
Content-Type: text/plain; charset=UTF-8
Content-Transfer-Encoding: 7bit

%s

--%s
Content-Type: text/html; charset=UTF-8
Content-Transfer-Encoding: 7bit

%s

--%s--`,
		s.config.FromName, s.config.FromEmail, to, subject, boundary,
		boundary, textBody, boundary, htmlBody, boundary)
}

// MockEmailService logs emails instead of sending them. Used in
// development and tests.
type MockEmailService struct {
	Sent []MockEmail
}

// MockEmail records one email handed to the mock service
type MockEmail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

// Send records the email and logs it
func (s *MockEmailService) Send(to, subject, htmlBody, textBody string) error {
	s.Sent = append(s.Sent, MockEmail{To: to, Subject: subject, HTML: htmlBody, Text: textBody})
	log.Printf("mock email to %s: %s", to, subject)
	return nil
}
