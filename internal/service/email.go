package service

import (
	"fmt"
	"net/smtp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alumnihub/backend/config"
	"github.com/alumnihub/backend/internal/models"
)

// EmailService sends transactional email over SMTP. Callers on workflow
// paths treat notification failures as best-effort; the OTP sender is the
// exception because the member cannot proceed without the code.
type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
}

var _ IEmailService = (*EmailService)(nil)

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.FromEmail,
		fromName:     cfg.FromName,
	}
}

// SendWelcomeEmail confirms a registration was received.
func (s *EmailService) SendWelcomeEmail(user *models.User) error {
	subject := "Welcome to the alumni directory"
	body := fmt.Sprintf(`Hello %s,

Thanks for registering. Your account is awaiting review by an
administrator; we will let you know as soon as it is approved.

Best regards,
%s`, displayName(user.Name), s.fromName)

	return s.sendEmail(user.Email, subject, body)
}

// SendApprovalNotice tells a member their registration was approved.
func (s *EmailService) SendApprovalNotice(user *models.User) error {
	subject := "Your registration has been approved"
	body := fmt.Sprintf(`Hello %s,

Your registration has been approved. You can now log in and appear in
the member directory.

Best regards,
%s`, displayName(user.Name), s.fromName)

	return s.sendEmail(user.Email, subject, body)
}

// SendRejectionNotice tells a member their registration was declined.
func (s *EmailService) SendRejectionNotice(user *models.User, reason string) error {
	subject := "Your registration could not be approved"
	body := fmt.Sprintf(`Hello %s,

Unfortunately your registration could not be approved.`, displayName(user.Name))
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += fmt.Sprintf("\n\nBest regards,\n%s", s.fromName)

	return s.sendEmail(user.Email, subject, body)
}

// SendUpdateRequestResolved notifies the owner of an update request about
// the admin's decision.
func (s *EmailService) SendUpdateRequestResolved(user *models.User, approved bool, notes string) error {
	subject := "Your profile update was rejected"
	decision := "rejected"
	if approved {
		subject = "Your profile update was approved"
		decision = "approved and applied to your profile"
	}
	body := fmt.Sprintf(`Hello %s,

Your requested profile update has been %s.`, displayName(user.Name), decision)
	if notes != "" {
		body += fmt.Sprintf("\n\nNotes from the administrator: %s", notes)
	}
	body += fmt.Sprintf("\n\nBest regards,\n%s", s.fromName)

	return s.sendEmail(user.Email, subject, body)
}

// SendOTPCode delivers a one-time login code.
func (s *EmailService) SendOTPCode(email, code string) error {
	subject := "Your login code"
	body := fmt.Sprintf(`Hello,

Your one-time login code is: %s

This code expires in 10 minutes. If you didn't request it, you can
ignore this email.

Best regards,
%s`, code, s.fromName)

	return s.sendEmail(email, subject, body)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to, subject, body string) error {
	if s.smtpHost == "" || s.fromEmail == "" {
		return fmt.Errorf("email not configured")
	}

	var auth smtp.Auth
	if s.smtpUsername != "" {
		auth = smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	}

	message := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"\r\n"+
			"%s\r\n",
		s.fromName, s.fromEmail, to, subject, body))

	addr := s.smtpHost + ":" + s.smtpPort
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return cases.Title(language.English).String(name)
}
