// Package services отправляет письма по сообщениям из очередей уведомлений.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/account-lifecycle/internal/lib/sl"
	"github.com/magabrotheeeer/account-lifecycle/internal/lib/smtp"
	"github.com/magabrotheeeer/account-lifecycle/internal/models"
)

// SenderService превращает сообщения очереди в письма и отправляет их по SMTP.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendAccountDeleted отправляет уведомление об удалении аккаунта
// (немедленном или исполненном по расписанию).
func (s *SenderService) SendAccountDeleted(body []byte) error {
	message, err := s.unmarshal(body)
	if err != nil {
		return err
	}

	subject := "Your account has been deleted"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour account has been deleted by the administration.\nReason: %s\n\nIf you believe this is a mistake, please contact support.",
		message.Username, message.Reason)

	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

// SendDeletionScheduled отправляет предупреждение о запланированном удалении.
func (s *SenderService) SendDeletionScheduled(body []byte) error {
	message, err := s.unmarshal(body)
	if err != nil {
		return err
	}
	if message.ScheduledFor == nil {
		return fmt.Errorf("scheduled notification without scheduled_for date")
	}

	subject := "Your account is scheduled for deletion"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour account is scheduled for deletion on %s.\nReason: %s\n\nIf you want to keep your account, please contact support before that date.",
		message.Username, message.ScheduledFor.Format("02 Jan 2006 15:04 MST"), message.Reason)

	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

// SendDeletionReminder отправляет напоминание о приближающемся удалении.
func (s *SenderService) SendDeletionReminder(body []byte) error {
	message, err := s.unmarshal(body)
	if err != nil {
		return err
	}
	if message.ScheduledFor == nil {
		return fmt.Errorf("reminder notification without scheduled_for date")
	}

	subject := "Reminder: your account will be deleted soon"
	bodyText := fmt.Sprintf("Hello, %s!\n\nThis is a reminder that your account will be deleted on %s.\n\nIf you want to keep your account, please contact support before that date.",
		message.Username, message.ScheduledFor.Format("02 Jan 2006 15:04 MST"))

	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

// SendAccountRestored отправляет подтверждение восстановления аккаунта.
func (s *SenderService) SendAccountRestored(body []byte) error {
	message, err := s.unmarshal(body)
	if err != nil {
		return err
	}

	subject := "Your account has been restored"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour account has been restored and is active again.\nReason: %s\n\nThis account has been deleted %d time(s) in total.",
		message.Username, message.Reason, message.DeletionCount)

	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

func (s *SenderService) unmarshal(body []byte) (*models.NotificationMessage, error) {
	var message models.NotificationMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return nil, fmt.Errorf("error unmarshalling message: %w", err)
	}
	return &message, nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to), slog.String("subject", subject))
	return nil
}
