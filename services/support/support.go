package support

import (
	"context"
	"fmt"
	"strings"

	supportRepo "covenant/database/repository/support"
	"covenant/models"
	"covenant/services/tasks"
	"covenant/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// SupportService accepts help tickets from the support form.
type SupportService interface {
	Submit(ctx context.Context, name, email, subject, message string) (*models.SupportTicket, error)
}

// DefaultSupportService is the production implementation. Accepted tickets
// are persisted immediately and handed to the background dispatcher queue.
type DefaultSupportService struct {
	Repo  supportRepo.SupportRepository
	Queue *asynq.Client
}

// Submit validates and stores a new ticket, then enqueues its dispatch.
func (s *DefaultSupportService) Submit(ctx context.Context, name, email, subject, message string) (*models.SupportTicket, error) {
	logger := utils.GetLogger()

	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("subject and message are required")
	}

	ticket := &models.SupportTicket{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Subject: strings.TrimSpace(subject),
		Message: message,
		Status:  models.TicketStatusOpen,
	}
	if err := s.Repo.Insert(ctx, ticket); err != nil {
		return nil, err
	}

	if s.Queue != nil {
		task, opts, err := tasks.NewTicketDispatchTask(tasks.TicketDispatchPayload{
			TicketID: ticket.ID,
			Email:    ticket.Email,
			Subject:  ticket.Subject,
		})
		if err == nil {
			_, err = s.Queue.EnqueueContext(ctx, task, opts...)
		}
		if err != nil {
			// The ticket is already stored and stays OPEN for manual
			// follow-up, so an enqueue failure is only logged.
			logger.Warn("Failed to enqueue ticket dispatch", zap.String("ticketId", ticket.ID), zap.Error(err))
		}
	}

	logger.Info("Support ticket received", zap.String("ticketId", ticket.ID))
	return ticket, nil
}
