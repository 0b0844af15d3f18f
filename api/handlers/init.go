package handlers

import (
	"github.com/mailpin/mailpin/internal/repository"
	"github.com/mailpin/mailpin/services"
)

type APIHandlers struct {
	Webhook     *WebhookHandler
	Emails      *EmailsHandler
	Attachments *AttachmentsHandler
}

func InitHandlers(r *repository.Repositories, s *services.Services) *APIHandlers {
	return &APIHandlers{
		Webhook:     NewWebhookHandler(s.IngestionService),
		Emails:      NewEmailsHandler(r),
		Attachments: NewAttachmentsHandler(r),
	}
}
