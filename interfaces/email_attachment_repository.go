package interfaces

import (
	"context"
	"time"

	"github.com/mailpin/mailpin/internal/models"
)

type EmailAttachmentRepository interface {
	// Create persists the attachment record linked to an existing email
	Create(ctx context.Context, attachment *models.EmailAttachment) error
	// Store writes the attachment bytes to file storage under a key
	// derived from the attachment id and updates the record's StorageKey
	Store(ctx context.Context, attachment *models.EmailAttachment, data []byte) error
	GetByID(ctx context.Context, id string) (*models.EmailAttachment, error)
	GetData(ctx context.Context, id string) ([]byte, error)
	ListByEmail(ctx context.Context, emailID string) ([]*models.EmailAttachment, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]*models.EmailAttachment, error)
}
