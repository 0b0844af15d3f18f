package interfaces

import (
	"context"

	"github.com/mailpin/mailpin/internal/models"
)

type EmailRepository interface {
	// Create persists a new email record, assigning its id and a unique
	// submission hash. The record is durable on return.
	Create(ctx context.Context, email *models.Email) error
	GetByID(ctx context.Context, id string) (*models.Email, error)
	List(ctx context.Context, limit, offset int) ([]*models.Email, int64, error)
}
