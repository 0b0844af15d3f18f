package interfaces

import (
	"context"

	"github.com/mailpin/mailpin/internal/models"
)

// NotifierService sends the submission receipt back to the original
// sender. Notify never returns an error: any failure is logged and
// reported as false, and must not affect the already-committed ingestion.
type NotifierService interface {
	Notify(ctx context.Context, email *models.Email, submissionHash string) bool
}
