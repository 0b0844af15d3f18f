package interfaces

import (
	"context"

	"github.com/mailpin/mailpin/dto"
)

// IngestionService runs the whole webhook pipeline: normalize, decode
// attachments, extract geo data, persist, write files, notify.
type IngestionService interface {
	Ingest(ctx context.Context, payload *dto.InboundEmail) (emailID string, err error)
}
