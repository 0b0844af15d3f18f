package repository

import (
	"context"
	"errors"
	"time"

	"github.com/opentracing/opentracing-go"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mailpin/mailpin/interfaces"
	mailpin_errors "github.com/mailpin/mailpin/internal/errors"
	"github.com/mailpin/mailpin/internal/models"
	"github.com/mailpin/mailpin/internal/tracing"
	"github.com/mailpin/mailpin/internal/utils"
)

type emailAttachmentRepository struct {
	db      *gorm.DB
	storage interfaces.StorageService
}

func NewEmailAttachmentRepository(db *gorm.DB, storageService interfaces.StorageService) interfaces.EmailAttachmentRepository {
	return &emailAttachmentRepository{
		db:      db,
		storage: storageService,
	}
}

// Create adds a new attachment record. The parent email row must already
// exist; a foreign key violation surfaces as a storage error.
func (r *emailAttachmentRepository) Create(ctx context.Context, attachment *models.EmailAttachment) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailAttachmentRepository.Create")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

// Store writes the attachment bytes to file storage under the record's
// storage key. The key is assigned in the model's BeforeCreate hook, so
// the row never needs a follow-up UPDATE.
func (r *emailAttachmentRepository) Store(ctx context.Context, attachment *models.EmailAttachment, data []byte) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailAttachmentRepository.Store")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	if attachment.StorageKey == "" {
		attachment.StorageKey = attachment.ID + utils.FileExtension(attachment.Filename)
	}

	if err := r.storage.Upload(ctx, attachment.StorageKey, data, attachment.ContentType); err != nil {
		tracing.TraceErr(span, err)
		return pkgerrors.Wrap(err, "failed to upload attachment")
	}
	return nil
}

// GetByID retrieves an attachment by its ID
func (r *emailAttachmentRepository) GetByID(ctx context.Context, id string) (*models.EmailAttachment, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailAttachmentRepository.GetByID")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var attachment models.EmailAttachment
	if err := r.db.WithContext(ctx).Omit("content").Where("id = ?", id).First(&attachment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &attachment, nil
}

// GetData retrieves the attachment bytes from file storage
func (r *emailAttachmentRepository) GetData(ctx context.Context, id string) ([]byte, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailAttachmentRepository.GetData")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	attachment, err := r.GetByID(ctx, id)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if attachment == nil {
		return nil, pkgerrors.WithStack(mailpin_errors.ErrAttachmentNotFound)
	}

	data, err := r.storage.Download(ctx, attachment.StorageKey)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, pkgerrors.Wrap(err, "failed to download attachment")
	}
	return data, nil
}

// ListByEmail retrieves all attachments for a specific email
func (r *emailAttachmentRepository) ListByEmail(ctx context.Context, emailID string) ([]*models.EmailAttachment, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailAttachmentRepository.ListByEmail")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var attachments []*models.EmailAttachment
	err := r.db.WithContext(ctx).
		Omit("content").
		Where("email_id = ?", emailID).
		Find(&attachments).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return attachments, nil
}

// ListCreatedSince returns attachment records created at or after the
// given time, used by the integrity sweep
func (r *emailAttachmentRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*models.EmailAttachment, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailAttachmentRepository.ListCreatedSince")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var attachments []*models.EmailAttachment
	err := r.db.WithContext(ctx).
		Omit("content").
		Where("created_at >= ?", since).
		Find(&attachments).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return attachments, nil
}
