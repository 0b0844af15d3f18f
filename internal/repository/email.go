package repository

import (
	"context"
	"errors"

	"github.com/opentracing/opentracing-go"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mailpin/mailpin/interfaces"
	mailpin_errors "github.com/mailpin/mailpin/internal/errors"
	"github.com/mailpin/mailpin/internal/models"
	"github.com/mailpin/mailpin/internal/tracing"
	"github.com/mailpin/mailpin/internal/utils"
)

// submissionHashAttempts bounds the regenerate-and-retry loop on a
// submission hash uniqueness violation
const submissionHashAttempts = 3

type emailRepository struct {
	db *gorm.DB
}

func NewEmailRepository(db *gorm.DB) interfaces.EmailRepository {
	return &emailRepository{
		db: db,
	}
}

// Create persists the email with a freshly generated submission hash. A
// duplicated hash is retried with a new one; any other failure surfaces
// as a storage error.
func (r *emailRepository) Create(ctx context.Context, email *models.Email) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRepository.Create")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	for attempt := 0; attempt < submissionHashAttempts; attempt++ {
		if email.SubmissionHash == "" || attempt > 0 {
			email.SubmissionHash = utils.NewSubmissionHash(email.FromAddress, email.Subject)
		}

		err := r.db.WithContext(ctx).Create(email).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			tracing.TraceErr(span, err)
			return err
		}
		span.SetTag("submission_hash.conflict", true)
	}

	err := pkgerrors.WithStack(mailpin_errors.ErrSubmissionHashConflict)
	tracing.TraceErr(span, err)
	return err
}

// GetByID retrieves an email by its ID, attachments included
func (r *emailRepository) GetByID(ctx context.Context, id string) (*models.Email, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRepository.GetByID")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var email models.Email
	if err := r.db.WithContext(ctx).
		Preload("Attachments", omitAttachmentContent).
		Where("id = ?", id).
		First(&email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &email, nil
}

// List returns emails newest first, attachments included, plus the total count
func (r *emailRepository) List(ctx context.Context, limit, offset int) ([]*models.Email, int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "emailRepository.List")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Email{}).Count(&total).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, 0, err
	}

	var emails []*models.Email
	err := r.db.WithContext(ctx).
		Preload("Attachments", omitAttachmentContent).
		Order("received_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&emails).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, 0, err
	}
	return emails, total, nil
}

// omitAttachmentContent keeps raw bytes out of read queries; content is
// served from file storage instead
func omitAttachmentContent(db *gorm.DB) *gorm.DB {
	return db.Omit("content")
}
