package ingestion

import (
	"context"
	"encoding/base64"

	"github.com/opentracing/opentracing-go"
	pkgerrors "github.com/pkg/errors"

	"github.com/mailpin/mailpin/dto"
	"github.com/mailpin/mailpin/interfaces"
	mailpin_errors "github.com/mailpin/mailpin/internal/errors"
	"github.com/mailpin/mailpin/internal/logger"
	"github.com/mailpin/mailpin/internal/models"
	"github.com/mailpin/mailpin/internal/repository"
	"github.com/mailpin/mailpin/internal/tracing"
	"github.com/mailpin/mailpin/internal/utils"
)

type ingestionService struct {
	log      logger.Logger
	repos    *repository.Repositories
	geo      interfaces.GeoService
	notifier interfaces.NotifierService
	events   interfaces.EventsPublisher
}

// NewIngestionService wires the webhook pipeline. The events publisher
// may be nil when eventing is not configured.
func NewIngestionService(
	log logger.Logger,
	repos *repository.Repositories,
	geo interfaces.GeoService,
	notifier interfaces.NotifierService,
	events interfaces.EventsPublisher,
) interfaces.IngestionService {
	return &ingestionService{
		log:      log,
		repos:    repos,
		geo:      geo,
		notifier: notifier,
		events:   events,
	}
}

// decodedAttachment pairs the record under construction with its raw bytes
type decodedAttachment struct {
	record  *models.EmailAttachment
	content []byte
}

// Ingest runs the whole pipeline for one webhook call. Attachment decode
// failures and storage failures abort the request; geo extraction and
// notification failures never do. The email row is committed before any
// attachment work so an abort mid-way leaves at worst an email without
// some of its attachments, never an attachment without its email.
func (s *ingestionService) Ingest(ctx context.Context, payload *dto.InboundEmail) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ingestionService.Ingest")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	email := normalizeEmail(payload)

	attachments, err := s.decodeAttachments(ctx, payload.Attachments)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}

	if err := s.repos.EmailRepository.Create(ctx, email); err != nil {
		tracing.TraceErr(span, err)
		return "", pkgerrors.Wrap(err, "failed to save email")
	}
	span.SetTag("email.id", email.ID)

	for _, att := range attachments {
		att.record.EmailID = email.ID
		if err := s.repos.EmailAttachmentRepository.Create(ctx, att.record); err != nil {
			tracing.TraceErr(span, err)
			return "", pkgerrors.Wrapf(err, "failed to save attachment %q", att.record.Filename)
		}
		if err := s.repos.EmailAttachmentRepository.Store(ctx, att.record, att.content); err != nil {
			tracing.TraceErr(span, err)
			return "", pkgerrors.Wrapf(err, "failed to store attachment %q", att.record.Filename)
		}
	}

	if ok := s.notifier.Notify(ctx, email, email.SubmissionHash); !ok {
		s.log.Warnf("confirmation for submission %s was not delivered", email.SubmissionHash)
	}

	if s.events != nil {
		s.events.PublishEmailReceived(ctx, email.ID, email.SubmissionHash)
	}

	return email.ID, nil
}

// normalizeEmail maps the webhook payload onto the email record. Payload
// shape is not fully trusted: missing sender or recipient blocks become
// empty fields, and a missing mailbox hash gets the sentinel value.
func normalizeEmail(payload *dto.InboundEmail) *models.Email {
	email := &models.Email{
		FromAddress: payload.FromFull.Email,
		FromName:    payload.FromFull.Name,
		Subject:     payload.Subject,
		TextBody:    payload.TextBody,
		HTMLBody:    payload.HtmlBody,
	}

	if len(payload.ToFull) > 0 {
		email.ToAddress = payload.ToFull[0].Email
		email.ToName = payload.ToFull[0].Name
		email.ToMailboxHash = payload.ToFull[0].MailboxHash
	}
	if email.ToMailboxHash == "" {
		email.ToMailboxHash = models.DefaultMailboxHash
	}

	for _, cc := range payload.CcFull {
		if cc != nil && cc.Email != "" {
			email.CcAddresses = append(email.CcAddresses, cc.Email)
		}
	}

	return email
}

// decodeAttachments base64-decodes every attachment and runs geo
// extraction on images. A single malformed attachment fails the whole
// request before anything is persisted.
func (s *ingestionService) decodeAttachments(ctx context.Context, entries []dto.InboundEmailAttachment) ([]decodedAttachment, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "ingestionService.decodeAttachments")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	attachments := make([]decodedAttachment, 0, len(entries))
	for _, entry := range entries {
		content, err := base64.StdEncoding.DecodeString(entry.Content)
		if err != nil {
			tracing.TraceErr(span, err)
			return nil, pkgerrors.Wrapf(mailpin_errors.ErrMalformedAttachment, "attachment %q: %v", entry.Name, err)
		}

		record := &models.EmailAttachment{
			Filename:      entry.Name,
			ContentType:   entry.ContentType,
			ContentLength: entry.ContentLength,
			Content:       content,
		}
		if record.ContentLength == 0 {
			record.ContentLength = len(content)
		}

		if utils.IsImageContentType(entry.ContentType) {
			if location := s.geo.Extract(content); location != nil {
				record.Latitude = &location.Latitude
				record.Longitude = &location.Longitude
				record.Altitude = location.Altitude
			}
		}

		attachments = append(attachments, decodedAttachment{record: record, content: content})
	}
	return attachments, nil
}
