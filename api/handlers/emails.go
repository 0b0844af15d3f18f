package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/mailpin/mailpin/dto"
	"github.com/mailpin/mailpin/internal/models"
	"github.com/mailpin/mailpin/internal/repository"
	"github.com/mailpin/mailpin/internal/tracing"
	"github.com/mailpin/mailpin/internal/utils"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	previewLength    = 280
)

type EmailsHandler struct {
	repos *repository.Repositories
}

func NewEmailsHandler(repos *repository.Repositories) *EmailsHandler {
	return &EmailsHandler{
		repos: repos,
	}
}

// List returns stored emails newest first, attachment metadata included
func (h *EmailsHandler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "EmailsHandler.List")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		limit := parseIntParam(c, "limit", defaultListLimit)
		if limit < 1 || limit > maxListLimit {
			limit = defaultListLimit
		}
		offset := parseIntParam(c, "offset", 0)
		if offset < 0 {
			offset = 0
		}

		emails, total, err := h.repos.EmailRepository.List(ctx, limit, offset)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list emails"})
			return
		}

		views := make([]dto.EmailView, 0, len(emails))
		for _, email := range emails {
			views = append(views, emailView(email))
		}

		c.JSON(http.StatusOK, dto.EmailListResponse{
			Emails:     views,
			TotalCount: total,
			Limit:      limit,
			Offset:     offset,
		})
	}
}

// GetByID returns a single stored email with attachment metadata
func (h *EmailsHandler) GetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "EmailsHandler.GetByID")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		id := c.Param("id")
		tracing.TagEntity(span, id)

		email, err := h.repos.EmailRepository.GetByID(ctx, id)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get email"})
			return
		}
		if email == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
			return
		}

		c.JSON(http.StatusOK, emailView(email))
	}
}

func emailView(email *models.Email) dto.EmailView {
	preview := email.TextBody
	if preview == "" && email.HTMLBody != "" {
		preview = utils.HTMLToText(email.HTMLBody)
	}
	// Truncate on rune boundaries so a multibyte character at the cut
	// never produces invalid UTF-8
	if runes := []rune(preview); len(runes) > previewLength {
		preview = string(runes[:previewLength])
	}

	attachments := make([]dto.AttachmentView, 0, len(email.Attachments))
	for _, a := range email.Attachments {
		attachments = append(attachments, attachmentView(&a))
	}

	return dto.EmailView{
		ID:             email.ID,
		FromAddress:    email.FromAddress,
		FromName:       email.FromName,
		ToAddress:      email.ToAddress,
		ToMailboxHash:  email.ToMailboxHash,
		CcAddresses:    email.CcAddresses,
		Subject:        email.Subject,
		Preview:        preview,
		SubmissionHash: email.SubmissionHash,
		ReceivedAt:     email.ReceivedAt,
		Attachments:    attachments,
	}
}

func attachmentView(a *models.EmailAttachment) dto.AttachmentView {
	return dto.AttachmentView{
		ID:            a.ID,
		Filename:      a.Filename,
		ContentType:   a.ContentType,
		ContentLength: a.ContentLength,
		Latitude:      a.Latitude,
		Longitude:     a.Longitude,
		Altitude:      a.Altitude,
		StorageKey:    a.StorageKey,
	}
}

func parseIntParam(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
