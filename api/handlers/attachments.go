package handlers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/mailpin/mailpin/dto"
	"github.com/mailpin/mailpin/internal/repository"
	"github.com/mailpin/mailpin/internal/tracing"

	mailpin_errors "github.com/mailpin/mailpin/internal/errors"
)

type AttachmentsHandler struct {
	repos *repository.Repositories
}

func NewAttachmentsHandler(repos *repository.Repositories) *AttachmentsHandler {
	return &AttachmentsHandler{
		repos: repos,
	}
}

// Download streams the stored attachment bytes with the original
// content type and filename
func (h *AttachmentsHandler) Download() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "AttachmentsHandler.Download")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		id := c.Param("id")
		tracing.TagEntity(span, id)

		attachment, err := h.repos.EmailAttachmentRepository.GetByID(ctx, id)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get attachment"})
			return
		}
		if attachment == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
			return
		}

		data, err := h.repos.EmailAttachmentRepository.GetData(ctx, id)
		if err != nil {
			if errors.Is(err, mailpin_errors.ErrAttachmentNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
				return
			}
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read attachment"})
			return
		}

		contentType := attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		// Filename comes from the webhook sender; FormatMediaType escapes it
		c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": attachment.Filename}))
		c.Data(http.StatusOK, contentType, data)
	}
}

// ListForEmail returns the attachment metadata for one stored email
func (h *AttachmentsHandler) ListForEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "AttachmentsHandler.ListForEmail")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		emailID := c.Param("id")
		tracing.TagEntity(span, emailID)

		email, err := h.repos.EmailRepository.GetByID(ctx, emailID)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get email"})
			return
		}
		if email == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
			return
		}

		attachments, err := h.repos.EmailAttachmentRepository.ListByEmail(ctx, emailID)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list attachments"})
			return
		}

		views := make([]dto.AttachmentView, 0, len(attachments))
		for _, a := range attachments {
			views = append(views, attachmentView(a))
		}
		c.JSON(http.StatusOK, gin.H{"attachments": views})
	}
}
