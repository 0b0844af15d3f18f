package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/mailpin/mailpin/dto"
	"github.com/mailpin/mailpin/interfaces"
	mailpin_errors "github.com/mailpin/mailpin/internal/errors"
	"github.com/mailpin/mailpin/internal/tracing"
)

type WebhookHandler struct {
	ingestion interfaces.IngestionService
}

func NewWebhookHandler(ingestion interfaces.IngestionService) *WebhookHandler {
	return &WebhookHandler{
		ingestion: ingestion,
	}
}

// ReceiveInboundEmail accepts a Postmark inbound webhook payload and runs
// the full ingestion pipeline before answering. A malformed attachment is
// the caller's fault; everything else that stops ingestion is ours.
func (h *WebhookHandler) ReceiveInboundEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "WebhookHandler.ReceiveInboundEmail")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var payload dto.InboundEmail
		if err := c.BindJSON(&payload); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
			return
		}

		emailID, err := h.ingestion.Ingest(ctx, &payload)
		if err != nil {
			tracing.LogObjectAsJson(span, "payload", payload)
			tracing.TraceErr(span, err)
			if errors.Is(err, mailpin_errors.ErrMalformedAttachment) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process webhook"})
			return
		}

		tracing.TagEntity(span, emailID)
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Webhook received successfully",
		})
	}
}
