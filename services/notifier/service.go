package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/customeros/mailsherpa/mailvalidate"
	"github.com/opentracing/opentracing-go"

	"github.com/mailpin/mailpin/config"
	"github.com/mailpin/mailpin/interfaces"
	"github.com/mailpin/mailpin/internal/logger"
	"github.com/mailpin/mailpin/internal/models"
	"github.com/mailpin/mailpin/internal/tracing"
)

const serverTokenHeader = "X-Postmark-Server-Token"

type postmarkNotifier struct {
	log        logger.Logger
	config     *config.PostmarkConfig
	httpClient *http.Client
}

// NewPostmarkNotifier builds the confirmation sender. The server token
// and client timeout come from the injected config; there is no
// package-level client state.
func NewPostmarkNotifier(log logger.Logger, cfg *config.PostmarkConfig) interfaces.NotifierService {
	return &postmarkNotifier{
		log:    log,
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type postmarkEmailRequest struct {
	From          string `json:"From"`
	To            string `json:"To"`
	Subject       string `json:"Subject"`
	TextBody      string `json:"TextBody"`
	MessageStream string `json:"MessageStream"`
}

type postmarkEmailResponse struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
	MessageID string `json:"MessageID"`
}

// Notify sends the submission receipt to the original sender. Any failure
// is logged and reported as false; the already-committed ingestion must
// not be affected.
func (s *postmarkNotifier) Notify(ctx context.Context, email *models.Email, submissionHash string) bool {
	span, ctx := opentracing.StartSpanFromContext(ctx, "postmarkNotifier.Notify")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	validation := mailvalidate.ValidateEmailSyntax(email.FromAddress)
	if !validation.IsValid {
		s.log.Warnf("not sending confirmation: sender address %q is not valid", email.FromAddress)
		return false
	}

	payload := postmarkEmailRequest{
		From:          s.config.FromAddress,
		To:            email.FromAddress,
		Subject:       fmt.Sprintf("Submission received [%s]", submissionHash),
		TextBody:      confirmationBody(email, submissionHash),
		MessageStream: s.config.MessageStream,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("failed to encode confirmation email: %v", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.URL+"/email", bytes.NewReader(body))
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("failed to build confirmation request: %v", err)
		return false
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(serverTokenHeader, s.config.ServerToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("confirmation send to %s failed: %v", email.FromAddress, err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		s.log.Errorf("confirmation send to %s failed: status %d: %s", email.FromAddress, resp.StatusCode, string(respBody))
		return false
	}

	var pmResp postmarkEmailResponse
	if err := json.Unmarshal(respBody, &pmResp); err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("unexpected response from notification provider: %v", err)
		return false
	}
	if pmResp.ErrorCode != 0 {
		s.log.Errorf("confirmation send to %s rejected: code %d: %s", email.FromAddress, pmResp.ErrorCode, pmResp.Message)
		return false
	}

	s.log.Infof("confirmation sent to %s for submission %s", email.FromAddress, submissionHash)
	return true
}

func confirmationBody(email *models.Email, submissionHash string) string {
	return fmt.Sprintf(
		"Hello %s,\n\nYour submission %q has been received.\n\nReference: %s\n\nKeep this reference for any follow-up.\n",
		displayName(email), email.Subject, submissionHash,
	)
}

func displayName(email *models.Email) string {
	if email.FromName != "" {
		return email.FromName
	}
	return email.FromAddress
}
