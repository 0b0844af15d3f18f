package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mailpin/mailpin/config"
	"github.com/mailpin/mailpin/internal/logger"
	"github.com/mailpin/mailpin/internal/models"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func testConfig(url string) *config.PostmarkConfig {
	return &config.PostmarkConfig{
		URL:            url,
		ServerToken:    "test-token",
		FromAddress:    "receipts@mailpin.io",
		MessageStream:  "outbound",
		TimeoutSeconds: 2,
	}
}

func testEmail() *models.Email {
	return &models.Email{
		FromAddress: "sender@example.com",
		FromName:    "Sender",
		Subject:     "field report",
	}
}

func TestNotify_Success(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/email", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("X-Postmark-Server-Token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ErrorCode":0,"Message":"OK","MessageID":"msg-1"}`))
	}))
	defer server.Close()

	svc := NewPostmarkNotifier(getLogger(), testConfig(server.URL))

	// Act
	ok := svc.Notify(context.Background(), testEmail(), "abc123def456")

	// Assert
	assert.True(t, ok)
}

func TestNotify_ProviderRejects(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"ErrorCode":300,"Message":"Invalid email request"}`))
	}))
	defer server.Close()

	svc := NewPostmarkNotifier(getLogger(), testConfig(server.URL))

	// Act
	ok := svc.Notify(context.Background(), testEmail(), "abc123def456")

	// Assert
	assert.False(t, ok)
}

func TestNotify_ErrorCodeInOkResponse(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ErrorCode":406,"Message":"Inactive recipient"}`))
	}))
	defer server.Close()

	svc := NewPostmarkNotifier(getLogger(), testConfig(server.URL))

	// Act
	ok := svc.Notify(context.Background(), testEmail(), "abc123def456")

	// Assert
	assert.False(t, ok)
}

func TestNotify_ServerUnreachable(t *testing.T) {
	// Arrange
	svc := NewPostmarkNotifier(getLogger(), testConfig("http://127.0.0.1:1"))

	// Act
	ok := svc.Notify(context.Background(), testEmail(), "abc123def456")

	// Assert
	assert.False(t, ok)
}

func TestNotify_InvalidSenderAddress(t *testing.T) {
	// Arrange
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	svc := NewPostmarkNotifier(getLogger(), testConfig(server.URL))
	email := testEmail()
	email.FromAddress = "not an address"

	// Act
	ok := svc.Notify(context.Background(), email, "abc123def456")

	// Assert
	assert.False(t, ok)
	assert.Zero(t, atomic.LoadInt32(&calls))
}
