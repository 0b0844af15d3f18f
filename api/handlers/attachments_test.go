package handlers

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mailpin/mailpin/internal/models"
	"github.com/mailpin/mailpin/internal/repository"
)

type mockEmailRepository struct {
	mock.Mock
}

func (m *mockEmailRepository) Create(ctx context.Context, email *models.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *mockEmailRepository) GetByID(ctx context.Context, id string) (*models.Email, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Email), args.Error(1)
}

func (m *mockEmailRepository) List(ctx context.Context, limit, offset int) ([]*models.Email, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Email), args.Get(1).(int64), args.Error(2)
}

type mockAttachmentRepository struct {
	mock.Mock
}

func (m *mockAttachmentRepository) Create(ctx context.Context, attachment *models.EmailAttachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *mockAttachmentRepository) Store(ctx context.Context, attachment *models.EmailAttachment, data []byte) error {
	args := m.Called(ctx, attachment, data)
	return args.Error(0)
}

func (m *mockAttachmentRepository) GetByID(ctx context.Context, id string) (*models.EmailAttachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailAttachment), args.Error(1)
}

func (m *mockAttachmentRepository) GetData(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockAttachmentRepository) ListByEmail(ctx context.Context, emailID string) ([]*models.EmailAttachment, error) {
	args := m.Called(ctx, emailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmailAttachment), args.Error(1)
}

func (m *mockAttachmentRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*models.EmailAttachment, error) {
	args := m.Called(ctx, since)
	return nil, args.Error(1)
}

func setupAttachmentsRouter(emailRepo *mockEmailRepository, attachRepo *mockAttachmentRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repos := &repository.Repositories{
		EmailRepository:           emailRepo,
		EmailAttachmentRepository: attachRepo,
	}
	handler := NewAttachmentsHandler(repos)

	router := gin.New()
	router.GET("/emails/:id/attachments", handler.ListForEmail())
	router.GET("/attachments/:id", handler.Download())
	return router
}

func TestListForEmail(t *testing.T) {
	// Arrange
	emailRepo := &mockEmailRepository{}
	attachRepo := &mockAttachmentRepository{}
	router := setupAttachmentsRouter(emailRepo, attachRepo)

	emailRepo.On("GetByID", mock.Anything, "email_test1").Return(&models.Email{ID: "email_test1"}, nil)
	attachRepo.On("ListByEmail", mock.Anything, "email_test1").Return([]*models.EmailAttachment{
		{ID: "file_a", Filename: "photo.jpg", ContentType: "image/jpeg"},
		{ID: "file_b", Filename: "notes.pdf", ContentType: "application/pdf"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/emails/email_test1/attachments", nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Attachments []struct {
			ID       string `json:"id"`
			Filename string `json:"filename"`
		} `json:"attachments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Attachments, 2)
	assert.Equal(t, "file_a", resp.Attachments[0].ID)
	assert.Equal(t, "notes.pdf", resp.Attachments[1].Filename)
	attachRepo.AssertExpectations(t)
}

func TestListForEmail_EmailNotFound(t *testing.T) {
	// Arrange
	emailRepo := &mockEmailRepository{}
	attachRepo := &mockAttachmentRepository{}
	router := setupAttachmentsRouter(emailRepo, attachRepo)

	emailRepo.On("GetByID", mock.Anything, "email_missing").Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/emails/email_missing/attachments", nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
	attachRepo.AssertNotCalled(t, "ListByEmail", mock.Anything, mock.Anything)
}

func TestDownload_EscapesFilename(t *testing.T) {
	// Arrange
	emailRepo := &mockEmailRepository{}
	attachRepo := &mockAttachmentRepository{}
	router := setupAttachmentsRouter(emailRepo, attachRepo)

	filename := `report "final".pdf`
	attachRepo.On("GetByID", mock.Anything, "file_a").Return(&models.EmailAttachment{
		ID:          "file_a",
		Filename:    filename,
		ContentType: "application/pdf",
	}, nil)
	attachRepo.On("GetData", mock.Anything, "file_a").Return([]byte("pdf bytes"), nil)

	req := httptest.NewRequest(http.MethodGet, "/attachments/file_a", nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert: the quoted filename survives a parse round-trip
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("pdf bytes"), w.Body.Bytes())

	disposition := w.Header().Get("Content-Disposition")
	mediaType, params, err := mime.ParseMediaType(disposition)
	require.NoError(t, err)
	assert.Equal(t, "inline", mediaType)
	assert.Equal(t, filename, params["filename"])
}

func TestDownload_AttachmentNotFound(t *testing.T) {
	// Arrange
	emailRepo := &mockEmailRepository{}
	attachRepo := &mockAttachmentRepository{}
	router := setupAttachmentsRouter(emailRepo, attachRepo)

	attachRepo.On("GetByID", mock.Anything, "file_missing").Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/attachments/file_missing", nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
	attachRepo.AssertNotCalled(t, "GetData", mock.Anything, mock.Anything)
}
